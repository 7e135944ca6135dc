package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyForm marks payloads whose form carries no fields; the fetch loop
// treats these as a failed candidate and moves on.
var ErrEmptyForm = errors.New("schema: payload contains no form fields")

// ParsePayload decodes and validates a public form payload. It enforces the
// schema invariants the engine relies on: non-empty form, unique field keys,
// and options present where the canonical category needs choices. Fields are
// sorted by their declared order, ties broken by array position.
func ParsePayload(raw []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Payload{}, fmt.Errorf("schema: decode payload: %w", err)
	}
	if err := validateForm(&payload.Form); err != nil {
		return Payload{}, err
	}
	sortFields(payload.Form.Fields)
	return payload, nil
}

func validateForm(form *Form) error {
	if len(form.Fields) == 0 {
		return ErrEmptyForm
	}

	seen := make(map[string]struct{}, len(form.Fields))
	for i := range form.Fields {
		field := &form.Fields[i]
		field.Key = strings.TrimSpace(field.Key)
		if field.Key == "" {
			return fmt.Errorf("schema: field %d has an empty key", i)
		}
		if _, dup := seen[field.Key]; dup {
			return fmt.Errorf("schema: duplicate field key %q", field.Key)
		}
		seen[field.Key] = struct{}{}

		if field.Category().NeedsOptions() && len(field.Options) == 0 {
			return fmt.Errorf("schema: field %q requires options", field.Key)
		}
	}
	return nil
}

// sortFields orders fields by their Order value. The sort is stable so ties
// keep their authored array position.
func sortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Order < fields[j].Order
	})
}
