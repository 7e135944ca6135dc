package confirm

import (
	"strings"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/phone"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// MaxDetails caps the confirmation panel's combined detail list.
const MaxDetails = 8

// Detail is one label/value row in the confirmation panel.
type Detail struct {
	Label string
	Value string
}

// preferredKeywords mark identity/contact-like fields that lead the detail
// list.
var preferredKeywords = []string{"name", "email", "phone", "mobile", "tel", "contact", "address"}

// Details builds the confirmation panel rows: identity/contact fields first,
// then event metadata when present, then the remaining filled fields in
// schema order, truncated to MaxDetails entries.
func Details(form schema.Form, event *schema.Event, values map[string]any) []Detail {
	var preferred, rest []Detail

	for _, field := range form.Fields {
		text := displayValue(field, values[field.Key])
		if text == "" {
			continue
		}
		if field.Category() == category.Phone {
			text = phone.Format(text)
		}
		row := Detail{Label: detailLabel(field), Value: text}
		if matchesKeywords(field, preferredKeywords) {
			preferred = append(preferred, row)
		} else {
			rest = append(rest, row)
		}
	}

	out := make([]Detail, 0, len(preferred)+len(rest)+3)
	out = append(out, preferred...)
	out = append(out, eventDetails(form, event)...)
	out = append(out, rest...)

	if len(out) > MaxDetails {
		out = out[:MaxDetails]
	}
	return out
}

func eventDetails(form schema.Form, event *schema.Event) []Detail {
	if event == nil {
		return nil
	}
	var out []Detail
	if event.Date != nil {
		out = append(out, Detail{Label: "Date", Value: schema.FormatDate(*event.Date, form.DateFormat())})
	}
	if t := strings.TrimSpace(event.Time); t != "" {
		out = append(out, Detail{Label: "Time", Value: t})
	}
	if loc := strings.TrimSpace(event.Location); loc != "" {
		out = append(out, Detail{Label: "Location", Value: loc})
	}
	return out
}

func detailLabel(field schema.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Key
}
