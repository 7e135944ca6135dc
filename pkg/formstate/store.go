package formstate

import (
	"strings"
	"sync"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// ErrNothingFilled is the form-level message raised when a submission is
// attempted with every field empty.
const ErrNothingFilled = "Fill in at least one field before submitting"

// Store tracks collected values, touched flags and error messages for one
// mounted form. It is safe for concurrent use; the fetch loop reinitializes
// it from a goroutine while the UI thread edits values.
type Store struct {
	mu sync.Mutex

	rules     Rules
	fields    []schema.Field
	values    map[string]any
	touched   map[string]bool
	errors    map[string]string
	formError string
}

// NewStore seeds a store with fresh default values for the given fields.
func NewStore(fields []schema.Field, rules Rules) *Store {
	s := &Store{rules: rules}
	s.Reset(fields)
	return s
}

// Reset replaces the tracked fields and rebuilds values from their defaults,
// clearing all touched flags and errors. Called after a schema (re)fetch and
// after a successful submission.
func (s *Store) Reset(fields []schema.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fields = append([]schema.Field(nil), fields...)
	s.values = NewValues(fields)
	s.touched = make(map[string]bool, len(fields))
	s.errors = make(map[string]string, len(fields))
	s.formError = ""
}

// SetValue updates one field's value, marks it touched, clears the global
// form error, and re-validates the field. Unknown keys are ignored.
func (s *Store) SetValue(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	field, ok := s.fieldLocked(key)
	if !ok {
		return
	}
	s.values[key] = value
	s.touched[key] = true
	s.formError = ""

	if msg := s.rules.ValidateField(field, value); msg != "" {
		s.errors[key] = msg
	} else {
		delete(s.errors, key)
	}
}

// Value returns the current value for a key.
func (s *Store) Value(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// Values returns a shallow copy of the current value map.
func (s *Store) Values() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Fields returns the tracked schema fields in render order.
func (s *Store) Fields() []schema.Field {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schema.Field(nil), s.fields...)
}

// Error returns the message for a field only once it has been touched, which
// is the inline-render rule for client validation errors.
func (s *Store) Error(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.touched[key] {
		return ""
	}
	return s.errors[key]
}

// FormError returns the whole-form error message, if any.
func (s *Store) FormError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.formError
}

// Validate runs the whole-form pass, records every per-field error, marks
// all fields touched so errors render, and raises the form-level error when
// nothing is filled. It reports whether the form may be submitted.
func (s *Store) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.rules.ValidateForm(s.fields, s.values)
	s.errors = result.Errors
	for _, field := range s.fields {
		s.touched[field.Key] = true
	}

	if !result.AnyFilled {
		s.formError = ErrNothingFilled
		return false
	}
	s.formError = ""
	return len(result.Errors) == 0
}

// ApplyServerErrors merges field-keyed messages returned by the submission
// endpoint. They override stale client errors for the same key and force
// those fields touched so they render immediately. Messages for unknown keys
// collapse into the form-level error.
func (s *Store) ApplyServerErrors(serverErrors map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orphaned []string
	for key, msg := range serverErrors {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			continue
		}
		if _, ok := s.fieldLocked(key); ok {
			s.errors[key] = msg
			s.touched[key] = true
			continue
		}
		orphaned = append(orphaned, msg)
	}
	if len(orphaned) > 0 {
		s.formError = strings.Join(orphaned, "\n")
	}
}

// SetFormError records a whole-form failure message (e.g. a submission
// transport error surfaced as a banner).
func (s *Store) SetFormError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.formError = strings.TrimSpace(msg)
}

func (s *Store) fieldLocked(key string) (schema.Field, bool) {
	for _, field := range s.fields {
		if field.Key == key {
			return field, true
		}
	}
	return schema.Field{}, false
}
