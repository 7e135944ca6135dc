// Package schema defines the administrator-authored form definition consumed
// by the public form engine. Schemas are owned and mutated by an external
// admin surface; once fetched the engine treats them as immutable.
package schema

import (
	"time"

	"github.com/goliatone/go-formflow/pkg/category"
)

// Option is one selectable choice for select/radio/checkbox-group fields.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field models an individual input inside a published form. Type carries the
// raw string as authored; Category() resolves it to the canonical bucket.
type Field struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []Option `json:"options,omitempty"`
	Order    int      `json:"order"`
}

// Category resolves the field's canonical category from its raw type plus
// the key/label phone heuristic.
func (f Field) Category() category.Category {
	return category.Classify(f.Type, f.Key, f.Label)
}

// Settings holds form-level presentation and lifecycle configuration.
type Settings struct {
	DateFormat     string     `json:"dateFormat,omitempty"`
	SubmitLabel    string     `json:"submitLabel,omitempty"`
	SuccessTitle   string     `json:"successTitle,omitempty"`
	SuccessMessage string     `json:"successMessage,omitempty"`
	Intro          string     `json:"intro,omitempty"`
	ClosesAt       *time.Time `json:"closesAt,omitempty"`
	ExpiresAt      *time.Time `json:"expiresAt,omitempty"`
}

// Form is the ordered field/config definition describing a public form.
type Form struct {
	Title    string   `json:"title"`
	Fields   []Field  `json:"fields"`
	Settings Settings `json:"settings"`
}

// Event is the optional linked event summary returned alongside a form.
type Event struct {
	Title    string     `json:"title,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Time     string     `json:"time,omitempty"`
	Location string     `json:"location,omitempty"`
}

// Payload is the response shape of the public form endpoint.
type Payload struct {
	Form  Form   `json:"form"`
	Event *Event `json:"event,omitempty"`
}

// Field looks up a field by key.
func (f Form) Field(key string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Key == key {
			return field, true
		}
	}
	return Field{}, false
}

// Clock abstracts "current time" reads so closed/expired checks stay
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Status describes whether a form currently accepts submissions.
type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusExpired Status = "expired"
)

// Status reports the form's lifecycle state against the injected clock.
// Expiry takes precedence over closing.
func (f Form) Status(clock Clock) Status {
	if clock == nil {
		clock = SystemClock{}
	}
	now := clock.Now()
	if f.Settings.ExpiresAt != nil && now.After(*f.Settings.ExpiresAt) {
		return StatusExpired
	}
	if f.Settings.ClosesAt != nil && now.After(*f.Settings.ClosesAt) {
		return StatusClosed
	}
	return StatusOpen
}
