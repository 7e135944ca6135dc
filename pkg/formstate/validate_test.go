package formstate_test

import (
	"testing"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func field(key, rawType string, required bool) schema.Field {
	return schema.Field{Key: key, Label: key, Type: rawType, Required: required}
}

func TestValidateFieldRequiredEmpty(t *testing.T) {
	rules := formstate.DefaultRules()

	cases := []struct {
		name  string
		field schema.Field
		value any
	}{
		{name: "text blank", field: field("name", "text", true), value: "   "},
		{name: "email blank", field: field("email", "email", true), value: ""},
		{name: "select blank", field: schema.Field{Key: "b", Type: "dropdown", Required: true, Options: []schema.Option{{Label: "A", Value: "a"}}}, value: ""},
		{name: "group empty", field: field("days", "checkboxes", true), value: []string{}},
		{name: "checkbox unchecked", field: field("consent", "checkbox", true), value: false},
		{name: "image missing", field: field("photo", "upload", true), value: nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if msg := rules.ValidateField(tc.field, tc.value); msg == "" {
				t.Fatal("expected required error, got none")
			}
		})
	}
}

func TestValidateFieldOptionalEmptyPasses(t *testing.T) {
	rules := formstate.DefaultRules()
	optional := []struct {
		field schema.Field
		value any
	}{
		{field: field("name", "text", false), value: ""},
		{field: field("email", "email", false), value: "  "},
		{field: field("days", "checkboxes", false), value: []string{}},
		{field: field("consent", "checkbox", false), value: false},
		{field: field("photo", "upload", false), value: nil},
	}
	for _, tc := range optional {
		if msg := rules.ValidateField(tc.field, tc.value); msg != "" {
			t.Errorf("optional empty %q: unexpected error %q", tc.field.Key, msg)
		}
	}
}

func TestValidateFieldFormats(t *testing.T) {
	rules := formstate.DefaultRules()

	cases := []struct {
		name    string
		field   schema.Field
		value   any
		wantErr bool
	}{
		{name: "valid email", field: field("email", "email", true), value: "jane@example.com"},
		{name: "invalid email", field: field("email", "email", true), value: "jane@@example", wantErr: true},
		{name: "valid phone", field: field("phone", "phone", true), value: "+2348012345678"},
		{name: "phone missing plus", field: field("phone", "phone", true), value: "08012345678", wantErr: true},
		{name: "phone leading zero", field: field("phone", "phone", true), value: "+0123456789", wantErr: true},
		{name: "valid number", field: field("age", "number", true), value: "42.5"},
		{name: "not a number", field: field("age", "number", true), value: "forty", wantErr: true},
		{name: "infinite number", field: field("age", "number", true), value: "Inf", wantErr: true},
		{name: "valid date", field: field("dob", "date", true), value: "1990-04-12"},
		{name: "invalid date", field: field("dob", "date", true), value: "1990-13-45", wantErr: true},
		{name: "optional bad email still validated", field: field("email", "email", false), value: "nope", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := rules.ValidateField(tc.field, tc.value)
			if tc.wantErr && msg == "" {
				t.Fatal("expected error, got none")
			}
			if !tc.wantErr && msg != "" {
				t.Fatalf("unexpected error: %q", msg)
			}
		})
	}
}

func TestValidateFile(t *testing.T) {
	rules := formstate.DefaultRules()
	photo := field("photo", "upload", true)

	ok := &formstate.FileInput{Filename: "me.jpg", ContentType: "image/jpeg", Size: 1024}
	if msg := rules.ValidateField(photo, ok); msg != "" {
		t.Fatalf("valid file rejected: %q", msg)
	}

	badType := &formstate.FileInput{Filename: "me.pdf", ContentType: "application/pdf", Size: 1024}
	if msg := rules.ValidateField(photo, badType); msg == "" {
		t.Fatal("expected MIME error")
	}

	tooBig := &formstate.FileInput{Filename: "me.jpg", ContentType: "image/jpeg", Size: formstate.DefaultMaxUploadBytes + 1}
	if msg := rules.ValidateField(photo, tooBig); msg == "" {
		t.Fatal("expected size error")
	}
}

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		name  string
		cat   category.Category
		value any
		want  bool
	}{
		{name: "blank text", cat: category.Text, value: "  ", want: true},
		{name: "filled text", cat: category.Text, value: "hi", want: false},
		{name: "empty group", cat: category.CheckboxGroup, value: []string{}, want: true},
		{name: "filled group", cat: category.CheckboxGroup, value: []string{"mon"}, want: false},
		{name: "unchecked", cat: category.CheckboxSingle, value: false, want: true},
		{name: "checked", cat: category.CheckboxSingle, value: true, want: false},
		{name: "checked as string", cat: category.CheckboxSingle, value: "yes", want: false},
		{name: "nil image", cat: category.Image, value: nil, want: true},
		{name: "selected image", cat: category.Image, value: &formstate.FileInput{Filename: "a.png"}, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formstate.IsEmpty(tc.cat, tc.value); got != tc.want {
				t.Fatalf("IsEmpty = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValidateFormAnyFilled(t *testing.T) {
	rules := formstate.DefaultRules()
	fields := []schema.Field{
		field("name", "text", true),
		field("email", "email", false),
	}

	empty := map[string]any{"name": "", "email": ""}
	result := rules.ValidateForm(fields, empty)
	if result.AnyFilled {
		t.Fatal("AnyFilled = true for empty values")
	}
	if _, ok := result.Errors["name"]; !ok {
		t.Fatal("missing required error for name")
	}

	filled := map[string]any{"name": "", "email": "jane@example.com"}
	result = rules.ValidateForm(fields, filled)
	if !result.AnyFilled {
		t.Fatal("AnyFilled = false with a filled field")
	}
}
