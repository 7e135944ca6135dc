package confirm_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/confirm"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/schema"
)

func registrationForm() schema.Form {
	return schema.Form{
		Title: "Youth Summit Registration",
		Fields: []schema.Field{
			{Key: "full_name", Label: "Full Name", Type: "text", Order: 1},
			{Key: "email_address", Label: "Email", Type: "email", Order: 2},
			{Key: "phone_number", Label: "Phone", Type: "phone", Order: 3},
			{Key: "days", Label: "Days attending", Type: "checkboxes", Order: 4, Options: []schema.Option{
				{Label: "Friday", Value: "Friday"}, {Label: "Saturday", Value: "Saturday"},
			}},
			{Key: "consent", Label: "Photo consent", Type: "checkbox", Order: 5},
		},
		Settings: schema.Settings{DateFormat: schema.DateFormatEU},
	}
}

func TestResolveTokensIdentityFields(t *testing.T) {
	form := registrationForm()
	values := map[string]any{
		"full_name":     "Jane Doe",
		"email_address": "jane@x.com",
		"phone_number":  "+2348012345678",
	}

	tokens := confirm.ResolveTokens(form, nil, values)

	if tokens[confirm.TokenName] != "Jane Doe" {
		t.Errorf("name = %q", tokens[confirm.TokenName])
	}
	if tokens[confirm.TokenEmail] != "jane@x.com" {
		t.Errorf("email = %q", tokens[confirm.TokenEmail])
	}
	if tokens[confirm.TokenPhone] != "+234 801 234 5678" {
		t.Errorf("phone = %q", tokens[confirm.TokenPhone])
	}
	if tokens[confirm.TokenFormTitle] != "Youth Summit Registration" {
		t.Errorf("formTitle = %q", tokens[confirm.TokenFormTitle])
	}
	if tokens[confirm.TokenEventTitle] != "" {
		t.Errorf("eventTitle should be empty, got %q", tokens[confirm.TokenEventTitle])
	}
}

func TestResolveTokensFirstMatchWins(t *testing.T) {
	form := schema.Form{
		Fields: []schema.Field{
			{Key: "nickname", Label: "Nick name", Type: "text", Order: 1},
			{Key: "full_name", Label: "Full Name", Type: "text", Order: 2},
		},
	}

	// Earlier name-like field is empty, so the later one is used.
	tokens := confirm.ResolveTokens(form, nil, map[string]any{
		"nickname":  "",
		"full_name": "Jane Doe",
	})
	if tokens[confirm.TokenName] != "Jane Doe" {
		t.Fatalf("name = %q", tokens[confirm.TokenName])
	}

	// Both filled: first schema-order match wins.
	tokens = confirm.ResolveTokens(form, nil, map[string]any{
		"nickname":  "JD",
		"full_name": "Jane Doe",
	})
	if tokens[confirm.TokenName] != "JD" {
		t.Fatalf("name = %q, want first match", tokens[confirm.TokenName])
	}
}

func TestResolveTokensEvent(t *testing.T) {
	form := registrationForm()
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	event := &schema.Event{Title: "Youth Summit", Date: &date, Time: "10:00 AM", Location: "Main Hall"}

	tokens := confirm.ResolveTokens(form, event, nil)

	want := map[string]string{
		confirm.TokenEventTitle:    "Youth Summit",
		confirm.TokenEventDate:     "20/09/2025",
		confirm.TokenEventTime:     "10:00 AM",
		confirm.TokenEventLocation: "Main Hall",
	}
	for token, expect := range want {
		if tokens[token] != expect {
			t.Errorf("%s = %q, want %q", token, tokens[token], expect)
		}
	}
}

func TestRender(t *testing.T) {
	cases := []struct {
		name     string
		template string
		tokens   map[string]string
		want     string
	}{
		{
			name:     "simple substitution",
			template: "for {{formTitle}}",
			tokens:   map[string]string{"formTitle": "Youth Summit"},
			want:     "for Youth Summit",
		},
		{
			name:     "absent token collapses",
			template: "for {{formTitle}}",
			tokens:   map[string]string{},
			want:     "for",
		},
		{
			name:     "multiple tokens with gaps",
			template: "Thanks {{name}}! See you at {{eventTitle}} on {{eventDate}}.",
			tokens:   map[string]string{"name": "Jane", "eventTitle": "Youth Summit"},
			want:     "Thanks Jane! See you at Youth Summit on .",
		},
		{
			name:     "plain text untouched",
			template: "  Thank you for registering.  ",
			tokens:   nil,
			want:     "Thank you for registering.",
		},
		{
			name:     "spaced token syntax",
			template: "Hello {{ name }}",
			tokens:   map[string]string{"name": "Jane"},
			want:     "Hello Jane",
		},
		{
			name:     "malformed template falls back to literal replacement",
			template: "Hello {{name}} {% broken",
			tokens:   map[string]string{"name": "Jane"},
			want:     "Hello Jane {% broken",
		},
		{
			name:     "values with markup characters stay verbatim",
			template: "Thanks {{name}}!",
			tokens:   map[string]string{"name": "Jane & John O'Brien"},
			want:     "Thanks Jane & John O'Brien!",
		},
		{
			name:     "angle brackets survive substitution",
			template: "Reply to {{email}}",
			tokens:   map[string]string{"email": "<jane@x.com>"},
			want:     "Reply to <jane@x.com>",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := confirm.Render(tc.template, tc.tokens); got != tc.want {
				t.Fatalf("Render = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDetails(t *testing.T) {
	form := registrationForm()
	date := time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	event := &schema.Event{Date: &date, Time: "10:00 AM", Location: "Main Hall"}

	values := map[string]any{
		"full_name":     "Jane Doe",
		"email_address": "jane@x.com",
		"phone_number":  "+2348012345678",
		"days":          []string{"Friday", "Saturday"},
		"consent":       true,
	}

	got := confirm.Details(form, event, values)
	want := []confirm.Detail{
		{Label: "Full Name", Value: "Jane Doe"},
		{Label: "Email", Value: "jane@x.com"},
		{Label: "Phone", Value: "+234 801 234 5678"},
		{Label: "Date", Value: "20/09/2025"},
		{Label: "Time", Value: "10:00 AM"},
		{Label: "Location", Value: "Main Hall"},
		{Label: "Days attending", Value: "Friday, Saturday"},
		{Label: "Photo consent", Value: "Yes"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("details mismatch (-want +got):\n%s", diff)
	}
}

func TestDetailsTruncatesToMax(t *testing.T) {
	var fields []schema.Field
	values := map[string]any{}
	for i := 0; i < 12; i++ {
		key := string(rune('a' + i))
		fields = append(fields, schema.Field{Key: key, Label: key, Type: "text", Order: i})
		values[key] = "v"
	}
	form := schema.Form{Fields: fields}

	got := confirm.Details(form, nil, values)
	if len(got) != confirm.MaxDetails {
		t.Fatalf("len = %d, want %d", len(got), confirm.MaxDetails)
	}
}

func TestDetailsSkipsEmptyAndFormatsFile(t *testing.T) {
	form := schema.Form{Fields: []schema.Field{
		{Key: "full_name", Label: "Full Name", Type: "text", Order: 1},
		{Key: "photo", Label: "Photo", Type: "upload", Order: 2},
		{Key: "notes", Label: "Notes", Type: "textarea", Order: 3},
	}}
	values := map[string]any{
		"full_name": "Jane",
		"photo":     &formstate.FileInput{Filename: "me.jpg", ContentType: "image/jpeg"},
		"notes":     "   ",
	}

	got := confirm.Details(form, nil, values)
	want := []confirm.Detail{
		{Label: "Full Name", Value: "Jane"},
		{Label: "Photo", Value: "me.jpg"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("details mismatch (-want +got):\n%s", diff)
	}
}
