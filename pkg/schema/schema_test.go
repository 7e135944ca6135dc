package schema_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/schema"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func TestParsePayload(t *testing.T) {
	raw := []byte(`{
		"form": {
			"title": "Youth Summit Registration",
			"fields": [
				{"key": "email", "label": "Email", "type": "email", "required": true, "order": 2},
				{"key": "full_name", "label": "Full Name", "type": "text", "required": true, "order": 1},
				{"key": "branch", "label": "Branch", "type": "dropdown", "order": 3,
					"options": [{"label": "Lagos", "value": "lagos"}, {"label": "Abuja", "value": "abuja"}]}
			],
			"settings": {"dateFormat": "dd/mm/yyyy", "submitLabel": "Register"}
		},
		"event": {"title": "Youth Summit", "time": "10:00 AM", "location": "Main Hall"}
	}`)

	payload, err := schema.ParsePayload(raw)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}

	gotKeys := make([]string, 0, len(payload.Form.Fields))
	for _, f := range payload.Form.Fields {
		gotKeys = append(gotKeys, f.Key)
	}
	wantKeys := []string{"full_name", "email", "branch"}
	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	if payload.Event == nil || payload.Event.Title != "Youth Summit" {
		t.Fatalf("event not decoded: %+v", payload.Event)
	}
}

func TestParsePayloadOrderTiesKeepAuthoredPosition(t *testing.T) {
	raw := []byte(`{"form": {"title": "t", "fields": [
		{"key": "a", "label": "A", "type": "text", "order": 1},
		{"key": "b", "label": "B", "type": "text", "order": 1},
		{"key": "c", "label": "C", "type": "text", "order": 0}
	]}}`)
	payload, err := schema.ParsePayload(raw)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	var keys []string
	for _, f := range payload.Form.Fields {
		keys = append(keys, f.Key)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, keys); diff != "" {
		t.Fatalf("tie break mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePayloadRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "empty form", raw: `{"form": {"title": "t", "fields": []}}`},
		{name: "missing form", raw: `{}`},
		{name: "duplicate keys", raw: `{"form": {"fields": [
			{"key": "x", "type": "text"}, {"key": "x", "type": "text"}]}}`},
		{name: "select without options", raw: `{"form": {"fields": [
			{"key": "x", "type": "dropdown"}]}}`},
		{name: "blank key", raw: `{"form": {"fields": [{"key": "  ", "type": "text"}]}}`},
		{name: "malformed json", raw: `{"form":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := schema.ParsePayload([]byte(tc.raw)); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestFormStatus(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name     string
		settings schema.Settings
		want     schema.Status
	}{
		{name: "no window", settings: schema.Settings{}, want: schema.StatusOpen},
		{name: "closes in future", settings: schema.Settings{ClosesAt: &future}, want: schema.StatusOpen},
		{name: "closed", settings: schema.Settings{ClosesAt: &past}, want: schema.StatusClosed},
		{name: "expired", settings: schema.Settings{ExpiresAt: &past}, want: schema.StatusExpired},
		{name: "expired wins over closed", settings: schema.Settings{ClosesAt: &past, ExpiresAt: &past}, want: schema.StatusExpired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := schema.Form{Settings: tc.settings}
			if got := form.Status(fixedClock{now: now}); got != tc.want {
				t.Fatalf("Status = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		format string
		want   string
	}{
		{format: schema.DateFormatISO, want: "2025-03-09"},
		{format: schema.DateFormatUS, want: "03/09/2025"},
		{format: schema.DateFormatEU, want: "09/03/2025"},
		{format: schema.DateFormatDayMonth, want: "09/03"},
		{format: "unknown", want: "2025-03-09"},
		{format: "", want: "2025-03-09"},
	}
	for _, tc := range cases {
		if got := schema.FormatDate(day, tc.format); got != tc.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tc.format, got, tc.want)
		}
	}
}

func TestSanitizedIntro(t *testing.T) {
	form := schema.Form{Settings: schema.Settings{
		Intro: `<p class="lead">Welcome!</p><script>alert("x")</script>`,
	}}
	got := form.SanitizedIntro()
	if strings.Contains(got, "script") {
		t.Fatalf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "Welcome!") {
		t.Fatalf("content lost: %q", got)
	}
}
