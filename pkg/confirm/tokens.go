// Package confirm builds the post-submission confirmation: canonical tokens
// extracted from submitted values, a detail list for the confirmation panel,
// and rendering of administrator-authored success templates.
package confirm

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/phone"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Canonical token names available to success templates.
const (
	TokenFormTitle     = "formTitle"
	TokenEventTitle    = "eventTitle"
	TokenEventDate     = "eventDate"
	TokenEventTime     = "eventTime"
	TokenEventLocation = "eventLocation"
	TokenName          = "name"
	TokenEmail         = "email"
	TokenPhone         = "phone"
)

// Identity keyword sets, matched against normalized key+label text. The
// first schema-order field with a matching name and a non-empty submitted
// value wins; when two fields both contain "name" the earlier one is used.
var (
	nameKeywords  = []string{"full name", "name"}
	emailKeywords = []string{"email"}
	phoneKeywords = []string{"phone", "mobile", "tel", "contact", "contactnumber"}
)

// ResolveTokens extracts the canonical token map from a form, its optional
// linked event, and the submitted values. Unmatched tokens resolve to "".
func ResolveTokens(form schema.Form, event *schema.Event, values map[string]any) map[string]string {
	tokens := map[string]string{
		TokenFormTitle:     strings.TrimSpace(form.Title),
		TokenEventTitle:    "",
		TokenEventDate:     "",
		TokenEventTime:     "",
		TokenEventLocation: "",
		TokenName:          findIdentityValue(form, values, nameKeywords, false),
		TokenEmail:         findIdentityValue(form, values, emailKeywords, false),
		TokenPhone:         findIdentityValue(form, values, phoneKeywords, true),
	}

	if event != nil {
		tokens[TokenEventTitle] = strings.TrimSpace(event.Title)
		if event.Date != nil {
			tokens[TokenEventDate] = schema.FormatDate(*event.Date, form.DateFormat())
		}
		tokens[TokenEventTime] = strings.TrimSpace(event.Time)
		tokens[TokenEventLocation] = strings.TrimSpace(event.Location)
	}
	return tokens
}

func findIdentityValue(form schema.Form, values map[string]any, keywords []string, asPhone bool) string {
	for _, field := range form.Fields {
		if !matchesKeywords(field, keywords) {
			continue
		}
		text := displayValue(field, values[field.Key])
		if text == "" {
			continue
		}
		if asPhone {
			return phone.Format(text)
		}
		return text
	}
	return ""
}

func matchesKeywords(field schema.Field, keywords []string) bool {
	haystack := normalizeFieldText(field.Key + " " + field.Label)
	for _, keyword := range keywords {
		if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

// normalizeFieldText lowercases and turns separator punctuation into spaces
// so "full_name" and "Full-Name" both contain "full name".
func normalizeFieldText(s string) string {
	lowered := strings.ToLower(s)
	replacer := strings.NewReplacer("_", " ", "-", " ", ".", " ")
	return replacer.Replace(lowered)
}

// displayValue formats a submitted value for human display: sets joined with
// ", ", a checked checkbox as "Yes", file inputs as their filename. Empty
// values yield "".
func displayValue(field schema.Field, value any) string {
	cat := field.Category()
	if formstate.IsEmpty(cat, value) {
		return ""
	}
	switch cat {
	case category.CheckboxGroup:
		switch v := value.(type) {
		case []string:
			return strings.Join(v, ", ")
		case []any:
			parts := make([]string, 0, len(v))
			for _, item := range v {
				parts = append(parts, strings.TrimSpace(toString(item)))
			}
			return strings.Join(parts, ", ")
		}
		return ""
	case category.CheckboxSingle:
		return "Yes"
	case category.Image:
		if file, ok := value.(*formstate.FileInput); ok && file != nil {
			return file.Filename
		}
		return toString(value)
	case category.Phone:
		return strings.TrimSpace(toString(value))
	default:
		return strings.TrimSpace(toString(value))
	}
}

func toString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return ""
	default:
		return fmt.Sprint(v)
	}
}
