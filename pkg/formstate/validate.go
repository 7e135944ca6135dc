package formstate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/phone"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// DefaultMaxUploadBytes caps image uploads at 5 MB unless overridden.
const DefaultMaxUploadBytes int64 = 5 << 20

// DefaultAcceptedMIMETypes lists the upload content types accepted by
// default.
var DefaultAcceptedMIMETypes = []string{
	"image/jpeg", "image/png", "image/gif", "image/webp",
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Rules bundles the tunable validation limits. The zero value is not usable;
// construct with DefaultRules and override as needed.
type Rules struct {
	MaxUploadBytes    int64
	AcceptedMIMETypes []string
}

// DefaultRules returns the standard validation limits.
func DefaultRules() Rules {
	return Rules{
		MaxUploadBytes:    DefaultMaxUploadBytes,
		AcceptedMIMETypes: append([]string(nil), DefaultAcceptedMIMETypes...),
	}
}

// ValidateField applies the category-specific rules for one field and
// returns a user-facing message, or "" when the value is acceptable.
func (r Rules) ValidateField(field schema.Field, value any) string {
	cat := field.Category()
	switch cat {
	case category.Image:
		return r.validateFile(field, value)
	case category.CheckboxGroup:
		if field.Required && len(asStringSlice(value)) == 0 {
			return "Select at least one option"
		}
		return ""
	case category.CheckboxSingle:
		if field.Required && !isChecked(value) {
			return fmt.Sprintf("%s is required", labelOrKey(field))
		}
		return ""
	}

	text := strings.TrimSpace(asString(value))
	if text == "" {
		if field.Required {
			return fmt.Sprintf("%s is required", labelOrKey(field))
		}
		return ""
	}

	switch cat {
	case category.Email:
		if !emailPattern.MatchString(text) {
			return "Enter a valid email address"
		}
	case category.Phone:
		if !phone.IsValid(text) {
			return "Enter a valid phone number"
		}
	case category.Number:
		n, err := strconv.ParseFloat(text, 64)
		if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
			return "Enter a valid number"
		}
	case category.Date:
		if !parsesAsDate(text) {
			return "Enter a valid date"
		}
	}
	return ""
}

// IsEmpty mirrors the required-emptiness rules while ignoring the required
// flag. It decides whether a field contributes to the "anything filled"
// whole-form check.
func IsEmpty(cat category.Category, value any) bool {
	switch cat {
	case category.Image:
		file, ok := value.(*FileInput)
		return !ok || file == nil
	case category.CheckboxGroup:
		return len(asStringSlice(value)) == 0
	case category.CheckboxSingle:
		return !isChecked(value)
	default:
		return strings.TrimSpace(asString(value)) == ""
	}
}

// FormResult aggregates a whole-form validation pass.
type FormResult struct {
	Errors    map[string]string
	AnyFilled bool
}

// ValidateForm runs ValidateField over every field and separately determines
// whether at least one field holds a non-empty value. Submission is rejected
// with a form-level error when nothing is filled, independent of per-field
// required errors.
func (r Rules) ValidateForm(fields []schema.Field, values map[string]any) FormResult {
	result := FormResult{Errors: make(map[string]string)}
	for _, field := range fields {
		value := values[field.Key]
		if msg := r.ValidateField(field, value); msg != "" {
			result.Errors[field.Key] = msg
		}
		if !result.AnyFilled && !IsEmpty(field.Category(), value) {
			result.AnyFilled = true
		}
	}
	return result
}

func (r Rules) validateFile(field schema.Field, value any) string {
	file, ok := value.(*FileInput)
	if !ok || file == nil {
		if field.Required {
			return fmt.Sprintf("%s is required", labelOrKey(field))
		}
		return ""
	}
	if !r.acceptsType(file.ContentType) {
		return "Unsupported file type"
	}
	if r.MaxUploadBytes > 0 && file.Size > r.MaxUploadBytes {
		return fmt.Sprintf("File is too large (max %d MB)", r.MaxUploadBytes>>20)
	}
	return ""
}

func (r Rules) acceptsType(contentType string) bool {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	for _, accepted := range r.AcceptedMIMETypes {
		if normalized == accepted {
			return true
		}
	}
	return false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"01/02/2006",
}

func parsesAsDate(text string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, text); err == nil {
			return true
		}
	}
	return false
}

// isChecked accepts the boolean form plus the string spellings a single
// checkbox may arrive as when round-tripped through form encodings.
func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on", "1":
			return true
		}
	}
	return false
}

func asString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}

func asStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, asString(item))
		}
		return out
	default:
		return nil
	}
}

func labelOrKey(field schema.Field) string {
	if label := strings.TrimSpace(field.Label); label != "" {
		return label
	}
	return field.Key
}
