// Package category normalizes the loosely-typed field-type vocabulary used by
// form authors into a small closed set of render/validation behaviors.
package category

import (
	"regexp"
	"strings"
)

// Category is the canonical bucket a raw field type resolves to. Every field
// in a schema maps to exactly one Category; downstream packages switch on it
// exhaustively instead of re-parsing the raw type string.
type Category string

const (
	Text           Category = "text"
	Textarea       Category = "textarea"
	Email          Category = "email"
	Phone          Category = "phone"
	Number         Category = "number"
	Date           Category = "date"
	Select         Category = "select"
	Radio          Category = "radio"
	CheckboxGroup  Category = "checkbox-group"
	CheckboxSingle Category = "checkbox-single"
	Image          Category = "image"
)

// NeedsOptions reports whether fields of this category require a non-empty
// options list in the schema.
func (c Category) NeedsOptions() bool {
	switch c {
	case Select, Radio, CheckboxGroup:
		return true
	default:
		return false
	}
}

// aliases maps every known raw type spelling (lowercased, as authored) to its
// canonical bucket. Alias handling stays isolated to this table.
var aliases = map[string]Category{
	"text":       Text,
	"string":     Text,
	"short_text": Text,
	"shorttext":  Text,

	"textarea":  Textarea,
	"text_area": Textarea,
	"multiline": Textarea,
	"longtext":  Textarea,
	"long_text": Textarea,
	"paragraph": Textarea,

	"email":         Email,
	"email_address": Email,
	"emailaddress":  Email,

	"phone":          Phone,
	"tel":            Phone,
	"telephone":      Phone,
	"phone_number":   Phone,
	"phonenumber":    Phone,
	"mobile":         Phone,
	"mobile_number":  Phone,
	"mobilenumber":   Phone,
	"contact":        Phone,
	"contact_number": Phone,
	"contactnumber":  Phone,

	"number":  Number,
	"numeric": Number,
	"integer": Number,
	"int":     Number,
	"float":   Number,
	"decimal": Number,

	"date":     Date,
	"datetime": Date,
	"day":      Date,

	"select":    Select,
	"dropdown":  Select,
	"drop_down": Select,
	"choice":    Select,

	"radio":         Radio,
	"radio_button":  Radio,
	"radio_buttons": Radio,
	"radiogroup":    Radio,
	"radio_group":   Radio,

	"checkbox-group": CheckboxGroup,
	"checkbox_group": CheckboxGroup,
	"checkboxes":     CheckboxGroup,
	"multi_select":   CheckboxGroup,
	"multiselect":    CheckboxGroup,
	"multi-select":   CheckboxGroup,

	"checkbox": CheckboxSingle,
	"boolean":  CheckboxSingle,
	"bool":     CheckboxSingle,
	"consent":  CheckboxSingle,

	"image":       Image,
	"file":        Image,
	"upload":      Image,
	"file_upload": Image,
	"fileupload":  Image,
	"photo":       Image,
	"picture":     Image,
	"attachment":  Image,
}

var phoneHint = regexp.MustCompile(`(?i)\b(phone|mobile|tel|telephone|contact[-_ ]?number)\b`)

// Classify maps a raw field type plus the field's key and label to a
// canonical category. Matching is case-insensitive; unknown or empty types
// fall back to the phone heuristic over key/label text and finally to Text.
// The function is pure and idempotent.
func Classify(rawType, key, label string) Category {
	normalized := strings.ToLower(strings.TrimSpace(rawType))

	cat, explicit := aliases[normalized]
	if !explicit {
		// Punctuation-stripped variant catches spellings like "Phone-Number"
		// or "contact number" used as a type string.
		cat, explicit = aliases[stripPunct(normalized)]
	}

	// The phone heuristic only applies to plain text fields and to unknown
	// types: structured inputs keep their declared behavior even when their
	// label mentions a phone.
	if !explicit || cat == Text {
		if phoneHint.MatchString(key) || phoneHint.MatchString(label) {
			return Phone
		}
	}

	if explicit {
		return cat
	}
	return Text
}

func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '-', '_', '.':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
