// Package formstate holds per-field value, touched and error state for a
// mounted public form, and applies the category-specific validation rules.
package formstate

import (
	"io"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// FileInput is a selected file pending upload. Content is read once, during
// submission composition.
type FileInput struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// DefaultValue returns the fresh value for a field of the given category:
// empty string for scalars, false for a single checkbox, an empty set for a
// checkbox group, nil for an image.
func DefaultValue(cat category.Category) any {
	switch cat {
	case category.CheckboxSingle:
		return false
	case category.CheckboxGroup:
		return []string{}
	case category.Image:
		return nil
	default:
		return ""
	}
}

// NewValues builds a fresh value map from the schema's fields.
func NewValues(fields []schema.Field) map[string]any {
	values := make(map[string]any, len(fields))
	for _, field := range fields {
		values[field.Key] = DefaultValue(field.Category())
	}
	return values
}
