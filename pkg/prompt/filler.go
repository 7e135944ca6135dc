package prompt

import (
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-formflow/pkg/category"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/schema"
)

const skipLabel = "(leave blank)"

// Filler prompts for every field of a form and writes the answers into the
// value store.
type Filler struct {
	driver Driver
	rules  formstate.Rules
}

// NewFiller constructs a Filler over a prompt driver.
func NewFiller(driver Driver, rules formstate.Rules) *Filler {
	return &Filler{driver: driver, rules: rules}
}

// Fill walks the form's fields in schema order, prompting per canonical
// category. Answers pass through the same validation rules the store
// applies, so invalid input is re-prompted at the terminal instead of
// failing at submit time.
func (f *Filler) Fill(form schema.Form, store *formstate.Store) error {
	for _, field := range form.Fields {
		value, err := f.promptField(field)
		if err != nil {
			return err
		}
		store.SetValue(field.Key, value)
	}
	return nil
}

func (f *Filler) promptField(field schema.Field) (any, error) {
	switch field.Category() {
	case category.Textarea:
		return f.driver.Multiline(f.textConfig(field))
	case category.Select, category.Radio:
		return f.promptChoice(field)
	case category.CheckboxGroup:
		return f.promptMultiChoice(field)
	case category.CheckboxSingle:
		return f.driver.Confirm(ConfirmConfig{Message: fieldMessage(field)})
	case category.Image:
		return f.promptFile(field)
	default:
		return f.driver.Input(f.textConfig(field))
	}
}

func (f *Filler) textConfig(field schema.Field) InputConfig {
	return InputConfig{
		Message: fieldMessage(field),
		Help:    fieldHelp(field),
		Validator: func(text string) error {
			if msg := f.rules.ValidateField(field, text); msg != "" {
				return errors.New(msg)
			}
			return nil
		},
	}
}

func (f *Filler) promptChoice(field schema.Field) (string, error) {
	labels := make([]string, 0, len(field.Options)+1)
	if !field.Required {
		labels = append(labels, skipLabel)
	}
	for _, option := range field.Options {
		labels = append(labels, option.Label)
	}

	chosen, err := f.driver.Select(SelectConfig{
		Message: fieldMessage(field),
		Options: labels,
		Help:    fieldHelp(field),
	})
	if err != nil {
		return "", err
	}
	if chosen == skipLabel {
		return "", nil
	}
	return optionValue(field, chosen), nil
}

func (f *Filler) promptMultiChoice(field schema.Field) ([]string, error) {
	labels := make([]string, 0, len(field.Options))
	for _, option := range field.Options {
		labels = append(labels, option.Label)
	}

	chosen, err := f.driver.MultiSelect(SelectConfig{
		Message: fieldMessage(field),
		Options: labels,
		Help:    fieldHelp(field),
	})
	if err != nil {
		return nil, err
	}

	values := make([]string, 0, len(chosen))
	for _, label := range chosen {
		values = append(values, optionValue(field, label))
	}
	return values, nil
}

// promptFile asks for a local path and opens it as the pending upload. An
// empty answer leaves the field unset. An unreadable path degrades the same
// way instead of aborting the walk; a required field then surfaces the gap
// through validation at submit time.
func (f *Filler) promptFile(field schema.Field) (any, error) {
	path, err := f.driver.Input(InputConfig{
		Message: fieldMessage(field) + " (file path)",
		Help:    "Leave empty to skip",
	})
	if err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return (*formstate.FileInput)(nil), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return (*formstate.FileInput)(nil), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return (*formstate.FileInput)(nil), nil
	}

	return &formstate.FileInput{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Size:        info.Size(),
		Content:     file,
	}, nil
}

func fieldMessage(field schema.Field) string {
	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Key
	}
	if field.Required {
		return label + " *"
	}
	return label
}

func fieldHelp(field schema.Field) string {
	if field.Required {
		return "Required"
	}
	return ""
}

func optionValue(field schema.Field, label string) string {
	for _, option := range field.Options {
		if option.Label == label {
			return option.Value
		}
	}
	return label
}
