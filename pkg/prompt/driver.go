// Package prompt walks a fetched form field-by-field in the terminal,
// feeding answers through the engine's validation rules into the value
// store.
package prompt

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt: aborted by user")

// InputConfig configures a single-line or multi-line text prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt over option
// labels.
type SelectConfig struct {
	Message string
	Options []string
	Help    string
}

// Driver abstracts the terminal interaction so the fill logic can be tested
// without a real TTY.
type Driver interface {
	Input(cfg InputConfig) (string, error)
	Multiline(cfg InputConfig) (string, error)
	Confirm(cfg ConfirmConfig) (bool, error)
	Select(cfg SelectConfig) (string, error)
	MultiSelect(cfg SelectConfig) ([]string, error)
}

// SurveyDriver implements Driver on top of survey prompts.
type SurveyDriver struct{}

// Input implements Driver.
func (SurveyDriver) Input(cfg InputConfig) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, validatorOpts(cfg.Validator)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

// Multiline implements Driver.
func (SurveyDriver) Multiline(cfg InputConfig) (string, error) {
	var out string
	prompt := &survey.Multiline{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out, validatorOpts(cfg.Validator)...); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

// Confirm implements Driver.
func (SurveyDriver) Confirm(cfg ConfirmConfig) (bool, error) {
	var out bool
	prompt := &survey.Confirm{
		Message: cfg.Message,
		Help:    cfg.Help,
		Default: cfg.Default,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return false, translateSurveyErr(err)
	}
	return out, nil
}

// Select implements Driver.
func (SurveyDriver) Select(cfg SelectConfig) (string, error) {
	var out string
	prompt := &survey.Select{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

// MultiSelect implements Driver.
func (SurveyDriver) MultiSelect(cfg SelectConfig) ([]string, error) {
	var out []string
	prompt := &survey.MultiSelect{
		Message: cfg.Message,
		Options: cfg.Options,
		Help:    cfg.Help,
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		return nil, translateSurveyErr(err)
	}
	return out, nil
}

func validatorOpts(validate func(string) error) []survey.AskOpt {
	if validate == nil {
		return nil
	}
	return []survey.AskOpt{
		survey.WithValidator(func(ans interface{}) error {
			text, _ := ans.(string)
			return validate(text)
		}),
	}
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrAborted
	}
	return err
}
