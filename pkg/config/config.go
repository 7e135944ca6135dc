// Package config loads client configuration for the form engine from YAML
// or JSON documents.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/loader"
)

// Config carries the resolved engine settings.
type Config struct {
	// Endpoints are the ordered schema-fetch candidates: same-origin proxy
	// path first, then the direct external origin.
	Endpoints []string
	// SubmitEndpoint is the base URL submissions post to. Defaults to the
	// first fetch endpoint.
	SubmitEndpoint string
	// Timeout bounds each fetch candidate attempt.
	Timeout time.Duration
	// BackoffBase and BackoffMax parameterize the fetch retry delay.
	BackoffBase time.Duration
	BackoffMax  time.Duration
	// MaxUploadBytes caps image uploads.
	MaxUploadBytes int64
	// AcceptedMIMETypes lists the upload content types accepted.
	AcceptedMIMETypes []string
}

// Default returns the engine defaults, matching the loader and validation
// package constants.
func Default() Config {
	return Config{
		Timeout:           loader.DefaultTimeout,
		BackoffBase:       loader.DefaultBaseDelay,
		BackoffMax:        loader.DefaultMaxDelay,
		MaxUploadBytes:    formstate.DefaultMaxUploadBytes,
		AcceptedMIMETypes: append([]string(nil), formstate.DefaultAcceptedMIMETypes...),
	}
}

// Rules converts the upload limits into validation rules.
func (c Config) Rules() formstate.Rules {
	rules := formstate.DefaultRules()
	if c.MaxUploadBytes > 0 {
		rules.MaxUploadBytes = c.MaxUploadBytes
	}
	if len(c.AcceptedMIMETypes) > 0 {
		rules.AcceptedMIMETypes = append([]string(nil), c.AcceptedMIMETypes...)
	}
	return rules
}

// EffectiveSubmitEndpoint resolves the submission base URL.
func (c Config) EffectiveSubmitEndpoint() string {
	if endpoint := strings.TrimSpace(c.SubmitEndpoint); endpoint != "" {
		return endpoint
	}
	if len(c.Endpoints) > 0 {
		return c.Endpoints[0]
	}
	return ""
}

// configFile is the on-disk representation. Durations are authored as Go
// duration strings ("12s", "1200ms"); upload size as megabytes.
type configFile struct {
	Endpoints         []string `json:"endpoints" yaml:"endpoints"`
	SubmitEndpoint    string   `json:"submitEndpoint" yaml:"submitEndpoint"`
	Timeout           string   `json:"timeout" yaml:"timeout"`
	BackoffBase       string   `json:"backoffBase" yaml:"backoffBase"`
	BackoffMax        string   `json:"backoffMax" yaml:"backoffMax"`
	MaxUploadMB       int64    `json:"maxUploadMB" yaml:"maxUploadMB"`
	AcceptedMIMETypes []string `json:"acceptedMimeTypes" yaml:"acceptedMimeTypes"`
}

// Parse decodes a YAML (or JSON; YAML is a superset) document over the
// defaults. Unknown duration strings are rejected rather than ignored.
func Parse(data []byte) (Config, error) {
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("config: decode document: %w", err)
	}

	cfg := Default()
	for _, endpoint := range file.Endpoints {
		if trimmed := strings.TrimSpace(endpoint); trimmed != "" {
			cfg.Endpoints = append(cfg.Endpoints, trimmed)
		}
	}
	cfg.SubmitEndpoint = strings.TrimSpace(file.SubmitEndpoint)

	var err error
	if cfg.Timeout, err = parseDuration(file.Timeout, cfg.Timeout); err != nil {
		return Config{}, fmt.Errorf("config: timeout: %w", err)
	}
	if cfg.BackoffBase, err = parseDuration(file.BackoffBase, cfg.BackoffBase); err != nil {
		return Config{}, fmt.Errorf("config: backoffBase: %w", err)
	}
	if cfg.BackoffMax, err = parseDuration(file.BackoffMax, cfg.BackoffMax); err != nil {
		return Config{}, fmt.Errorf("config: backoffMax: %w", err)
	}

	if file.MaxUploadMB > 0 {
		cfg.MaxUploadBytes = file.MaxUploadMB << 20
	}
	if len(file.AcceptedMIMETypes) > 0 {
		cfg.AcceptedMIMETypes = nil
		for _, mimeType := range file.AcceptedMIMETypes {
			if trimmed := strings.ToLower(strings.TrimSpace(mimeType)); trimmed != "" {
				cfg.AcceptedMIMETypes = append(cfg.AcceptedMIMETypes, trimmed)
			}
		}
	}
	return cfg, nil
}

// Load reads and parses a config file from disk.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", trimmed)
	}
	return d, nil
}
