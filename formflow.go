package formflow

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/engine"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/schema"
)

// Engine is the shared form machinery; alias exported via the root package
// for convenience.
type Engine = engine.Engine

// Session is one mounted public form.
type Session = engine.Session

// Confirmation is the rendered post-submission view.
type Confirmation = engine.Confirmation

// Config collects endpoint, timeout and upload settings.
type Config = config.Config

// Form is a parsed public form schema.
type Form = schema.Form

// Field is a single form field definition.
type Field = schema.Field

// Event is the optional linked event summary.
type Event = schema.Event

// Store holds a session's values and validation state.
type Store = formstate.Store

// FileInput is a pending image upload.
type FileInput = formstate.FileInput

// Re-exported engine errors so callers can branch without importing the
// engine package.
var (
	ErrNotReady         = engine.ErrNotReady
	ErrFormClosed       = engine.ErrFormClosed
	ErrValidationFailed = engine.ErrValidationFailed
	ErrSubmitInFlight   = engine.ErrSubmitInFlight
)

// New exposes the engine constructor from the top-level module.
func New(options ...engine.Option) *Engine {
	return engine.New(options...)
}

// WithConfig applies a resolved configuration.
func WithConfig(cfg Config) engine.Option {
	return engine.WithConfig(cfg)
}

// Open constructs an engine and mounts a session for a slug in one call. It
// is the simplest entry point for callers that just want a live form.
func Open(ctx context.Context, slug string, options ...engine.Option) *Session {
	return engine.New(options...).Mount(ctx, slug)
}
