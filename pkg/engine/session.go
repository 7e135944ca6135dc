package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/confirm"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// Status is a session's lifecycle state as the UI should present it.
type Status string

const (
	// StatusLoading covers the first fetch attempt.
	StatusLoading Status = "loading"
	// StatusRetrying means at least one full fetch round failed.
	StatusRetrying Status = "retrying"
	// StatusReady means a schema is loaded and editable.
	StatusReady Status = "ready"
)

var (
	// ErrNotReady is returned when Submit is called before a schema loaded.
	ErrNotReady = errors.New("engine: form schema not loaded yet")
	// ErrFormClosed is returned when the form window has passed.
	ErrFormClosed = errors.New("engine: form is no longer accepting submissions")
	// ErrValidationFailed is returned when client-side validation blocks the
	// submission; the per-field messages live on the session store.
	ErrValidationFailed = errors.New("engine: validation failed")
	// ErrSubmitInFlight is returned when a submission is already running;
	// the submit control stays disabled until it resolves.
	ErrSubmitInFlight = errors.New("engine: submission already in progress")
)

// Confirmation is the rendered post-submission view.
type Confirmation struct {
	Title   string
	Message string
	Details []confirm.Detail
}

// Session is one mounted public form. It owns the value store and the fetch
// task; Close tears the fetch loop down deterministically.
type Session struct {
	engine *Engine
	slug   string
	id     string

	mu           sync.Mutex
	form         *schema.Form
	event        *schema.Event
	status       Status
	retryAttempt int
	submitting   bool
	pending      *schema.Payload

	store *formstate.Store
	task  *loader.Task

	readyOnce sync.Once
	ready     chan struct{}
}

// Mount opens a session for a slug. A cached payload renders immediately
// when available; the resilient fetch loop starts either way and overwrites
// the cached view on its first success.
func (e *Engine) Mount(ctx context.Context, slug string) *Session {
	s := &Session{
		engine: e,
		slug:   slug,
		id:     uuid.NewString(),
		status: StatusLoading,
		store:  formstate.NewStore(nil, e.rules),
		ready:  make(chan struct{}),
	}

	if cached, ok := e.loader.Cached(slug); ok {
		s.applyPayload(cached)
	}

	s.task = e.loader.Start(ctx, slug, loader.Events{
		OnSuccess: s.applyPayload,
		OnRetrying: func(attempt int, _ time.Duration) {
			s.mu.Lock()
			if s.form == nil {
				s.status = StatusRetrying
			}
			s.retryAttempt = attempt
			s.mu.Unlock()
		},
	})

	e.logger.Info("form session mounted",
		zap.String("slug", slug),
		zap.String("session_id", s.id))
	return s
}

// Close cancels the fetch loop. No further state writes or timers happen
// once it returns and the task reports done.
func (s *Session) Close() {
	s.task.Cancel()
}

// ID returns the session's client reference id.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// RetryAttempt returns the fetch attempt counter (0 until the first retry).
func (s *Session) RetryAttempt() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retryAttempt
}

// Ready is closed once a schema (cached or fetched) is available.
func (s *Session) Ready() <-chan struct{} { return s.ready }

// Form returns the loaded schema, if any.
func (s *Session) Form() (schema.Form, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.form == nil {
		return schema.Form{}, false
	}
	return *s.form, true
}

// Event returns the linked event summary, if any.
func (s *Session) Event() *schema.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.event
}

// Store exposes the session's value store for editing and error display.
func (s *Session) Store() *formstate.Store { return s.store }

// SetValue forwards an edit to the value store.
func (s *Session) SetValue(key string, value any) {
	s.store.SetValue(key, value)
}

// applyPayload installs a fetched (or cached) schema and reinitializes the
// value store from its fields. The store is never reset concurrently with an
// in-progress submission: when the fetch loop delivers a payload while
// Submit holds the submitting flag (possible on the cached-mount fast path,
// where the loop keeps running after Ready closes), the payload is parked
// and applied once the submission resolves.
func (s *Session) applyPayload(payload schema.Payload) {
	s.mu.Lock()
	if s.submitting {
		parked := payload
		s.pending = &parked
		s.mu.Unlock()
		return
	}
	form := payload.Form
	s.form = &form
	s.event = payload.Event
	s.status = StatusReady

	// Reset under the session lock so a Submit that wins the submitting
	// flag afterwards sees a fully installed schema, never a half-applied
	// one.
	s.store.Reset(form.Fields)
	s.readyOnce.Do(func() { close(s.ready) })
	s.mu.Unlock()
}

// Submit validates, composes and posts the current values. On success the
// store resets and the rendered confirmation is returned. Client validation
// failures return ErrValidationFailed with messages on the store; server
// field errors merge into the store the same way; transport failures set the
// store's form-level error and are never auto-retried.
func (s *Session) Submit(ctx context.Context) (*Confirmation, error) {
	s.mu.Lock()
	if s.form == nil {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	form := *s.form
	event := s.event
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		parked := s.pending
		s.pending = nil
		s.mu.Unlock()
		if parked != nil {
			s.applyPayload(*parked)
		}
	}()

	if form.Status(s.engine.clock) != schema.StatusOpen {
		s.store.SetFormError("This form is no longer accepting submissions")
		return nil, ErrFormClosed
	}

	if !s.store.Validate() {
		return nil, ErrValidationFailed
	}

	request, err := submit.Compose(s.store.Fields(), s.store.Values())
	if err != nil {
		s.store.SetFormError("Could not prepare your submission. Please try again.")
		return nil, err
	}
	request.ClientRef = s.id

	result, err := s.engine.client.Submit(ctx, s.slug, request)
	if err != nil {
		var validationErr *submit.ValidationError
		if errors.As(err, &validationErr) {
			s.store.ApplyServerErrors(validationErr.Fields)
			return nil, err
		}
		s.store.SetFormError("Submission failed. Please check your connection and try again.")
		return nil, err
	}

	confirmation := s.buildConfirmation(form, event, request.Values, result)
	s.store.Reset(form.Fields)
	return confirmation, nil
}

func (s *Session) buildConfirmation(form schema.Form, event *schema.Event, submitted map[string]any, result submit.Result) *Confirmation {
	tokens := confirm.ResolveTokens(form, event, submitted)

	message := confirm.Render(form.Settings.SuccessMessage, tokens)
	if message == "" {
		message = result.Message
	}
	if message == "" {
		message = "Thank you! Your submission has been received."
	}

	title := confirm.Render(form.Settings.SuccessTitle, tokens)
	if title == "" {
		title = "Submission received"
	}

	return &Confirmation{
		Title:   title,
		Message: message,
		Details: confirm.Details(form, event, submitted),
	}
}
