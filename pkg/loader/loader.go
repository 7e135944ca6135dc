// Package loader retrieves public form schemas by slug, trying ordered
// candidate endpoints with bounded timeouts and retrying failures with a
// linear capped backoff. The retry loop runs as an explicit cancellable Task
// so view teardown is an auditable state transition.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
)

const (
	// DefaultTimeout bounds each candidate attempt.
	DefaultTimeout = 12 * time.Second
	// DefaultBaseDelay is the backoff unit between whole-round retries.
	DefaultBaseDelay = 1200 * time.Millisecond
	// DefaultMaxDelay caps the backoff.
	DefaultMaxDelay = 6 * time.Second
)

// Scheduler abstracts retry timers so tests can drive the loop with a mock
// clock instead of sleeping.
type Scheduler interface {
	After(d time.Duration) <-chan time.Time
}

type timerScheduler struct{}

func (timerScheduler) After(d time.Duration) <-chan time.Time { return time.After(d) }

// FetchError reports that every candidate endpoint failed for one attempt.
// It is never fatal; the retry loop keeps going.
type FetchError struct {
	Slug   string
	Causes []error
}

func (e *FetchError) Error() string {
	msgs := make([]string, 0, len(e.Causes))
	for _, cause := range e.Causes {
		msgs = append(msgs, cause.Error())
	}
	return fmt.Sprintf("loader: all candidates failed for %q: %s", e.Slug, strings.Join(msgs, "; "))
}

// Unwrap exposes the per-candidate causes for errors.Is/As.
func (e *FetchError) Unwrap() []error { return e.Causes }

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient overrides the transport.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.client = client
		}
	}
}

// WithEndpoints sets the ordered candidate base URLs. The same-origin proxy
// path comes first, then the direct external origin.
func WithEndpoints(endpoints ...string) Option {
	return func(l *Loader) {
		cleaned := make([]string, 0, len(endpoints))
		for _, endpoint := range endpoints {
			if trimmed := strings.TrimRight(strings.TrimSpace(endpoint), "/"); trimmed != "" {
				cleaned = append(cleaned, trimmed)
			}
		}
		if len(cleaned) > 0 {
			l.endpoints = cleaned
		}
	}
}

// WithTimeout bounds each candidate attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// WithBackoff overrides the retry delay parameters.
func WithBackoff(base, max time.Duration) Option {
	return func(l *Loader) {
		if base > 0 {
			l.baseDelay = base
		}
		if max > 0 {
			l.maxDelay = max
		}
	}
}

// WithCache substitutes the slug-scoped payload cache.
func WithCache(cache Cache) Option {
	return func(l *Loader) {
		if cache != nil {
			l.cache = cache
		}
	}
}

// WithScheduler substitutes the retry timer source.
func WithScheduler(sched Scheduler) Option {
	return func(l *Loader) {
		if sched != nil {
			l.sched = sched
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader fetches form payloads resiliently across candidate endpoints.
type Loader struct {
	client    *http.Client
	endpoints []string
	timeout   time.Duration
	baseDelay time.Duration
	maxDelay  time.Duration
	cache     Cache
	sched     Scheduler
	logger    *zap.Logger
}

// New constructs a Loader with defaults applied.
func New(options ...Option) *Loader {
	l := &Loader{
		client:    &http.Client{},
		timeout:   DefaultTimeout,
		baseDelay: DefaultBaseDelay,
		maxDelay:  DefaultMaxDelay,
		cache:     NewMemoryCache(),
		sched:     timerScheduler{},
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Delay returns the backoff before retry attempt n (n >= 1):
// min(maxDelay, baseDelay*n). Non-decreasing and capped.
func (l *Loader) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := l.baseDelay * time.Duration(attempt)
	if delay > l.maxDelay {
		return l.maxDelay
	}
	return delay
}

// Cached returns the last good payload for a slug, if any.
func (l *Loader) Cached(slug string) (schema.Payload, bool) {
	return l.cache.Get(slug)
}

// FetchOnce tries each candidate endpoint in order and returns the first
// valid payload. A success overwrites the slug's cache entry. On failure it
// returns a *FetchError aggregating the per-candidate causes.
func (l *Loader) FetchOnce(ctx context.Context, slug string) (schema.Payload, error) {
	if len(l.endpoints) == 0 {
		return schema.Payload{}, errors.New("loader: no endpoints configured")
	}

	fetchErr := &FetchError{Slug: slug}
	for _, endpoint := range l.endpoints {
		url := endpoint + "/forms/" + slug
		payload, err := l.fetchCandidate(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return schema.Payload{}, ctx.Err()
			}
			l.logger.Debug("form fetch candidate failed",
				zap.String("slug", slug),
				zap.String("url", url),
				zap.Error(err))
			fetchErr.Causes = append(fetchErr.Causes, fmt.Errorf("%s: %w", url, err))
			continue
		}
		l.cache.Set(slug, payload)
		return payload, nil
	}
	return schema.Payload{}, fetchErr
}

func (l *Loader) fetchCandidate(ctx context.Context, url string) (schema.Payload, error) {
	reqCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return schema.Payload{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := l.client.Do(req)
	if err != nil {
		return schema.Payload{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return schema.Payload{}, errors.New("unexpected status " + resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return schema.Payload{}, err
	}
	return schema.ParsePayload(data)
}
