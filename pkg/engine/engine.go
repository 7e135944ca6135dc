// Package engine orchestrates the public form lifecycle: resilient schema
// fetch, value editing and validation, submission, and confirmation
// rendering.
package engine

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/formstate"
	"github.com/goliatone/go-formflow/pkg/loader"
	"github.com/goliatone/go-formflow/pkg/schema"
	"github.com/goliatone/go-formflow/pkg/submit"
)

// Option configures an Engine before construction.
type Option func(*Engine)

// WithConfig applies a resolved configuration.
func WithConfig(cfg config.Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithHTTPClient overrides the transport shared by fetch and submit.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Engine) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock injects the time source used for closed/expired-form checks.
func WithClock(clock schema.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithCache substitutes the slug-scoped schema cache.
func WithCache(cache loader.Cache) Option {
	return func(e *Engine) {
		if cache != nil {
			e.cache = cache
		}
	}
}

// WithScheduler substitutes the retry timer source (tests).
func WithScheduler(sched loader.Scheduler) Option {
	return func(e *Engine) {
		if sched != nil {
			e.sched = sched
		}
	}
}

// Engine is the shared, session-independent machinery. One Engine serves any
// number of mounted form sessions.
type Engine struct {
	cfg        config.Config
	httpClient *http.Client
	logger     *zap.Logger
	clock      schema.Clock
	cache      loader.Cache
	sched      loader.Scheduler

	loader *loader.Loader
	client *submit.Client
	rules  formstate.Rules
}

// New constructs an Engine with defaults applied.
func New(options ...Option) *Engine {
	e := &Engine{
		cfg:        config.Default(),
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		clock:      schema.SystemClock{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	loaderOpts := []loader.Option{
		loader.WithHTTPClient(e.httpClient),
		loader.WithEndpoints(e.cfg.Endpoints...),
		loader.WithTimeout(e.cfg.Timeout),
		loader.WithBackoff(e.cfg.BackoffBase, e.cfg.BackoffMax),
		loader.WithLogger(e.logger),
	}
	if e.cache != nil {
		loaderOpts = append(loaderOpts, loader.WithCache(e.cache))
	}
	if e.sched != nil {
		loaderOpts = append(loaderOpts, loader.WithScheduler(e.sched))
	}
	e.loader = loader.New(loaderOpts...)

	e.client = submit.NewClient(e.cfg.EffectiveSubmitEndpoint(),
		submit.WithHTTPClient(e.httpClient),
		submit.WithLogger(e.logger))

	e.rules = e.cfg.Rules()
	return e
}
