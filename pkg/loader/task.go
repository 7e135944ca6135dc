package loader

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// Events receives the loop's state transitions. Callbacks run on the task
// goroutine and are never invoked after Cancel returns the task to idle.
type Events struct {
	// OnSuccess fires once, with the fetched payload. The loop stops after.
	OnSuccess func(payload schema.Payload)
	// OnRetrying fires before each retry wait, starting with attempt 2.
	OnRetrying func(attempt int, delay time.Duration)
}

// Task is one running fetch loop. Cancel stops it deterministically: no
// further timers are armed and no callbacks fire once cancellation is
// observed.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel tears the loop down. Safe to call repeatedly.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed when the loop has fully exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Start launches the retry loop for a slug. The loop runs attempts against
// the full candidate list, sleeping Delay(n) between rounds, until a fetch
// succeeds or the task is cancelled. Exactly one retry timer is in flight at
// a time; a new round begins only after the previous one resolves.
func (l *Loader) Start(ctx context.Context, slug string, events Events) *Task {
	loopCtx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(task.done)
		attempt := 1
		for {
			payload, err := l.FetchOnce(loopCtx, slug)
			if loopCtx.Err() != nil {
				return
			}
			if err == nil {
				l.logger.Info("form schema fetched",
					zap.String("slug", slug),
					zap.Int("attempt", attempt))
				if events.OnSuccess != nil {
					events.OnSuccess(payload)
				}
				return
			}

			delay := l.Delay(attempt)
			attempt++
			l.logger.Warn("form fetch round failed, retrying",
				zap.String("slug", slug),
				zap.Int("next_attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
			if events.OnRetrying != nil {
				events.OnRetrying(attempt, delay)
			}

			select {
			case <-l.sched.After(delay):
			case <-loopCtx.Done():
				return
			}
		}
	}()

	return task
}
