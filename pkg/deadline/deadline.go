package deadline

import (
	"context"
	"log/slog"
	"time"
)

// Config controls a single bounded run.
type Config struct {
	// Timeout is the hard bound. Zero or negative runs the operation
	// unbounded (the parent context still applies).
	Timeout time.Duration

	// Operation names the unit of work in errors and logs, e.g. "kraken.trades".
	Operation string

	// OnTimeout is invoked exactly once when the timer fires, before the
	// timeout error is returned. It is best-effort: a panic inside it is
	// logged and never masks the timeout error. Use it to abort the
	// underlying transport when the operation must be truly killed.
	OnTimeout func()

	// Logger receives hook failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// Run executes op under cfg.Timeout. It returns the operation's own result
// when it settles first, or a *TimeoutError once the timer fires. The context
// passed to op is cancelled when Run returns, so cooperative operations stop
// shortly after a timeout; non-cooperative ones keep running detached.
func Run[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if op == nil {
		return zero, ErrNilOperation
	}
	if cfg.Timeout <= 0 {
		return op(ctx)
	}

	type outcome struct {
		value T
		err   error
	}

	opCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so a late completion never blocks the goroutine forever.
	results := make(chan outcome, 1)
	go func() {
		value, err := op(opCtx)
		results <- outcome{value: value, err: err}
	}()

	timer := time.NewTimer(cfg.Timeout)
	defer timer.Stop()

	select {
	case r := <-results:
		return r.value, r.err
	case <-timer.C:
		// The timer case is authoritative: a result arriving from here on is
		// discarded.
		fireHook(cfg.OnTimeout, cfg.Operation, cfg.Logger)
		return zero, &TimeoutError{Operation: cfg.Operation, Timeout: cfg.Timeout}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// fireHook invokes a best-effort callback, containing any panic so it cannot
// replace the error the caller is about to receive.
func fireHook(hook func(), operation string, log *slog.Logger) {
	if hook == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			if log == nil {
				log = slog.Default()
			}
			log.Error("deadline callback panicked",
				slog.String("operation", operation),
				slog.Any("panic", r))
		}
	}()
	hook()
}
