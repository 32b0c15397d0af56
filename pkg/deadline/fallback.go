package deadline

import "context"

// RunOrZero behaves like Run but converts a timeout, and only a timeout, into
// the zero value of T with a nil error. Errors returned by the operation
// itself propagate unchanged.
func RunOrZero[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	value, err := Run(ctx, cfg, op)
	if IsTimeout(err) {
		var zero T
		return zero, nil
	}
	return value, err
}

// RunOrDefault behaves like Run but returns fallback in place of a timeout.
// Non-timeout errors propagate unchanged.
func RunOrDefault[T any](ctx context.Context, cfg Config, fallback T, op func(context.Context) (T, error)) (T, error) {
	value, err := Run(ctx, cfg, op)
	if IsTimeout(err) {
		return fallback, nil
	}
	return value, err
}
