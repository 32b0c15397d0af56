package deadline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/finkit/pkg/deadline"
)

func hang[T any](ctx context.Context) (T, error) {
	var zero T
	<-ctx.Done()
	return zero, ctx.Err()
}

func TestRunOrZero(t *testing.T) {
	t.Parallel()

	t.Run("timeout becomes zero value", func(t *testing.T) {
		t.Parallel()

		value, err := deadline.RunOrZero(context.Background(), deadline.Config{
			Timeout:   20 * time.Millisecond,
			Operation: "balances",
		}, hang[*string])

		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("non-timeout error still propagates", func(t *testing.T) {
		t.Parallel()

		opErr := errors.New("bad credentials")

		_, err := deadline.RunOrZero(context.Background(), deadline.Config{
			Timeout: time.Second,
		}, func(ctx context.Context) (*string, error) {
			return nil, opErr
		})

		require.ErrorIs(t, err, opErr)
	})

	t.Run("successful value passes through", func(t *testing.T) {
		t.Parallel()

		value, err := deadline.RunOrZero(context.Background(), deadline.Config{
			Timeout: time.Second,
		}, func(ctx context.Context) (int, error) {
			return 7, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 7, value)
	})
}

func TestRunOrDefault(t *testing.T) {
	t.Parallel()

	t.Run("timeout becomes the fallback", func(t *testing.T) {
		t.Parallel()

		value, err := deadline.RunOrDefault(context.Background(), deadline.Config{
			Timeout: 20 * time.Millisecond,
		}, 99, hang[int])

		require.NoError(t, err)
		assert.Equal(t, 99, value)
	})

	t.Run("non-timeout error bypasses the fallback", func(t *testing.T) {
		t.Parallel()

		opErr := errors.New("rate limited")

		value, err := deadline.RunOrDefault(context.Background(), deadline.Config{
			Timeout: time.Second,
		}, 99, func(ctx context.Context) (int, error) {
			return 0, opErr
		})

		require.ErrorIs(t, err, opErr)
		assert.Zero(t, value)
	})
}
