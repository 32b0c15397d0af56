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

func TestRunAll(t *testing.T) {
	t.Parallel()

	t.Run("mixed outcomes stay independent", func(t *testing.T) {
		t.Parallel()

		opErr := errors.New("exchange maintenance")

		tasks := []deadline.Task[string]{
			{
				Config: deadline.Config{Timeout: time.Second, Operation: "accounts"},
				Op: func(ctx context.Context) (string, error) {
					return "accounts-ok", nil
				},
			},
			{
				Config: deadline.Config{Timeout: 20 * time.Millisecond, Operation: "trades"},
				Op:     hang[string],
			},
			{
				Config: deadline.Config{Timeout: time.Second, Operation: "positions"},
				Op: func(ctx context.Context) (string, error) {
					return "", opErr
				},
			},
		}

		results := deadline.RunAll(context.Background(), tasks)
		require.Len(t, results, 3)

		assert.True(t, results[0].Success())
		assert.Equal(t, "accounts-ok", results[0].Value)

		assert.False(t, results[1].Success())
		assert.True(t, results[1].TimedOut())

		assert.False(t, results[2].Success())
		assert.False(t, results[2].TimedOut())
		assert.ErrorIs(t, results[2].Err, opErr)
	})

	t.Run("results preserve input order", func(t *testing.T) {
		t.Parallel()

		tasks := make([]deadline.Task[int], 8)
		for i := range tasks {
			i := i
			tasks[i] = deadline.Task[int]{
				Config: deadline.Config{Timeout: time.Second},
				Op: func(ctx context.Context) (int, error) {
					// Later tasks finish first to exercise ordering.
					time.Sleep(time.Duration(len(tasks)-i) * time.Millisecond)
					return i, nil
				},
			}
		}

		results := deadline.RunAll(context.Background(), tasks)
		require.Len(t, results, len(tasks))
		for i, r := range results {
			require.NoError(t, r.Err)
			assert.Equal(t, i, r.Value)
		}
	})

	t.Run("empty task list", func(t *testing.T) {
		t.Parallel()

		results := deadline.RunAll[int](context.Background(), nil)
		assert.Empty(t, results)
	})
}
