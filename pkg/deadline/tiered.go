package deadline

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"
)

// Deadline is one tier in a tiered run. All tiers except the largest are
// "soft": OnDeadline fires as a side effect (escalating alerts, metrics)
// without aborting the operation. The largest tier is the hard cutoff.
type Deadline struct {
	After      time.Duration
	OnDeadline func()
}

// TieredConfig configures RunTiered.
type TieredConfig struct {
	Operation string
	Deadlines []Deadline
	Logger    *slog.Logger
}

// RunTiered executes op under escalating deadlines. Soft tiers fire their
// callbacks in ascending order while the operation is still in flight; the
// largest tier behaves exactly like Run's hard timeout. Every pending soft
// timer is stopped the moment the operation settles, so no callback fires
// after completion. With zero deadlines the operation runs unbounded.
func RunTiered[T any](ctx context.Context, cfg TieredConfig, op func(context.Context) (T, error)) (T, error) {
	if op == nil {
		var zero T
		return zero, ErrNilOperation
	}
	if len(cfg.Deadlines) == 0 {
		return op(ctx)
	}

	tiers := slices.Clone(cfg.Deadlines)
	slices.SortStableFunc(tiers, func(a, b Deadline) int {
		return cmp.Compare(a.After, b.After)
	})

	hard := tiers[len(tiers)-1]
	soft := tiers[:len(tiers)-1]

	timers := make([]*time.Timer, 0, len(soft))
	for _, tier := range soft {
		tier := tier
		timers = append(timers, time.AfterFunc(tier.After, func() {
			fireHook(tier.OnDeadline, cfg.Operation, cfg.Logger)
		}))
	}
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	return Run(ctx, Config{
		Timeout:   hard.After,
		Operation: cfg.Operation,
		OnTimeout: hard.OnDeadline,
		Logger:    cfg.Logger,
	}, op)
}
