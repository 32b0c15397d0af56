package deadline

import (
	"context"
	"sync"
)

// Task pairs an operation with its own timeout configuration for RunAll.
type Task[T any] struct {
	Config Config
	Op     func(context.Context) (T, error)
}

// Result is the per-task outcome of RunAll.
type Result[T any] struct {
	Value T
	Err   error
}

// Success reports whether the task settled without an error.
func (r Result[T]) Success() bool { return r.Err == nil }

// TimedOut reports whether the task failed specifically on its timeout.
func (r Result[T]) TimedOut() bool { return IsTimeout(r.Err) }

// RunAll executes every task concurrently, each under its own independent
// timer, and returns one Result per task in input order. A task failing or
// timing out never affects the other tasks or the aggregate call; RunAll
// itself always succeeds.
func RunAll[T any](ctx context.Context, tasks []Task[T]) []Result[T] {
	results := make([]Result[T], len(tasks))

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		go func(i int, task Task[T]) {
			defer wg.Done()
			value, err := Run(ctx, task.Config, task.Op)
			results[i] = Result[T]{Value: value, Err: err}
		}(i, task)
	}
	wg.Wait()

	return results
}
