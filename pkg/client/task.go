package client

import (
	"context"
	"sync"
)

// Result is the outcome of an asynchronous fetch: a payload or an error
type Result[T any] struct {
	Value T
	Err   error
}

// Task is a single asynchronous call whose Result becomes available once.
type Task[T any] struct {
	done   chan struct{}
	once   sync.Once
	result Result[T]
}

// Go runs fn on its own goroutine and returns the pending Task
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}
	go func() {
		v, err := fn(ctx)
		t.complete(Result[T]{Value: v, Err: err})
	}()
	return t
}

func (t *Task[T]) complete(r Result[T]) {
	t.once.Do(func() {
		t.result = r
		close(t.done)
	})
}

// Done is closed once the result is available
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is done. Abandoning the wait
// does not stop the underlying call.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.result.Value, t.result.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the outcome and true if the task has finished
func (t *Task[T]) Result() (Result[T], bool) {
	select {
	case <-t.done:
		return t.result, true
	default:
		return Result[T]{}, false
	}
}
