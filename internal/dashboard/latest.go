package dashboard

import (
	"context"
	"sync"

	"github.com/httech/voltgo/pkg/client"
)

// latest holds the outcome of the most recently requested fetch. Each start
// supersedes the previous one: its context is canceled and its completion is
// dropped. After close every completion is dropped.
type latest[T any] struct {
	mu     sync.Mutex
	value  T
	err    error
	loaded bool
	gen    uint64
	closed bool
	cancel context.CancelFunc
}

// start registers a new fetch and returns its generation and context.
// ok is false once the holder is closed.
func (s *latest[T]) start(parent context.Context) (gen uint64, ctx context.Context, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, nil, false
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, s.cancel = context.WithCancel(parent)
	s.gen++
	return s.gen, ctx, true
}

// apply stores r if gen is still current. A failure keeps the previous value.
func (s *latest[T]) apply(gen uint64, r client.Result[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return false
	}
	s.err = r.Err
	if r.Err == nil {
		s.value = r.Value
		s.loaded = true
	}
	return true
}

func (s *latest[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *latest[T]) snapshot() (value T, loaded bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.loaded, s.err
}

// follow runs fetch for generation gen and applies its result. The returned
// channel closes once the completion has been handled.
func follow[T any](ctx context.Context, s *latest[T], gen uint64, fetch func(context.Context) *client.Task[T]) <-chan struct{} {
	done := make(chan struct{})
	task := fetch(ctx)
	go func() {
		defer close(done)
		<-task.Done()
		res, _ := task.Result()
		s.apply(gen, res)
	}()
	return done
}

func closedChan() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
