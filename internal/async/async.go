package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"
)

// Result is the outcome of a finished operation.
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the operation succeeded.
func (r Result[T]) OK() bool { return r.Err == nil }

// Handle is a single in-flight or finished operation.
type Handle[T any] struct {
	done chan struct{}
	res  Result[T]
}

// Poll returns the result and true once the operation finished.
// It never blocks.
func (h *Handle[T]) Poll() (Result[T], bool) {
	select {
	case <-h.done:
		return h.res, true
	default:
		return Result[T]{}, false
	}
}

// Done is closed when the operation finishes.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Await blocks until the operation finishes or ctx is done.
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.res.Value, h.res.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (h *Handle[T]) resolve(v T, err error) {
	h.res = Result[T]{Value: v, Err: err}
	close(h.done)
}

// Ready returns an already-resolved successful handle.
func Ready[T any](v T) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}
	h.resolve(v, nil)
	return h
}

// Failed returns an already-resolved failed handle.
func Failed[T any](err error) *Handle[T] {
	var zero T
	h := &Handle[T]{done: make(chan struct{})}
	h.resolve(zero, err)
	return h
}

// Promise returns an unresolved handle and the function that resolves it.
// Only the first call to resolve has any effect.
func Promise[T any]() (*Handle[T], func(T, error)) {
	h := &Handle[T]{done: make(chan struct{})}
	var once sync.Once
	return h, func(v T, err error) {
		once.Do(func() { h.resolve(v, err) })
	}
}

// SpawnerOpts configures a [Spawner].
type SpawnerOpts struct {
	// MaxConcurrent bounds the number of operations running at once. Zero means 8.
	MaxConcurrent int64
	// Wake is called after every operation finishes. It must not block for long.
	Wake   func()
	Logger *log.Logger
}

// Spawner starts operations on background goroutines.
type Spawner struct {
	ctx    context.Context
	sem    *semaphore.Weighted
	wake   func()
	logger *log.Logger
	wg     sync.WaitGroup
}

// NewSpawner creates a Spawner whose operations receive ctx.
func NewSpawner(ctx context.Context, opts SpawnerOpts) *Spawner {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 8
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Spawner{
		ctx:    ctx,
		sem:    semaphore.NewWeighted(opts.MaxConcurrent),
		wake:   opts.Wake,
		logger: opts.Logger,
	}
}

// Wait blocks until every spawned operation has returned.
func (s *Spawner) Wait() {
	s.wg.Wait()
}

// Go starts op and returns its handle immediately.
func Go[T any](s *Spawner, op func(ctx context.Context) (T, error)) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		v, err := run(s, op)
		h.resolve(v, err)

		if s.wake != nil {
			s.wake()
		}
	}()

	return h
}

func run[T any](s *Spawner, op func(ctx context.Context) (T, error)) (v T, err error) {
	if err := s.sem.Acquire(s.ctx, 1); err != nil {
		return v, err
	}
	defer s.sem.Release(1)

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("background operation panicked", "panic", rec, "stack", string(debug.Stack()))
			err = fmt.Errorf("operation panicked: %v", rec)
		}
	}()

	return op(s.ctx)
}
