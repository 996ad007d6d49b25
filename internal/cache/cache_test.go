package cache

import (
	"errors"
	"testing"

	"github.com/desertthunder/champr/internal/async"
)

type starter[T any] struct {
	calls    int
	resolves []func(T, error)
}

func (s *starter[T]) start() *async.Handle[T] {
	s.calls++
	h, resolve := async.Promise[T]()
	s.resolves = append(s.resolves, resolve)
	return h
}

func (s *starter[T]) last() func(T, error) {
	return s.resolves[len(s.resolves)-1]
}

func TestSingleton(t *testing.T) {
	t.Run("Starts once while pending", func(t *testing.T) {
		var c Singleton[int]
		s := &starter[int]{}

		for range 3 {
			snap := c.GetOrStart(s.start)
			if !snap.Pending {
				t.Fatalf("expected pending snapshot, got %+v", snap)
			}
		}
		if s.calls != 1 {
			t.Errorf("expected one fetch, got %d", s.calls)
		}

		s.last()(9, nil)
		snap := c.GetOrStart(s.start)
		if !snap.Has || snap.Value != 9 || snap.Pending {
			t.Errorf("expected resolved 9, got %+v", snap)
		}
	})

	t.Run("Failure is not retried until Reset", func(t *testing.T) {
		var c Singleton[string]
		s := &starter[string]{}
		boom := errors.New("boom")

		c.GetOrStart(s.start)
		s.last()("", boom)

		for range 3 {
			snap := c.GetOrStart(s.start)
			if !errors.Is(snap.Err, boom) {
				t.Fatalf("expected sticky error, got %+v", snap)
			}
		}
		if s.calls != 1 {
			t.Fatalf("expected no retry, got %d fetches", s.calls)
		}

		c.Reset()
		if c.Started() {
			t.Error("expected Reset to clear the handle")
		}
		c.GetOrStart(s.start)
		if s.calls != 2 {
			t.Errorf("expected a new fetch after Reset, got %d", s.calls)
		}
	})

	t.Run("Reset keeps last value while refetching", func(t *testing.T) {
		var c Singleton[int]
		s := &starter[int]{}

		c.GetOrStart(s.start)
		s.last()(1, nil)
		c.GetOrStart(s.start)

		c.Reset()
		snap := c.GetOrStart(s.start)
		if !snap.Pending || !snap.Has || snap.Value != 1 {
			t.Errorf("expected pending snapshot carrying old value, got %+v", snap)
		}
	})

	t.Run("Peek does not start", func(t *testing.T) {
		var c Singleton[int]
		if snap := c.Peek(); snap.Pending || snap.Has {
			t.Errorf("expected empty snapshot, got %+v", snap)
		}
		if c.Started() {
			t.Error("Peek should not start a fetch")
		}
	})
}

func TestKeyed(t *testing.T) {
	t.Run("Single in-flight per key", func(t *testing.T) {
		c := NewKeyed[string, int]()
		s := &starter[int]{}

		for range 4 {
			c.GetOrStart("a", s.start)
		}
		c.GetOrStart("b", s.start)

		if s.calls != 2 {
			t.Errorf("expected one fetch per key, got %d", s.calls)
		}
		if c.Pending() != 2 || !c.InFlight("a") {
			t.Errorf("expected two in-flight fetches, got %d", c.Pending())
		}
	})

	t.Run("Success is memoized permanently", func(t *testing.T) {
		c := NewKeyed[string, []byte]()
		s := &starter[[]byte]{}

		c.GetOrStart("icon.png", s.start)
		s.last()([]byte("png"), nil)

		for range 10 {
			e := c.GetOrStart("icon.png", s.start)
			if !e.Has || string(e.Value) != "png" {
				t.Fatalf("expected cached bytes, got %+v", e)
			}
		}
		if s.calls != 1 {
			t.Errorf("expected exactly one fetch, got %d", s.calls)
		}
		if c.InFlight("icon.png") {
			t.Error("handle should be dropped after success")
		}
	})

	t.Run("Failure retries next call", func(t *testing.T) {
		c := NewKeyed[string, int]()
		s := &starter[int]{}
		boom := errors.New("boom")

		c.GetOrStart("k", s.start)
		s.last()(0, boom)

		e := c.GetOrStart("k", s.start)
		if !errors.Is(e.Err, boom) || e.Pending {
			t.Fatalf("expected failure on the resolving call, got %+v", e)
		}
		if s.calls != 1 {
			t.Fatalf("expected no new fetch yet, got %d", s.calls)
		}

		e = c.GetOrStart("k", s.start)
		if s.calls != 2 {
			t.Fatalf("expected retry fetch, got %d calls", s.calls)
		}
		if !e.Pending || !errors.Is(e.Err, boom) {
			t.Errorf("expected pending retry carrying last error, got %+v", e)
		}

		s.last()(5, nil)
		e = c.GetOrStart("k", s.start)
		if !e.Has || e.Value != 5 || e.Err != nil {
			t.Errorf("expected recovered value, got %+v", e)
		}
	})

	t.Run("Clear abandons in-flight fetches", func(t *testing.T) {
		c := NewKeyed[string, int]()
		s := &starter[int]{}

		c.GetOrStart("k", s.start)
		stale := s.last()
		c.Clear()

		c.GetOrStart("k", s.start)
		stale(1, nil)

		e := c.GetOrStart("k", s.start)
		if !e.Pending {
			t.Errorf("stale result must not land in the cache, got %+v", e)
		}
		if s.calls != 2 {
			t.Errorf("expected a fresh fetch after Clear, got %d", s.calls)
		}
	})

	t.Run("Forget and Peek", func(t *testing.T) {
		c := NewKeyed[int, string]()
		s := &starter[string]{}

		if e := c.Peek(1); e.Pending || e.Has {
			t.Errorf("expected empty peek, got %+v", e)
		}

		c.GetOrStart(1, s.start)
		s.last()("one", nil)
		if e := c.Peek(1); !e.Has || e.Value != "one" {
			t.Errorf("expected peek to resolve the value, got %+v", e)
		}
		if c.Len() != 1 {
			t.Errorf("expected one value, got %d", c.Len())
		}

		c.Forget(1)
		if e := c.Peek(1); e.Has {
			t.Errorf("expected forgotten key, got %+v", e)
		}
		if s.calls != 1 {
			t.Errorf("Peek must not start fetches, got %d", s.calls)
		}
	})
}
