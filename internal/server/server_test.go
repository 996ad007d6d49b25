package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/orchestrator"
	"github.com/desertthunder/champr/internal/shared"
	"github.com/desertthunder/champr/internal/state"
)

type fakeDispatcher struct {
	mu     sync.Mutex
	full   bool
	posted []orchestrator.Command
}

func (f *fakeDispatcher) Post(cmd orchestrator.Command) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.posted = append(f.posted, cmd)
	return true
}

func (f *fakeDispatcher) commands() []orchestrator.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]orchestrator.Command(nil), f.posted...)
}

func newControlServer(t *testing.T, d Dispatcher, store *state.Store, wake func()) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)

	router := NewBasicRouter()
	router.Use(Recoverer(logger), RequestLogger(logger))
	router.Handler(NewControlHandler(d, store.Snapshot, wake, logger))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestControlHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Toggle", func(t *testing.T) {
		d := &fakeDispatcher{}
		var wakes atomic.Int32
		srv := newControlServer(t, d, state.NewStore(), func() { wakes.Add(1) })

		resp, err := NewControlClient(srv.URL, srv.Client()).Toggle(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.OK || resp.Command != "toggle" {
			t.Errorf("unexpected response %+v", resp)
		}

		cmds := d.commands()
		if len(cmds) != 1 {
			t.Fatalf("expected one command, got %d", len(cmds))
		}
		if _, ok := cmds[0].(orchestrator.ToggleVisibility); !ok {
			t.Errorf("expected ToggleVisibility, got %T", cmds[0])
		}
		if n := wakes.Load(); n != 1 {
			t.Errorf("expected one wake, got %d", n)
		}
	})

	t.Run("Apply", func(t *testing.T) {
		d := &fakeDispatcher{}
		srv := newControlServer(t, d, state.NewStore(), nil)
		client := NewControlClient(srv.URL, srv.Client())

		if _, err := client.Apply(ctx, "op.gg-aram"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := client.Apply(ctx, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cmds := d.commands()
		if len(cmds) != 2 {
			t.Fatalf("expected two commands, got %d", len(cmds))
		}
		if got := cmds[0].(orchestrator.TriggerBulkApply); got.Source != "op.gg-aram" {
			t.Errorf("unexpected source %q", got.Source)
		}
		if got := cmds[1].(orchestrator.TriggerBulkApply); got.Source != "" {
			t.Errorf("expected empty source, got %q", got.Source)
		}
	})

	t.Run("Status", func(t *testing.T) {
		store := state.NewStore()
		store.SetAuth(models.AuthContext{BaseURL: "https://127.0.0.1:2999", Port: 2999})
		store.SetChampion(103)
		srv := newControlServer(t, &fakeDispatcher{}, store, nil)

		resp, err := NewControlClient(srv.URL, srv.Client()).Status(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !resp.Connected || resp.Port != 2999 || resp.ChampionID != 103 {
			t.Errorf("unexpected status %+v", resp)
		}
	})

	t.Run("Full inbox", func(t *testing.T) {
		srv := newControlServer(t, &fakeDispatcher{full: true}, state.NewStore(), nil)

		resp, err := NewControlClient(srv.URL, srv.Client()).Toggle(ctx)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if resp == nil || resp.OK || resp.Error == "" {
			t.Errorf("unexpected response %+v", resp)
		}
	})

	t.Run("Wrong method", func(t *testing.T) {
		srv := newControlServer(t, &fakeDispatcher{}, state.NewStore(), nil)

		resp, err := srv.Client().Get(srv.URL + "/toggle")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("expected 405, got %d", resp.StatusCode)
		}
	})

	t.Run("Server not running", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatal(err)
		}
		addr := ln.Addr().String()
		ln.Close()

		_, err = NewControlClient(addr, nil).Toggle(ctx)
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestRouter(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("Middleware order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if len(order) != 3 || order[0] != "first" || order[1] != "second" || order[2] != "handler" {
			t.Errorf("unexpected order %v", order)
		}
	})

	t.Run("Recoverer", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recoverer(logger))
		router.Handle(http.MethodGet, "/panic", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
	})
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	router := NewBasicRouter()
	router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "pong")
	}))

	ctx, cancel := context.WithCancel(context.Background())
	srv := New(ln.Addr().String(), router, log.New(io.Discard))
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("unexpected body %q", body)
	}

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
