package lcu

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/state"
)

func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestConnector(t *testing.T) {
	logger := log.New(io.Discard)

	t.Run("Refresh", func(t *testing.T) {
		dir := t.TempDir()
		store := state.NewStore()
		conn := NewConnector(store, ConnectorOptions{InstallDir: dir, Logger: logger})

		if auth := conn.Refresh(); auth.Connected() {
			t.Fatalf("expected disconnected without a lockfile, got %+v", auth)
		}

		writeLockfile(t, dir, "LeagueClient:1:2999:pw:https")
		conn.Refresh()
		if got := store.Auth(); got.Port != 2999 || !got.Connected() {
			t.Fatalf("expected store to be connected, got %+v", got)
		}

		store.SetChampion(103)
		if err := os.Remove(filepath.Join(dir, LockfileName)); err != nil {
			t.Fatal(err)
		}
		conn.Refresh()
		snap := store.Snapshot()
		if snap.Auth.Connected() || snap.ChampionID != nil {
			t.Errorf("expected disconnect to clear state, got %+v", snap)
		}
	})

	t.Run("Unchanged lockfile does not notify", func(t *testing.T) {
		dir := t.TempDir()
		writeLockfile(t, dir, "LeagueClient:1:2999:pw:https")

		store := state.NewStore()
		changes := 0
		store.OnChange(func() { changes++ })

		conn := NewConnector(store, ConnectorOptions{InstallDir: dir, Logger: logger})
		conn.Refresh()
		conn.Refresh()
		if changes != 1 {
			t.Errorf("expected one change, got %d", changes)
		}
	})

	t.Run("Run follows the lockfile", func(t *testing.T) {
		dir := t.TempDir()
		store := state.NewStore()
		conn := NewConnector(store, ConnectorOptions{InstallDir: dir, PollInterval: 20 * time.Millisecond, Logger: logger})

		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- conn.Run(ctx) }()

		writeLockfile(t, dir, "LeagueClient:7:3001:pw:https")
		eventually(t, "connect", func() bool { return store.Auth().Port == 3001 })

		os.Remove(filepath.Join(dir, LockfileName))
		eventually(t, "disconnect", func() bool { return !store.Auth().Connected() })

		cancel()
		if err := <-errc; err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
