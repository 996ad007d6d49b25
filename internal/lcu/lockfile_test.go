package lcu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/desertthunder/champr/internal/shared"
)

func TestParseLockfile(t *testing.T) {
	tc := []struct {
		name    string
		content string
		want    Lockfile
		wantErr bool
	}{
		{
			name:    "valid",
			content: "LeagueClient:1234:54321:s3cret:https",
			want:    Lockfile{Process: "LeagueClient", PID: 1234, Port: 54321, Password: "s3cret", Protocol: "https"},
		},
		{
			name:    "trailing newline",
			content: "LeagueClient:1:2999:pw:https\n",
			want:    Lockfile{Process: "LeagueClient", PID: 1, Port: 2999, Password: "pw", Protocol: "https"},
		},
		{name: "too few fields", content: "LeagueClient:1234:54321", wantErr: true},
		{name: "bad pid", content: "LeagueClient:abc:54321:pw:https", wantErr: true},
		{name: "bad port", content: "LeagueClient:1:70000:pw:https", wantErr: true},
		{name: "empty password", content: "LeagueClient:1:2999::https", wantErr: true},
		{name: "empty", content: "", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLockfile(tt.content)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidLockfile) {
					t.Errorf("expected ErrInvalidLockfile, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestReadLockfile(t *testing.T) {
	t.Run("Connected", func(t *testing.T) {
		dir := t.TempDir()
		writeLockfile(t, dir, "LeagueClient:99:2999:pw:https")

		auth, err := ReadLockfile(dir, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if auth.BaseURL != "https://127.0.0.1:2999" || auth.Password != "pw" || auth.PID != 99 {
			t.Errorf("unexpected auth %+v", auth)
		}
		if !auth.IsAlternateRegion || auth.InstallDir != dir {
			t.Errorf("expected install details to be carried, got %+v", auth)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := ReadLockfile(t.TempDir(), false)
		if !errors.Is(err, shared.ErrLockfileMissing) {
			t.Errorf("expected ErrLockfileMissing, got %v", err)
		}
	})

	t.Run("No install dir", func(t *testing.T) {
		_, err := ReadLockfile("", false)
		if !errors.Is(err, shared.ErrMissingConfig) {
			t.Errorf("expected ErrMissingConfig, got %v", err)
		}
	})
}

func writeLockfile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, LockfileName), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write lockfile: %v", err)
	}
}

func TestDetectInstallDir(t *testing.T) {
	base := t.TempDir()
	idle := filepath.Join(base, "idle")
	running := filepath.Join(base, "running")
	missing := filepath.Join(base, "missing")
	for _, dir := range []string{idle, running} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	writeLockfile(t, running, "LeagueClient:99:2999:pw:https")

	t.Run("prefers a running client", func(t *testing.T) {
		if got := DetectInstallDir([]string{missing, idle, running}); got != running {
			t.Errorf("expected %s, got %s", running, got)
		}
	})

	t.Run("falls back to an existing dir", func(t *testing.T) {
		if got := DetectInstallDir([]string{missing, idle}); got != idle {
			t.Errorf("expected %s, got %s", idle, got)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		if got := DetectInstallDir([]string{missing}); got != "" {
			t.Errorf("expected empty dir, got %s", got)
		}
	})
}
