package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  log.Level
	}{
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case with spaces", input: "  WARN ", want: log.WarnLevel},
		{name: "error", input: "error", want: log.ErrorLevel},
		{name: "unknown falls back to info", input: "verbose", want: log.InfoLevel},
		{name: "empty falls back to info", input: "", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLoggers(t *testing.T) {
	t.Run("WithLogger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "test")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected component field in %q", buf.String())
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "app.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
	})
}

func TestIDs(t *testing.T) {
	id := GenerateID()
	if len(id) != 36 {
		t.Fatalf("expected uuid string, got %q", id)
	}
	if GenerateID() == id {
		t.Error("expected unique IDs")
	}
	if got := ShortID(id); got != id[:8] {
		t.Errorf("ShortID() = %q, want %q", got, id[:8])
	}
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID() should leave short ids alone, got %q", got)
	}
}

func TestMarshalJSON(t *testing.T) {
	v := map[string]int{"a": 1}

	compact, err := MarshalJSON(v, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(compact) != `{"a":1}` {
		t.Errorf("unexpected compact output %s", compact)
	}

	pretty, err := MarshalJSON(v, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(pretty), "\n  \"a\": 1") {
		t.Errorf("unexpected pretty output %s", pretty)
	}
}

func TestOpenBrowser(t *testing.T) {
	t.Run("launchers", func(t *testing.T) {
		tc := []struct {
			goos string
			want string
			ok   bool
		}{
			{goos: "darwin", want: "open", ok: true},
			{goos: "linux", want: "xdg-open", ok: true},
			{goos: "windows", want: "rundll32", ok: true},
			{goos: "plan9", ok: false},
		}

		for _, tt := range tc {
			t.Run(tt.goos, func(t *testing.T) {
				name, args, ok := browserCommand(tt.goos, "https://example.com")
				if ok != tt.ok || name != tt.want {
					t.Errorf("browserCommand(%q) = %q, %v; want %q, %v", tt.goos, name, ok, tt.want, tt.ok)
				}
				if ok && args[len(args)-1] != "https://example.com" {
					t.Errorf("expected URL as last argument, got %v", args)
				}
			})
		}
	})

	t.Run("rejects non-web URLs", func(t *testing.T) {
		for _, target := range []string{"", "file:///etc/passwd", "npmjs.com/package/x", "https://"} {
			if err := OpenBrowser(target); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("OpenBrowser(%q): expected ErrInvalidArgument, got %v", target, err)
			}
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		orig := getRuntime
		getRuntime = func() string { return "plan9" }
		t.Cleanup(func() { getRuntime = orig })

		if err := OpenBrowser("https://example.com"); !errors.Is(err, ErrNotImplemented) {
			t.Errorf("expected ErrNotImplemented, got %v", err)
		}
	})
}
