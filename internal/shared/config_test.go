package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./champr.db" {
			t.Errorf("expected database path ./champr.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3030 {
			t.Errorf("expected server port 3030, got %d", config.Server.Port)
		}

		if config.CDN.UnpkgURL != "https://unpkg.com" {
			t.Errorf("expected unpkg URL https://unpkg.com, got %s", config.CDN.UnpkgURL)
		}

		if len(config.Apply.DefaultSources) != 1 || config.Apply.DefaultSources[0] != "op.gg-aram" {
			t.Errorf("unexpected default sources %v", config.Apply.DefaultSources)
		}

		if config.UI.RefreshInterval() != 100*time.Millisecond {
			t.Errorf("expected 100ms refresh, got %v", config.UI.RefreshInterval())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[client]
install_dir = "/games/client"
alternate_region = true
poll_interval_ms = 500

[server]
host = "0.0.0.0"
port = 8080

[apply]
default_sources = ["op.gg", "u.gg"]
workers = 2
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Client.InstallDir != "/games/client" || !config.Client.AlternateRegion {
			t.Errorf("unexpected client config %+v", config.Client)
		}

		if config.Client.PollInterval() != 500*time.Millisecond {
			t.Errorf("expected 500ms poll interval, got %v", config.Client.PollInterval())
		}

		if config.Server.Addr() != "0.0.0.0:8080" {
			t.Errorf("expected addr 0.0.0.0:8080, got %s", config.Server.Addr())
		}

		if len(config.Apply.DefaultSources) != 2 || config.Apply.Workers != 2 {
			t.Errorf("unexpected apply config %+v", config.Apply)
		}

		if config.CDN.DDragonURL != "https://ddragon.leagueoflegends.com" {
			t.Errorf("missing sections should keep defaults, got ddragon %q", config.CDN.DDragonURL)
		}
	})

	t.Run("LoadConfig Invalid", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[server\nport ="), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfig(configPath); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Duration Fallbacks", func(t *testing.T) {
		var c Config
		if c.Client.PollInterval() != 2*time.Second {
			t.Errorf("expected 2s poll fallback, got %v", c.Client.PollInterval())
		}
		if c.Client.Timeout() != 10*time.Second {
			t.Errorf("expected 10s client timeout fallback, got %v", c.Client.Timeout())
		}
		if c.CDN.Timeout() != 30*time.Second {
			t.Errorf("expected 30s cdn timeout fallback, got %v", c.CDN.Timeout())
		}
	})
}
