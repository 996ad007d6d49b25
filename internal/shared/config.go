package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Client   ClientConfig   `toml:"client"`
	CDN      CDNConfig      `toml:"cdn"`
	Apply    ApplyConfig    `toml:"apply"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
}

// ClientConfig locates the local game client.
type ClientConfig struct {
	InstallDir      string `toml:"install_dir"`
	AlternateRegion bool   `toml:"alternate_region"`
	PollIntervalMS  int    `toml:"poll_interval_ms"`
	RequestTimeout  int    `toml:"request_timeout"`
}

// CDNConfig contains the endpoints build data and static assets are fetched from.
type CDNConfig struct {
	UnpkgURL       string `toml:"unpkg_url"`
	NPMRegistryURL string `toml:"npm_registry_url"`
	DDragonURL     string `toml:"ddragon_url"`
	PackageScope   string `toml:"package_scope"`
	SourceList     string `toml:"source_list"`
	AvatarURL      string `toml:"avatar_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// ApplyConfig controls bulk build application.
type ApplyConfig struct {
	DefaultSources []string `toml:"default_sources"`
	Workers        int      `toml:"workers"`
	RateLimit      float64  `toml:"rate_limit"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the local control server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	RefreshMS int    `toml:"refresh_ms"`
	LogPath   string `toml:"log_path"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the control server's listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PollInterval returns the client poll interval, defaulting to two seconds.
func (c ClientConfig) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// Timeout returns the local API request timeout.
func (c ClientConfig) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// Timeout returns the CDN request timeout.
func (c CDNConfig) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// RefreshInterval returns the UI refresh cadence.
func (u UIConfig) RefreshInterval() time.Duration {
	if u.RefreshMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(u.RefreshMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
