package lcu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

// LockfileName is the file the client writes into its install directory while running.
const LockfileName = "lockfile"

// Lockfile is the parsed content of the client's lockfile:
//
//	LeagueClient:pid:port:password:protocol
type Lockfile struct {
	Process  string
	PID      int
	Port     int
	Password string
	Protocol string
}

// ParseLockfile parses the colon separated lockfile format.
func ParseLockfile(content string) (Lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), ":")
	if len(parts) != 5 {
		return Lockfile{}, fmt.Errorf("%w: expected 5 fields, got %d", shared.ErrInvalidLockfile, len(parts))
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return Lockfile{}, fmt.Errorf("%w: bad pid %q", shared.ErrInvalidLockfile, parts[1])
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil || port <= 0 || port > 65535 {
		return Lockfile{}, fmt.Errorf("%w: bad port %q", shared.ErrInvalidLockfile, parts[2])
	}
	if parts[3] == "" {
		return Lockfile{}, fmt.Errorf("%w: empty password", shared.ErrInvalidLockfile)
	}

	protocol := parts[4]
	if protocol == "" {
		protocol = "https"
	}

	return Lockfile{Process: parts[0], PID: pid, Port: port, Password: parts[3], Protocol: protocol}, nil
}

// Auth converts the lockfile into connection details for the given install directory.
func (l Lockfile) Auth(installDir string, alternateRegion bool) models.AuthContext {
	return models.AuthContext{
		BaseURL:           fmt.Sprintf("%s://127.0.0.1:%d", l.Protocol, l.Port),
		Password:          l.Password,
		IsAlternateRegion: alternateRegion,
		InstallDir:        installDir,
		PID:               l.PID,
		Port:              l.Port,
	}
}

// ReadLockfile reads and parses the lockfile in installDir.
func ReadLockfile(installDir string, alternateRegion bool) (models.AuthContext, error) {
	if installDir == "" {
		return models.AuthContext{}, fmt.Errorf("%w: client.install_dir is not set", shared.ErrMissingConfig)
	}

	path := filepath.Join(installDir, LockfileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return models.AuthContext{}, fmt.Errorf("%w: %s", shared.ErrLockfileMissing, path)
	}
	if err != nil {
		return models.AuthContext{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	lf, err := ParseLockfile(string(data))
	if err != nil {
		return models.AuthContext{}, err
	}
	return lf.Auth(installDir, alternateRegion), nil
}

// InstallDirCandidates are the default client locations checked by [DetectInstallDir].
var InstallDirCandidates = []string{
	`C:\Riot Games\League of Legends`,
	`D:\Riot Games\League of Legends`,
	"/Applications/League of Legends.app/Contents/LoL",
}

// DetectInstallDir returns the first candidate holding a lockfile. When the
// client is not running it falls back to the first existing directory, and
// to "" when none exists.
func DetectInstallDir(candidates []string) string {
	var existing string
	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, LockfileName)); err == nil {
			return dir
		}
		if existing == "" {
			existing = dir
		}
	}
	return existing
}
