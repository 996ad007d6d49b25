package lcu

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
	"github.com/desertthunder/champr/internal/state"
)

// ConnectorOptions configures a [Connector].
type ConnectorOptions struct {
	InstallDir      string
	AlternateRegion bool
	PollInterval    time.Duration
	Logger          *log.Logger
}

// Connector keeps the store's connection details in sync with the client's lockfile.
type Connector struct {
	store  *state.Store
	opts   ConnectorOptions
	logger *log.Logger
}

// NewConnector creates a Connector writing to store.
func NewConnector(store *state.Store, opts ConnectorOptions) *Connector {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 2 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Connector{store: store, opts: opts, logger: logger}
}

// Refresh reads the lockfile once and publishes the result. A missing or
// unreadable lockfile publishes the disconnected state.
func (c *Connector) Refresh() models.AuthContext {
	auth, err := ReadLockfile(c.opts.InstallDir, c.opts.AlternateRegion)
	if err != nil && !errors.Is(err, shared.ErrLockfileMissing) {
		c.logger.Warn("unable to read lockfile", "err", err)
	}

	prev := c.store.Auth()
	if prev == auth {
		return auth
	}

	switch {
	case auth.Connected():
		c.logger.Info("client connected", "port", auth.Port, "pid", auth.PID)
	case prev.Connected():
		c.logger.Info("client disconnected")
	}
	c.store.SetAuth(auth)
	return auth
}

// Run refreshes on lockfile events and on every poll interval until ctx is
// done. Without a watchable install directory it only polls.
func (c *Connector) Run(ctx context.Context) error {
	c.Refresh()

	ticker := time.NewTicker(c.opts.PollInterval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.Warn("file watching unavailable, polling only", "err", err)
	} else {
		defer watcher.Close()
		if err := watcher.Add(c.opts.InstallDir); err != nil {
			c.logger.Warn("unable to watch install dir, polling only", "dir", c.opts.InstallDir, "err", err)
		} else {
			events, errs = watcher.Events, watcher.Errors
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(event.Name) != LockfileName {
				continue
			}
			c.logger.Debug("lockfile event", "op", event.Op)
			c.Refresh()
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.logger.Error("watcher error", "err", err)
		case <-ticker.C:
			c.Refresh()
		}
	}
}
