package services

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/models"
)

// IconStore persists icon bytes between sessions.
type IconStore interface {
	GetIcon(path string) ([]byte, bool, error)
	PutIcon(path string, data []byte) error
}

// IconFetcher downloads icons.
type IconFetcher interface {
	FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error)
}

// CachedIcons serves icons from an [IconStore], falling back to an [IconFetcher] and storing what it downloads.
// Store failures are logged and never fail the fetch.
type CachedIcons struct {
	fetcher IconFetcher
	store   IconStore
	logger  *log.Logger
}

// NewCachedIcons wraps fetcher with store.
func NewCachedIcons(fetcher IconFetcher, store IconStore, logger *log.Logger) *CachedIcons {
	if logger == nil {
		logger = log.Default()
	}
	return &CachedIcons{fetcher: fetcher, store: store, logger: logger}
}

// FetchIcon returns the stored bytes for path or downloads them.
func (c *CachedIcons) FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error) {
	data, ok, err := c.store.GetIcon(path)
	if err != nil {
		c.logger.Warn("icon store read failed", "path", path, "err", err)
	}
	if ok {
		return data, nil
	}

	data, err = c.fetcher.FetchIcon(ctx, auth, path)
	if err != nil {
		return nil, err
	}

	if err := c.store.PutIcon(path, data); err != nil {
		c.logger.Warn("icon store write failed", "path", path, "err", err)
	}
	return data, nil
}

// IconClient is a [ClientService] whose icon fetches go through a [CachedIcons].
type IconClient struct {
	ClientService
	icons *CachedIcons
}

// WithIconCache returns client with FetchIcon served through store.
func WithIconCache(client ClientService, store IconStore, logger *log.Logger) *IconClient {
	return &IconClient{ClientService: client, icons: NewCachedIcons(client, store, logger)}
}

// FetchIcon implements [ClientService].
func (c *IconClient) FetchIcon(ctx context.Context, auth models.AuthContext, path string) ([]byte, error) {
	return c.icons.FetchIcon(ctx, auth, path)
}
