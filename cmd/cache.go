package main

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/repositories"
)

// CacheStats prints how many icons are cached and their total size.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := repositories.NewIconRepository(db).Stats()
	if err != nil {
		return err
	}

	r.writePlain("Icons: %d\n", stats.Count)
	r.writePlain("Size: %s\n", humanize.Bytes(uint64(stats.Bytes)))
	if stats.Oldest != nil {
		r.writePlain("Oldest: %s\n", humanize.Time(*stats.Oldest))
	}
	return nil
}

// CacheClear deletes every cached icon.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := repositories.NewIconRepository(db).Clear()
	if err != nil {
		return err
	}
	r.logger.Info("icon cache cleared", "icons", n)
	return r.writePlain("✓ Removed %d cached icons\n", n)
}
