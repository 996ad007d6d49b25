package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/formatter"
	"github.com/desertthunder/champr/internal/shared"
)

const packagePageURL = "https://www.npmjs.com/package/%s/%s"

// SourcesList prints the build source catalog.
func (r *Runner) SourcesList(ctx context.Context, cmd *cli.Command) error {
	if r.builds == nil {
		return fmt.Errorf("%w: build service not initialized", shared.ErrServiceUnavailable)
	}

	sources, err := r.builds.FetchSources(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch sources: %w", err)
	}
	r.logger.Debug("fetched sources", "count", len(sources))

	if cmd.Bool("json") {
		return r.writeJSON(sources, cmd.Bool("pretty"))
	}
	return r.writeRaw(formatter.SourcesToText(sources))
}

// SourcesBrowse opens the package page of a source.
func (r *Runner) SourcesBrowse(ctx context.Context, cmd *cli.Command) error {
	source := strings.TrimSpace(cmd.StringArg("source"))
	if source == "" {
		return fmt.Errorf("%w: source", shared.ErrMissingArgument)
	}

	url := fmt.Sprintf(packagePageURL, r.config.CDN.PackageScope, source)
	r.logger.Info("opening source page", "url", url)
	if err := r.browse(url); err != nil {
		r.writePlain("Open %s in your browser\n", url)
		return err
	}
	return nil
}
