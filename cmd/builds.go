package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/formatter"
	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/repositories"
	"github.com/desertthunder/champr/internal/shared"
	"github.com/desertthunder/champr/internal/tasks"
)

// Builds prints a champion's builds from a source.
//
// Perk and style names are looked up in the client when it is running.
func (r *Runner) Builds(ctx context.Context, cmd *cli.Command) error {
	alias := strings.TrimSpace(cmd.StringArg("champion"))
	if alias == "" {
		return fmt.Errorf("%w: champion", shared.ErrMissingArgument)
	}
	if r.builds == nil {
		return fmt.Errorf("%w: build service not initialized", shared.ErrServiceUnavailable)
	}
	source := cmd.String("source")

	sections, err := r.builds.ListBuildsByAlias(ctx, source, alias)
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}

	avatar := ""
	if r.config.CDN.AvatarURL != "" {
		avatar = fmt.Sprintf(r.config.CDN.AvatarURL, alias)
	}

	data, err := formatter.Builds(cmd.String("format"), source, alias, sections, r.names(ctx), avatar)
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteFile(path, data); err != nil {
			return err
		}
		r.logger.Info("builds written", "path", path, "sections", len(sections))
		return nil
	}
	return r.writeRaw(data)
}

// names loads the client's perk and style catalog, or returns empty names when the client is unavailable.
func (r *Runner) names(ctx context.Context) formatter.Names {
	if r.client == nil {
		return formatter.Names{}
	}
	auth, err := r.auth()
	if err != nil {
		r.logger.Debug("client not available, showing rune ids", "error", err)
		return formatter.Names{}
	}

	perks, err := r.client.ListAllPerks(ctx, auth)
	if err != nil {
		r.logger.Warn("failed to list perks", "error", err)
	}
	styles, err := r.client.ListAllStyles(ctx, auth)
	if err != nil {
		r.logger.Warn("failed to list styles", "error", err)
	}
	return formatter.NewNames(perks, styles)
}

// Apply writes item sets for many champions and prints progress as it goes.
func (r *Runner) Apply(ctx context.Context, cmd *cli.Command) error {
	sources := cmd.StringSlice("source")
	if len(sources) == 0 {
		sources = r.config.Apply.DefaultSources
	}

	req := models.MultiApplyRequest{
		Sources:           sources,
		Aliases:           cmd.StringSlice("champion"),
		InstallDir:        r.installDir(),
		IsAlternateRegion: r.config.Client.AlternateRegion,
	}
	opts := tasks.BulkApplyOpts{
		NumWorkers: positiveOr(cmd.Int("workers"), r.config.Apply.Workers),
		RateLimit:  positiveOr(cmd.Float("rate"), r.config.Apply.RateLimit),
	}

	var recorder tasks.JobRecorder
	if db, err := r.openDB(); err != nil {
		r.logger.Warn("history database unavailable, job will not be recorded", "error", err)
	} else {
		defer db.Close()
		recorder = repositories.NewJobRecorder(repositories.NewApplyJobRepository(db))
	}

	engine := tasks.NewBuildEngine(r.client, r.builds, recorder, r.logger)
	r.logger.Info("applying builds", "request", req.String())

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	quiet := cmd.Bool("json")
	go func() {
		defer close(done)
		for update := range progress {
			if !quiet {
				r.writePlain("[%s %d/%d] %s\n", update.Phase, update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := engine.ApplyBuildsFromSources(ctx, progress, req, opts)
	close(progress)
	<-done

	if result != nil {
		if quiet {
			if werr := r.writeJSON(newApplyReport(result), true); werr != nil {
				return werr
			}
		} else {
			r.writeApplySummary(result)
		}
	}
	return err
}

// applyReport is the JSON form of a [tasks.BulkApplyResult].
type applyReport struct {
	JobID        string          `json:"jobId,omitempty"`
	Status       string          `json:"status,omitempty"`
	Total        int             `json:"total"`
	Succeeded    int             `json:"succeeded"`
	Skipped      int             `json:"skipped"`
	Failed       int             `json:"failed"`
	FilesWritten int             `json:"filesWritten"`
	Sources      []sourceReport  `json:"sources"`
	Failures     []failureReport `json:"failures,omitempty"`
}

type sourceReport struct {
	Source    string `json:"source"`
	Version   string `json:"version"`
	Succeeded int    `json:"succeeded"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	Error     string `json:"error,omitempty"`
}

type failureReport struct {
	Source string `json:"source"`
	Alias  string `json:"alias"`
	Error  string `json:"error"`
}

func newApplyReport(result *tasks.BulkApplyResult) applyReport {
	report := applyReport{
		Total:        result.Total,
		Succeeded:    result.Succeeded,
		Skipped:      result.Skipped,
		Failed:       result.Failed,
		FilesWritten: result.FilesWritten,
		Sources:      make([]sourceReport, 0, len(result.Sources)),
	}
	if result.Job != nil {
		report.JobID = result.Job.ID()
		report.Status = string(result.Job.Status())
	}
	for _, s := range result.Sources {
		sr := sourceReport{Source: s.Source, Version: s.Version, Succeeded: s.Succeeded, Skipped: s.Skipped, Failed: s.Failed}
		if s.Error != nil {
			sr.Error = s.Error.Error()
		}
		report.Sources = append(report.Sources, sr)
	}
	for _, res := range result.Results {
		if res.Error != nil && !res.Skipped {
			report.Failures = append(report.Failures, failureReport{Source: res.Source, Alias: res.Alias, Error: res.Error.Error()})
		}
	}
	return report
}

func (r *Runner) writeApplySummary(result *tasks.BulkApplyResult) {
	r.writePlainHeader("Apply Summary")
	r.writePlain("Champions: %d applied, %d skipped, %d failed\n", result.Succeeded, result.Skipped, result.Failed)
	r.writePlain("Files written: %d\n", result.FilesWritten)
	for _, s := range result.Sources {
		line := fmt.Sprintf("  %-20s %-10s %d ok, %d skipped, %d failed", s.Source, s.Version, s.Succeeded, s.Skipped, s.Failed)
		if s.Error != nil {
			line += "  error: " + s.Error.Error()
		}
		r.writePlain("%s\n", line)
	}
}

// RuneApply replaces the current rune page with one of a champion's rune pages.
func (r *Runner) RuneApply(ctx context.Context, cmd *cli.Command) error {
	alias := strings.TrimSpace(cmd.StringArg("champion"))
	if alias == "" {
		return fmt.Errorf("%w: champion", shared.ErrMissingArgument)
	}
	if r.client == nil || r.builds == nil {
		return fmt.Errorf("%w: client and build services are required", shared.ErrServiceUnavailable)
	}

	auth, err := r.auth()
	if err != nil {
		return err
	}

	source := cmd.String("source")
	sections, err := r.builds.ListBuildsByAlias(ctx, source, alias)
	if err != nil {
		return fmt.Errorf("failed to list builds: %w", err)
	}

	var runes []models.Rune
	for _, s := range sections {
		runes = append(runes, s.Runes...)
	}
	index := cmd.Int("index")
	if index < 1 || index > len(runes) {
		return fmt.Errorf("%w: index %d, %s has %d rune pages on %s", shared.ErrInvalidFlag, index, alias, len(runes), source)
	}
	page := runes[index-1]

	engine := tasks.NewBuildEngine(r.client, r.builds, nil, r.logger)
	if err := engine.ApplyRune(ctx, auth, page); err != nil {
		return err
	}
	return r.writePlain("✓ Applied rune page %q\n", page.PageName())
}

func positiveOr[T int | float64](flag, fallback T) T {
	if flag > 0 {
		return flag
	}
	return fallback
}
