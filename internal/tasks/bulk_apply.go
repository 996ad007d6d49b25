package tasks

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/shared"
)

// BulkApplyOpts contains configuration for bulk item set writes.
type BulkApplyOpts struct {
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Build fetches per second (default: 5)
}

// ChampionApplyResult is the outcome for one source and champion.
type ChampionApplyResult struct {
	Source  string
	Alias   string
	Files   []string
	Skipped bool // the source has no builds for the champion
	Error   error
}

// SourceSummary counts the outcomes of one source.
type SourceSummary struct {
	Source    string
	Version   string
	Succeeded int
	Skipped   int
	Failed    int
	Files     int
	Error     error // package resolution failure
}

// BulkApplyResult contains the results of a bulk apply.
type BulkApplyResult struct {
	Job          *models.ApplyJob
	Total        int
	Succeeded    int
	Skipped      int
	Failed       int
	FilesWritten int
	Sources      []SourceSummary
	Results      []ChampionApplyResult
}

type applyWork struct {
	source  string
	version string
	alias   string
}

// ApplyBuildsFromSources writes item sets for every requested champion from
// every requested source. With no aliases it applies every champion of the
// latest game version. Champions a source does not provide are skipped.
func (e *BuildEngine) ApplyBuildsFromSources(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	req models.MultiApplyRequest,
	opts BulkApplyOpts,
) (*BulkApplyResult, error) {
	if e.builds == nil {
		return nil, fmt.Errorf("%w: build service not initialized", shared.ErrServiceUnavailable)
	}
	req.Sources = unique(req.Sources)
	req.Aliases = unique(req.Aliases)
	if len(req.Sources) == 0 {
		return nil, fmt.Errorf("%w: at least one source", shared.ErrMissingArgument)
	}
	if req.InstallDir == "" {
		return nil, fmt.Errorf("%w: client.install_dir is not set", shared.ErrMissingConfig)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	job := models.NewApplyJob(0, req)
	e.recordCreate(job)
	job.Start()
	e.recordUpdate(job)

	result, err := e.bulkApply(ctx, progress, req, opts)
	if result == nil {
		result = &BulkApplyResult{}
	}
	result.Job = job

	job.SetFilesWritten(result.FilesWritten)
	job.SetChampionsFailed(result.Failed)
	if err == nil && result.Total > 0 && result.Succeeded == 0 {
		err = fmt.Errorf("%w: no item sets were written", shared.ErrNoBuilds)
	}
	job.Finish(err)
	e.recordUpdate(job)

	e.sendProgress(progress, summaryUpdate(result))
	e.logger.Info("bulk apply finished", "status", job.Status(), "applied", result.Succeeded, "skipped", result.Skipped, "failed", result.Failed, "files", result.FilesWritten)
	return result, err
}

func (e *BuildEngine) bulkApply(ctx context.Context, progress chan<- ProgressUpdate, req models.MultiApplyRequest, opts BulkApplyOpts) (*BulkApplyResult, error) {
	aliases, err := e.resolveAliases(ctx, progress, req.Aliases)
	if err != nil {
		return nil, err
	}

	result := &BulkApplyResult{Sources: make([]SourceSummary, len(req.Sources))}
	index := make(map[string]int, len(req.Sources))

	var work []applyWork
	for i, source := range req.Sources {
		index[source] = i
		result.Sources[i].Source = source

		pkg, err := e.builds.LatestPackage(ctx, source)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			e.sendProgress(progress, resolvePackageFailedUpdate(i+1, len(req.Sources), source, err))
			result.Sources[i].Error = err
			result.Sources[i].Failed = len(aliases)
			result.Failed += len(aliases)
			result.Total += len(aliases)
			continue
		}

		result.Sources[i].Version = pkg.Version
		e.sendProgress(progress, resolvePackageUpdate(i+1, len(req.Sources), source, pkg.Version))
		for _, alias := range aliases {
			work = append(work, applyWork{source: source, version: pkg.Version, alias: alias})
		}
	}
	result.Total += len(work)
	result.Results = make([]ChampionApplyResult, 0, len(work))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan applyWork)
	results := make(chan ChampionApplyResult, len(work))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for _, w := range work {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			select {
			case jobs <- w:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for range opts.NumWorkers {
		g.Go(func() error {
			for w := range jobs {
				results <- e.applyWork(gctx, req, w)
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		s := &result.Sources[index[res.Source]]
		switch {
		case res.Error != nil:
			result.Failed++
			s.Failed++
		case res.Skipped:
			result.Skipped++
			s.Skipped++
		default:
			result.Succeeded++
			result.FilesWritten += len(res.Files)
			s.Succeeded++
			s.Files += len(res.Files)
		}
		e.sendProgress(progress, championAppliedUpdate(completed, len(work), res))
	}

	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, ctx.Err()
}

func (e *BuildEngine) applyWork(ctx context.Context, req models.MultiApplyRequest, w applyWork) ChampionApplyResult {
	res := ChampionApplyResult{Source: w.source, Alias: w.alias}
	one := models.BulkApplyRequest{Source: w.source, InstallDir: req.InstallDir, IsAlternateRegion: req.IsAlternateRegion}

	files, err := e.applyChampion(ctx, one, w.version, w.alias)
	switch {
	case errors.Is(err, shared.ErrSourceNotFound), errors.Is(err, shared.ErrNoBuilds):
		res.Skipped = true
	case err != nil:
		res.Error = err
		e.logger.Warn("apply failed", "source", w.source, "champion", w.alias, "err", err)
	default:
		res.Files = files
	}
	return res
}

// resolveAliases returns the requested aliases, or every champion of the latest game version.
func (e *BuildEngine) resolveAliases(ctx context.Context, progress chan<- ProgressUpdate, aliases []string) ([]string, error) {
	if len(aliases) > 0 {
		e.sendProgress(progress, resolveChampionsUpdate("", len(aliases)))
		return aliases, nil
	}

	version, err := e.builds.LatestGameVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game version: %w", err)
	}
	champions, err := e.builds.ListGameChampions(ctx, version)
	if err != nil {
		return nil, fmt.Errorf("failed to list champions: %w", err)
	}

	out := make([]string, 0, len(champions))
	for _, c := range champions {
		out = append(out, c.ID)
	}
	out = unique(out)
	e.sendProgress(progress, resolveChampionsUpdate(version, len(out)))
	return out, nil
}

// unique drops empty and repeated values, keeping first-seen order. Two work
// items for the same source and champion would write the same directory.
func unique(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// recordCreate and recordUpdate log recorder failures without failing the apply.
func (e *BuildEngine) recordCreate(job *models.ApplyJob) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.Create(job); err != nil {
		e.logger.Warn("failed to record apply job", "err", err)
	}
}

func (e *BuildEngine) recordUpdate(job *models.ApplyJob) {
	if e.recorder == nil || job.ID() == "" {
		return
	}
	if err := e.recorder.Update(job); err != nil {
		e.logger.Warn("failed to update apply job", "id", job.ID(), "err", err)
	}
}
