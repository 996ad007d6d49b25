package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/services"
	"github.com/desertthunder/champr/internal/shared"
)

// Engine defines the write operations champr performs against the game client.
type Engine interface {
	// ApplyRune replaces the current rune page with page.
	ApplyRune(ctx context.Context, auth models.AuthContext, page models.Rune) error

	// ApplyBuildsFromSource writes one champion's item sets from the latest version of a source.
	ApplyBuildsFromSource(ctx context.Context, req models.BulkApplyRequest, alias string) error

	// ApplyBuildsFromSources writes item sets for many champions from several sources.
	ApplyBuildsFromSources(ctx context.Context, progress chan<- ProgressUpdate, req models.MultiApplyRequest, opts BulkApplyOpts) (*BulkApplyResult, error)
}

// RuneWriter is the subset of the client API needed to replace rune pages.
type RuneWriter interface {
	CurrentRunePage(ctx context.Context, auth models.AuthContext) (*models.RunePage, error)
	DeleteRunePage(ctx context.Context, auth models.AuthContext, id int64) error
	CreateRunePage(ctx context.Context, auth models.AuthContext, page models.RunePage) error
}

// JobRecorder persists bulk apply jobs. Create assigns the id and sequence.
type JobRecorder interface {
	Create(job *models.ApplyJob) error
	Update(job *models.ApplyJob) error
}

// BuildEngine implements [Engine].
type BuildEngine struct {
	client   RuneWriter
	builds   services.BuildService
	recorder JobRecorder
	logger   *log.Logger
}

// NewBuildEngine creates a BuildEngine. recorder may be nil.
func NewBuildEngine(client RuneWriter, builds services.BuildService, recorder JobRecorder, logger *log.Logger) *BuildEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &BuildEngine{client: client, builds: builds, recorder: recorder, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *BuildEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ApplyRune deletes the current rune page if the client allows it, then
// creates page and marks it current.
func (e *BuildEngine) ApplyRune(ctx context.Context, auth models.AuthContext, page models.Rune) error {
	if e.client == nil {
		return fmt.Errorf("%w: client API not initialized", shared.ErrServiceUnavailable)
	}
	if !auth.Connected() {
		return shared.ErrNotConnected
	}
	if len(page.SelectedPerkIDs) == 0 || page.PrimaryStyleID == 0 {
		return fmt.Errorf("%w: rune page %q has no perks", shared.ErrInvalidInput, page.PageName())
	}

	current, err := e.client.CurrentRunePage(ctx, auth)
	if err != nil {
		return fmt.Errorf("failed to read current rune page: %w", err)
	}

	if current != nil && current.IsDeletable {
		if err := e.client.DeleteRunePage(ctx, auth, current.ID); err != nil {
			return fmt.Errorf("failed to delete rune page %d: %w", current.ID, err)
		}
		e.logger.Debug("deleted rune page", "id", current.ID, "name", current.Name)
	}

	next := models.RunePage{
		Name:            page.PageName(),
		PrimaryStyleID:  page.PrimaryStyleID,
		SubStyleID:      page.SubStyleID,
		SelectedPerkIDs: append([]int64(nil), page.SelectedPerkIDs...),
		Current:         true,
	}
	if err := e.client.CreateRunePage(ctx, auth, next); err != nil {
		return fmt.Errorf("failed to create rune page %q: %w", next.Name, err)
	}

	e.logger.Info("applied rune page", "name", next.Name)
	return nil
}

// ApplyBuildsFromSource writes alias's item sets from the latest version of req.Source.
func (e *BuildEngine) ApplyBuildsFromSource(ctx context.Context, req models.BulkApplyRequest, alias string) error {
	if e.builds == nil {
		return fmt.Errorf("%w: build service not initialized", shared.ErrServiceUnavailable)
	}
	if req.Source == "" {
		return fmt.Errorf("%w: source", shared.ErrMissingArgument)
	}
	if alias == "" {
		return fmt.Errorf("%w: champion alias", shared.ErrMissingArgument)
	}
	if req.InstallDir == "" {
		return fmt.Errorf("%w: client.install_dir is not set", shared.ErrMissingConfig)
	}

	pkg, err := e.builds.LatestPackage(ctx, req.Source)
	if err != nil {
		return err
	}

	files, err := e.applyChampion(ctx, req, pkg.Version, alias)
	if err != nil {
		return err
	}
	e.logger.Info("applied item sets", "source", req.Source, "version", pkg.Version, "champion", alias, "files", len(files))
	return nil
}

// applyChampion fetches one champion's builds at a fixed package version and writes them.
func (e *BuildEngine) applyChampion(ctx context.Context, req models.BulkApplyRequest, version, alias string) ([]string, error) {
	sections, err := e.builds.FetchChampionBuilds(ctx, req.Source, version, alias)
	if err != nil {
		return nil, err
	}

	sets := ItemSetsFromSections(req.Source, alias, sections)
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: %s has no item builds for %s", shared.ErrNoBuilds, req.Source, alias)
	}

	dir := ItemSetDir(req.InstallDir, req.IsAlternateRegion, alias)
	return WriteItemSets(dir, req.Source, alias, sets)
}
