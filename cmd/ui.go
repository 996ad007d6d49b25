package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/desertthunder/champr/internal/async"
	"github.com/desertthunder/champr/internal/lcu"
	"github.com/desertthunder/champr/internal/orchestrator"
	"github.com/desertthunder/champr/internal/repositories"
	"github.com/desertthunder/champr/internal/server"
	"github.com/desertthunder/champr/internal/services"
	"github.com/desertthunder/champr/internal/shared"
	"github.com/desertthunder/champr/internal/state"
	"github.com/desertthunder/champr/internal/tasks"
	"github.com/desertthunder/champr/internal/ui"
)

// UI launches the build viewer with its background watchers and control server.
func (r *Runner) UI(ctx context.Context, cmd *cli.Command) error {
	if r.client == nil || r.builds == nil {
		return fmt.Errorf("%w: client and build services are required", shared.ErrServiceUnavailable)
	}

	// Logs go to a file while the TUI owns the terminal
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)
	logger := r.logger

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := r.client
	var recorder tasks.JobRecorder
	if db, err := r.openDB(); err != nil {
		logger.Warn("history database unavailable, icons and jobs will not be persisted", "error", err)
	} else {
		defer db.Close()
		client = services.WithIconCache(r.client, repositories.NewIconRepository(db), shared.WithLogger(logger, "component", "icons"))
		recorder = repositories.NewJobRecorder(repositories.NewApplyJobRepository(db))
	}

	var program *tea.Program
	wake := func() { program.Send(ui.Wake()) }

	store := state.NewStore()
	spawner := async.NewSpawner(ctx, async.SpawnerOpts{Wake: wake, Logger: shared.WithLogger(logger, "component", "spawner")})
	engine := tasks.NewBuildEngine(client, r.builds, recorder, shared.WithLogger(logger, "component", "tasks"))
	orch := orchestrator.New(orchestrator.Options{
		Client:    client,
		Builds:    r.builds,
		Applier:   engine,
		Spawner:   spawner,
		AvatarURL: r.config.CDN.AvatarURL,
		Logger:    logger,
	})

	model := ui.NewModel(ui.Options{
		Orchestrator:    orch,
		Store:           store,
		RefreshInterval: r.config.UI.RefreshInterval(),
		Logger:          logger,
	})
	program = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	store.OnChange(wake)

	installDir := r.installDir()
	if installDir == "" {
		logger.Warn("client install directory not found, set client.install_dir")
	}

	connector := lcu.NewConnector(store, lcu.ConnectorOptions{
		InstallDir:      installDir,
		AlternateRegion: r.config.Client.AlternateRegion,
		PollInterval:    r.config.Client.PollInterval(),
		Logger:          shared.WithLogger(logger, "component", "connector"),
	})
	watcher := lcu.NewChampionWatcher(store, client, lcu.ChampionWatcherOptions{
		PollInterval: r.config.Client.PollInterval(),
		Logger:       shared.WithLogger(logger, "component", "champion"),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ignoreCanceled(connector.Run(gctx)) })
	g.Go(func() error { return ignoreCanceled(watcher.Run(gctx)) })

	if !cmd.Bool("no-server") {
		router := server.NewBasicRouter()
		router.Use(server.Recoverer(logger), server.RequestLogger(logger))
		router.Handler(server.NewControlHandler(orch, store.Snapshot, wake, shared.WithLogger(logger, "component", "control")))
		srv := server.New(r.config.Server.Addr(), router, logger)

		g.Go(func() error {
			if err := srv.Run(gctx); err != nil {
				logger.Error("control server stopped", "error", err)
			}
			return nil
		})
	}

	_, runErr := program.Run()
	cancel()
	spawner.Wait()

	if err := g.Wait(); err != nil {
		logger.Error("background task failed", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", runErr)
	}
	return nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
