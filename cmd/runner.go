package main

import (
	"cmp"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/champr/internal/lcu"
	"github.com/desertthunder/champr/internal/models"
	"github.com/desertthunder/champr/internal/server"
	"github.com/desertthunder/champr/internal/services"
	"github.com/desertthunder/champr/internal/shared"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     services.ClientService
	builds     services.BuildService
	api        *services.APIService
	control    *server.ControlClient
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	openDB     func() (*sql.DB, error)
	detectDir  func() string
	browse     func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     services.ClientService
	Builds     services.BuildService
	API        *services.APIService
	Control    *server.ControlClient
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	// OpenDB opens and migrates the history database. Defaults to the configured sqlite path.
	OpenDB func() (*sql.DB, error)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Control == nil {
		opts.Control = server.NewControlClient(opts.Config.Server.Addr(), opts.HTTPClient)
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		builds:     opts.Builds,
		api:        opts.API,
		control:    opts.Control,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		openDB:     opts.OpenDB,
		detectDir:  func() string { return lcu.DetectInstallDir(lcu.InstallDirCandidates) },
		browse:     shared.OpenBrowser,
	}
	if r.openDB == nil {
		r.openDB = r.openDatabase
	}
	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	l.SetLevel(r.logger.GetLevel())
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, uiCommand, sourcesCommand, buildsCommand, applyCommand, runeCommand,
		lcuCommand, trayCommand, historyCommand, cacheCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// installDir returns the configured client directory or a detected one.
func (r *Runner) installDir() string {
	return cmp.Or(r.config.Client.InstallDir, r.detectDir())
}

// auth reads the lockfile of the running client.
func (r *Runner) auth() (models.AuthContext, error) {
	auth, err := lcu.ReadLockfile(r.installDir(), r.config.Client.AlternateRegion)
	if errors.Is(err, shared.ErrLockfileMissing) {
		return auth, fmt.Errorf("%w: %v", shared.ErrNotConnected, err)
	}
	return auth, err
}

func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeRaw(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	return r.writeRaw(fmt.Appendf(nil, format, args...))
}

func (r *Runner) writePlainln(format string, args ...any) error {
	return r.writeRaw([]byte("\n" + fmt.Sprintf(format, args...) + "\n"))
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

