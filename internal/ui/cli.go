package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/config"
	"github.com/javiermolinar/bangumi/internal/dateutil"
	"github.com/javiermolinar/bangumi/internal/db"
	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/guide"
	"github.com/javiermolinar/bangumi/internal/logging"
	"github.com/javiermolinar/bangumi/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo     epg.Repository
	config   *config.Config
	root     *cobra.Command
	logger   *slog.Logger
	closeLog func() error
	now      func() time.Time

	debug   bool // Enable debug logging
	noColor bool
}

// NewApp creates a new CLI application. A nil repo is opened lazily from config.
func NewApp(repo epg.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, logger: slog.Default(), now: time.Now}

	a.root = &cobra.Command{
		Use:   "bangumi",
		Short: "A terminal TV program guide",
		Long: `Bangumi is a multi-day, multi-channel TV program guide.

It fetches services, channels and programs from an EPG source, stores a
snapshot locally, and lays simultaneous airings out side by side.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI(cmd.Context())
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+logging.DebugLogPath+")")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.syncCmd())
	a.root.AddCommand(a.columnsCmd())
	a.root.AddCommand(a.guideCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.digestCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bangumi %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// Close releases the repository and log output.
func (a *App) Close() error {
	var err error
	if a.repo != nil {
		err = a.repo.Close()
	}
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
	}
	return err
}

// setup configures logging and color before any command runs.
// The full-screen TUI only logs when a file is configured.
func (a *App) setup(cmd *cobra.Command) error {
	if a.noColor {
		DisableColor()
	}
	if a.closeLog != nil {
		return nil
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:      a.config.Log.Level,
		File:       a.config.Log.File,
		MaxSizeMB:  a.config.Log.MaxSizeMB,
		MaxBackups: a.config.Log.MaxBackups,
		Debug:      a.debug,
		Quiet:      cmd == a.root,
		Stderr:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger, a.closeLog = logger, closeLog
	return nil
}

// repository opens the snapshot store on first use.
func (a *App) repository() (epg.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return repo, nil
}

// snapshot loads the stored dataset.
// A store that was never synced yields ErrNoSnapshot.
func (a *App) snapshot(ctx context.Context) (*epg.Dataset, error) {
	repo, err := a.repository()
	if err != nil {
		return nil, err
	}
	last, err := repo.LastSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading sync state: %w", err)
	}
	if last.IsZero() {
		return nil, ErrNoSnapshot
	}
	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	logging.Component(a.logger, "ui").Debug("ui.snapshot.loaded",
		"synced_at", last,
		"programs", len(ds.Programs),
	)
	return ds, nil
}

// guideOptions maps configuration onto guide build options.
func (a *App) guideOptions() (guide.Options, error) {
	loc, err := a.config.Guide.Location()
	if err != nil {
		return guide.Options{}, err
	}
	return guide.Options{
		Days:                a.config.Guide.Days,
		Location:            loc,
		PxPerMinute:         a.config.Guide.PxPerMinute,
		IncludeServiceTypes: a.config.Guide.IncludeServiceTypes,
		Now:                 a.now,
		LogoResolver:        guide.LogoTemplate(a.config.Guide.LogoURLTemplate),
	}, nil
}

// resolveTab finds a tab by name, falling back to the configured initial tab.
func (a *App) resolveTab(name string) (column.Tab, error) {
	if name == "" {
		name = a.config.Guide.InitialTab
	}
	tab, ok := column.TabByName(name)
	if !ok {
		return column.Tab{}, fmt.Errorf("%w: %s", ErrUnknownTab, name)
	}
	return tab, nil
}

// buildDay lays out a single day of a tab from the stored snapshot.
func (a *App) buildDay(ctx context.Context, tabName, dayArg string) (*guide.Guide, *guide.Day, error) {
	tab, err := a.resolveTab(tabName)
	if err != nil {
		return nil, nil, err
	}
	opts, err := a.guideOptions()
	if err != nil {
		return nil, nil, err
	}
	key, err := dateutil.ParseDayArg(dayArg, a.now(), opts.Location)
	if err != nil {
		return nil, nil, err
	}
	ds, err := a.snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	g := guide.BuildDays(tab, ds, []string{key}, opts)
	return g, &g.Days[0], nil
}

func (a *App) runTUI(ctx context.Context) error {
	ds, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	opts, err := a.guideOptions()
	if err != nil {
		return err
	}
	return tui.Run(tui.Options{
		Dataset:    ds,
		Guide:      opts,
		Tabs:       column.DefaultTabs(),
		InitialTab: a.config.Guide.InitialTab,
		Theme:      a.config.UI.Theme,
		Logger:     logging.Component(a.logger, "tui"),
	})
}
