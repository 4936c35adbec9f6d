package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/schengen-tracker/internal/cli"
	"github.com/pkordes/schengen-tracker/internal/config"
	"github.com/pkordes/schengen-tracker/internal/domain"
	"github.com/pkordes/schengen-tracker/internal/repo"
	"github.com/pkordes/schengen-tracker/internal/service"
	"github.com/pkordes/schengen-tracker/migrations"
)

// app carries the flags and the services every subcommand shares. The store
// is opened lazily by commands that need it and closed by execute.
type app struct {
	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	cfgPath string
	dbPath  string
	noColor bool
	verbose bool
	// date backs --date on the root command and on status.
	date string

	cfg    config.CLIConfig
	log    *slog.Logger
	render cli.Renderer

	db         *sql.DB
	trips      *service.TripService
	compliance *service.ComplianceService
	export     *service.ExportService
}

func newApp(out, errOut io.Writer, now func() time.Time) *app {
	return &app{out: out, errOut: errOut, now: now}
}

// execute runs the command line in args and closes the store afterwards,
// whether or not the command failed.
func (a *app) execute(args []string) error {
	root := a.rootCmd()
	root.SetArgs(args)
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schengen",
		Short: "Track stays against the Schengen 90/180 rule",
		Long: "Record trips in a local database and check how many of the 90 days\n" +
			"allowed in any 180-day window you have left.",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runStatus,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", config.CLIConfigPath(), "Config file")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "Trip database (overrides store.path)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log diagnostics to stderr")
	root.Flags().StringVar(&a.date, "date", "", "Evaluate on this date (YYYY-MM-DD, default today)")

	root.AddCommand(
		a.statusCmd(),
		a.windowCmd(),
		a.checkCmd(),
		a.resetCmd(),
		a.timelineCmd(),
		a.tripsCmd(),
		a.exportCmd(),
		a.configCmd(),
	)
	return root
}

// setupLogger builds the stderr logger from --verbose.
func (a *app) setupLogger(*cobra.Command, []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	return nil
}

// setup loads the logger and the config. It runs before every subcommand
// except config init, which must work even when the file is broken.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if err := a.setupLogger(cmd, args); err != nil {
		return err
	}

	cfg, err := config.LoadCLI(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if a.dbPath != "" {
		a.cfg.Store.Path = a.dbPath
	}
	a.render = cli.NewRenderer(a.cfg.Display.Color && !a.noColor)
	a.log.Debug("config loaded", "path", a.cfgPath, "store", a.cfg.StorePath())
	return nil
}

// openStore opens and migrates the SQLite store and builds the services.
func (a *app) openStore(ctx context.Context) error {
	if a.db != nil {
		return nil
	}
	db, err := repo.OpenSQLite(a.cfg.StorePath())
	if err != nil {
		return err
	}
	n, err := migrations.Up(ctx, goose.DialectSQLite3, db)
	if err != nil {
		db.Close()
		return err
	}
	a.log.Debug("store opened", "path", a.cfg.StorePath(), "migrations_applied", n)

	trips := repo.NewSQLiteTripRepo(db)
	a.db = db
	a.trips = service.NewTripService(trips, service.WithRuleEnforcement(a.cfg.Rules.Enforce))
	a.compliance = service.NewComplianceService(trips, a.now)
	a.export = service.NewExportService(trips)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}

// dateOrToday parses raw as a calendar date, or returns today when empty.
func (a *app) dateOrToday(raw string) (time.Time, error) {
	if raw == "" {
		return a.compliance.Today(), nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	return d, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
