package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"commonsmeta/pkg/commons"
	"commonsmeta/pkg/config"
	"commonsmeta/pkg/depicts"
	"commonsmeta/pkg/harvest"
	"commonsmeta/pkg/logging"
	"commonsmeta/pkg/request"
	"commonsmeta/pkg/title"
	"commonsmeta/pkg/tracker"
	"commonsmeta/pkg/version"
	"commonsmeta/pkg/wikidata"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commonsmeta",
		Short: "Harvest metadata of Wikimedia Commons files by category",
		Long: `commonsmeta enumerates the files of a Wikimedia Commons category tree and
prints their categories, embedded EXIF data, extended metadata (license,
author, date, GPS) and the Wikidata items they depict.

The report is written to stdout; logs go to stderr.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", config.DefaultPath(), "Path to the config file")
	cmd.PersistentFlags().String("lang", "", "API host prefix (commons, meta, ...); overrides config")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().Bool("trace", false, "Log raw API responses (implies --verbose)")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored headings")

	cmd.AddCommand(NewFilesCmd())
	cmd.AddCommand(NewTreeCmd())
	cmd.AddCommand(NewCategoriesCmd())
	cmd.AddCommand(NewMetadataCmd())
	cmd.AddCommand(NewSummaryCmd())
	cmd.AddCommand(NewFullCmd())
	cmd.AddCommand(NewDepictsCmd())
	cmd.AddCommand(NewDescribeCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewInitConfigCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. Ctrl-C cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds the wired components for one command invocation.
type app struct {
	cfg       *config.Config
	tracker   *tracker.Tracker
	commons   *commons.Client
	harvester *harvest.Harvester
	cleanup   func()
}

// newApp loads .env and config, initializes logging and builds the clients.
func newApp(cmd *cobra.Command) (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	cleanup, err := logging.Init(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	slog.Debug("commonsmeta started", "version", version.Version, "config", path)

	tr := tracker.New()
	rc := request.New(tr, request.ClientConfig{
		UserAgent: cfg.Request.UserAgent,
		Timeout:   time.Duration(cfg.Request.Timeout),
		Logger:    logging.RequestLogger,
	})

	cc := commons.NewClient(rc, slog.Default().With("component", "commons"))
	cc.APIEndpoint = cfg.Commons.APIEndpoint
	cc.PageLimit = cfg.Commons.PageLimit

	wd := wikidata.NewClient(rc, slog.Default().With("component", "wikidata"))
	wd.SPARQLEndpoint = cfg.Wikidata.SPARQLEndpoint
	wd.LabelLanguage = cfg.Wikidata.LabelLanguage

	lk := depicts.NewLinker(cc, slog.Default().With("component", "depicts"))
	lk.Property = cfg.Wikidata.DepictsProperty
	lk.LabelLanguage = cfg.Wikidata.LabelLanguage

	h := harvest.New(cc, lk, wd, harvest.NewPrinter(cmd.OutOrStdout(), cfg.Harvest.Color), slog.Default())
	h.Lang = cfg.Commons.Lang
	h.SkipCategories = cfg.Harvest.SkipCategories

	return &app{
		cfg:       cfg,
		tracker:   tr,
		commons:   cc,
		harvester: h,
		cleanup:   cleanup,
	}, nil
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config: %w", err)
	}

	if lang, _ := flags.GetString("lang"); lang != "" {
		cfg.Commons.Lang = lang
		if err := cfg.Validate(); err != nil {
			return nil, path, err
		}
	}

	trace, _ := flags.GetBool("trace")
	verbose, _ := flags.GetBool("verbose")
	if verbose || trace {
		cfg.Log.Server.Level = "DEBUG"
		cfg.Log.Requests.Level = "DEBUG"
	}
	logging.EnableTrace = trace

	if noColor, _ := flags.GetBool("no-color"); noColor {
		cfg.Harvest.Color = false
	}
	return cfg, path, nil
}

// close logs API usage and closes log files.
func (a *app) close() {
	a.tracker.LogSummary(slog.Default())
	a.cleanup()
}

// withApp wraps a command body with app setup and teardown.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(cmd.Context(), a, args)
	}
}

// categoryArg returns the normalized category argument, or the configured default.
func (a *app) categoryArg(args []string) string {
	if len(args) > 0 {
		return title.WithNamespace(args[0], title.Category)
	}
	return title.WithNamespace(a.cfg.Harvest.Category, title.Category)
}

func fileArg(args []string) string {
	return title.WithNamespace(args[0], title.File)
}
