// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seasonvar/internal/cache"
	"seasonvar/internal/config"
	"seasonvar/internal/httputil"
	"seasonvar/internal/logging"
	"seasonvar/internal/metrics"
	"seasonvar/internal/service"
	"seasonvar/internal/store"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagBase     string
	flagBackend  string
	flagCacheTTL time.Duration
	flagTimeout  time.Duration
	flagLogLevel string
	flagJSON     bool
	flagDebug    bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

// logger is built from cfg by loadConfig.
var logger = logging.Discard()

var rootCmd = &cobra.Command{
	Use:   "seasonvar [query]",
	Short: "Browse the seasonvar catalog from the terminal",
	Long: `seasonvar searches and browses the seasonvar catalog, lists the episodes of a series
and resolves their playable stream links. Listings are cached on disk.

Results are shown in an interactive picker on a terminal and printed as JSON otherwise.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              searchRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBase, "base", "", "Upstream base URL (default: https://seasonvar.ru)")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Cache backend: sqlite | bolt | memory")
	rootCmd.PersistentFlags().DurationVar(&flagCacheTTL, "ttl", 0, "Listing cache freshness window, 0 always refetches (default: 6h)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "Per-request upstream timeout (default: 10s)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug | info | warn | error")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print results as JSON even on a terminal")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagBase != "" {
		cfg.Base = flagBase
	}
	if flagBackend != "" {
		cfg.CacheBackend = flagBackend
	}
	if cmd.Flags().Changed("ttl") {
		cfg.CacheTTL = flagCacheTTL
	}
	if flagTimeout != 0 {
		cfg.Timeout = flagTimeout
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagDebug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...any) {
	if cfg != nil && cfg.Debug {
		logger.Debug(fmt.Sprintf(format, args...))
	}
}

// interactive reports whether results should go to the picker instead of stdout.
func interactive() bool {
	return !flagJSON && term.IsTerminal(int(os.Stdout.Fd()))
}

// app is the wired pipeline shared by every command.
type app struct {
	svc     *service.Service
	cache   *cache.Store
	metrics *metrics.Metrics
	backend store.Store
}

func (a *app) Close() error {
	return a.backend.Close()
}

// newApp opens the configured cache backend and wires the content service.
func newApp() (*app, error) {
	base, err := httputil.ParseBase(cfg.Base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	path, err := cfg.ResolveCachePath()
	if err != nil {
		return nil, fmt.Errorf("resolving cache path: %w", err)
	}
	backend, err := store.Open(cfg.CacheBackend, path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	debugf("cache: %s at %s", cfg.CacheBackend, path)

	m := metrics.New()
	c := cache.New(backend, cache.WithPrefix(cfg.CachePrefix), cache.WithLogger(logger))
	fetcher := httputil.NewFetcher(cfg.Timeout,
		httputil.WithUserAgent(cfg.UserAgent),
		httputil.WithRateLimit(cfg.RateLimit),
		httputil.WithObserver(m),
		httputil.WithLogger(logger),
	)

	svc := service.New(base, fetcher, c, service.Options{
		TTL:     cfg.CacheTTL,
		Metrics: m,
		Logger:  logger.With(slog.String("component", "service")),
	})

	return &app{svc: svc, cache: c, metrics: m, backend: backend}, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("seasonvar " + Version)
	},
}
