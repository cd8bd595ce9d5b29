package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ramkansal/brandscan/internal/config"
	"github.com/ramkansal/brandscan/internal/crawler"
	"github.com/ramkansal/brandscan/internal/fetcher"
	"github.com/ramkansal/brandscan/internal/metrics"
	"github.com/ramkansal/brandscan/internal/output"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// options holds the parsed CLI flags.
type options struct {
	configFile  string
	outDir      string
	maxPages    int
	maxDepth    int
	robots      bool
	headful     bool
	controlURL  string
	metricsAddr string
	verbose     bool
	quiet       bool
}

// NewRootCmd creates the brandscan command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&options{})
}

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brandscan <url>",
		Short: "Crawl a website and report its brand identity",
		Long: `brandscan renders a site in headless Chrome, crawls it breadth-first from the
given URL and collects colors, fonts, logos, calls to action, keywords and
page signals into a timestamped report directory.`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, o, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configFile, "config", "c", "", "path to a YAML config file (default: $XDG_CONFIG_HOME/"+config.DefaultConfigFile+")")
	f.StringVarP(&o.outDir, "out", "o", "", "directory that receives report-<timestamp>/ (default \"reports\")")
	f.IntVarP(&o.maxPages, "max-pages", "p", 0, "maximum number of pages to record (default 50)")
	f.IntVarP(&o.maxDepth, "max-depth", "d", 0, "maximum link depth from the seed (default 3)")
	f.BoolVar(&o.robots, "robots", false, "skip URLs disallowed by robots.txt")
	f.BoolVar(&o.headful, "headful", false, "show the browser window")
	f.StringVar(&o.controlURL, "browser-url", "", "DevTools URL of an already running Chrome")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "log every page and skipped URL")
	f.BoolVarP(&o.quiet, "quiet", "q", false, "only log errors, no progress or summary")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(cmd *cobra.Command, o *options) (config.Config, error) {
	cfg := config.Default()
	if path := config.FindConfigFile(o.configFile); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("out") {
		cfg.OutputRoot = o.outDir
	}
	if f.Changed("max-pages") {
		cfg.MaxPages = o.maxPages
	}
	if f.Changed("max-depth") {
		cfg.MaxDepth = o.maxDepth
	}
	if f.Changed("robots") {
		cfg.RespectRobots = o.robots
	}
	if f.Changed("headful") {
		cfg.Headless = !o.headful
	}

	return cfg, cfg.Validate()
}

// normalizeSeed adds https:// when the scheme is missing.
func normalizeSeed(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	if !hasWebScheme(raw) {
		raw = "https://" + raw
	}
	return raw, nil
}

func hasWebScheme(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func newLogger(w io.Writer, o *options) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "brandscan",
	})
	switch {
	case o.quiet:
		logger.SetLevel(log.ErrorLevel)
	case o.verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func runScan(cmd *cobra.Command, o *options, rawURL string) error {
	seed, err := normalizeSeed(rawURL)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, o)

	browser, err := fetcher.NewBrowserFetcher(fetcher.BrowserFetcherConfig{
		UserAgent:  cfg.UserAgent,
		Headless:   cfg.Headless,
		ControlURL: o.controlURL,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Warn("closing browser", "err", err)
		}
	}()

	m := metrics.New()
	if o.metricsAddr != "" {
		srv := serveMetrics(o.metricsAddr, m, logger)
		defer srv.Close()
	}

	c, err := crawler.New(seed, cfg, crawler.Options{
		Browser: browser,
		Logger:  logger,
		Metrics: m,
	})
	if err != nil {
		return err
	}

	prog := newProgress(stderr, !o.quiet && !o.verbose)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range c.Events() {
			prog.handle(ev)
		}
	}()

	rep, err := c.Run()
	<-done
	if rep != nil && !o.quiet {
		if werr := output.WriteSummary(cmd.OutOrStdout(), rep, c.Stats().Elapsed); werr != nil {
			return errors.Join(err, werr)
		}
	}
	return err
}

func serveMetrics(addr string, m *metrics.Metrics, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", "addr", addr, "err", err)
		}
	}()
	return srv
}
