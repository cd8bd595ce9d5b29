// Package crawler drives the breadth-first crawl of one site and feeds every
// rendered page through the extraction pipeline.
package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/ramkansal/brandscan/internal/config"
	"github.com/ramkansal/brandscan/internal/extractor"
	"github.com/ramkansal/brandscan/internal/fetcher"
	"github.com/ramkansal/brandscan/internal/output"
	"github.com/ramkansal/brandscan/internal/state"
	"github.com/ramkansal/brandscan/pkg/plugin"
)

var (
	// ErrNoBrowser is returned by New when Options.Browser is nil.
	ErrNoBrowser = errors.New("crawler: no browser")
	// ErrAlreadyRun is returned when Run is called twice.
	ErrAlreadyRun = errors.New("crawler: already run")
)

// Crawler is the scheduler of a single run. It is not safe for concurrent use.
type Crawler struct {
	cfg      config.Config
	seed     string
	opts     Options
	registry *extractor.Registry
	state    *state.AggregateState
	events   chan plugin.CrawlEvent

	// URL frontier
	queue   []queueItem
	queued  map[string]bool
	visited map[string]bool

	stats     plugin.CrawlStats
	startTime time.Time
	ran       bool
}

type queueItem struct {
	url   string
	depth int
}

// New validates cfg, creates the report directory and wires the extractor
// pipeline. Failing to create the report directory is fatal.
func New(seed string, cfg config.Config, opts Options) (*Crawler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Browser == nil {
		return nil, ErrNoBrowser
	}
	seedURL := normalizeURL(seed)
	if seedURL == "" {
		return nil, fmt.Errorf("invalid seed url %q", seed)
	}
	opts.setDefaults()

	if opts.Assets == nil || (cfg.RespectRobots && opts.Robots == nil) {
		hf := fetcher.NewHTTPFetcher(fetcher.HTTPFetcherConfig{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.LogoFetchTimeout,
		})
		if opts.Assets == nil {
			opts.Assets = hf
		}
		if cfg.RespectRobots && opts.Robots == nil {
			opts.Robots = fetcher.NewRobotsPolicy(hf, cfg.UserAgent)
		}
	}

	dir, err := CreateReportDir(cfg.OutputRoot, opts.Now())
	if err != nil {
		return nil, err
	}

	return &Crawler{
		cfg:      cfg,
		seed:     seedURL,
		opts:     opts,
		registry: extractor.NewRegistry(cfg, opts.Assets),
		state:    state.New(dir),
		events:   make(chan plugin.CrawlEvent, opts.EventBuffer),
		queued:   make(map[string]bool),
		visited:  make(map[string]bool),
	}, nil
}

// ReportDirName names the report directory of a run started at t.
func ReportDirName(t time.Time) string {
	return "report-" + t.Format("20060102-150405")
}

// CreateReportDir creates <root>/report-<timestamp> and returns its path.
func CreateReportDir(root string, t time.Time) (string, error) {
	dir := filepath.Join(root, ReportDirName(t))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	return dir, nil
}

// Events returns the event channel. It is closed when Run returns.
func (c *Crawler) Events() <-chan plugin.CrawlEvent {
	return c.events
}

// State returns the aggregate state of the run.
func (c *Crawler) State() *state.AggregateState {
	return c.state
}

// Registry exposes the extractor pipeline so callers can register custom
// extractors before Run.
func (c *Crawler) Registry() *extractor.Registry {
	return c.registry
}

// Run crawls until the queue drains or MaxPages pages are recorded, then
// writes the report. Navigation and extractor failures never abort the run;
// the returned error only reports a failure to write the report.
func (c *Crawler) Run() (*output.Report, error) {
	if c.ran {
		return nil, ErrAlreadyRun
	}
	c.ran = true
	defer close(c.events)

	c.startTime = c.opts.Now()
	c.opts.Logger.Info("crawl started", "url", c.seed, "report", c.state.ReportDir,
		"maxPages", c.cfg.MaxPages, "maxDepth", c.cfg.MaxDepth)
	c.emit(plugin.CrawlEvent{
		Type:    plugin.EventCrawlStarted,
		URL:     c.seed,
		Message: fmt.Sprintf("Starting crawl of %s", c.seed),
	})

	c.enqueue(c.seed, 0)

	for len(c.state.Pages) < c.cfg.MaxPages {
		item, ok := c.dequeue()
		if !ok {
			break
		}
		c.processURL(item)
	}

	rep, err := output.Emit(c.state, c.seed, c.cfg.TopNKeywords, c.opts.Now())
	if err != nil {
		err = fmt.Errorf("emit report: %w", err)
		c.opts.Logger.Error("report failed", "err", err)
	}

	c.stats.Elapsed = c.opts.Now().Sub(c.startTime)
	c.opts.Logger.Info("crawl finished", "pages", c.stats.PagesCrawled,
		"errors", c.stats.PagesErrored, "skipped", c.stats.PagesSkipped, "elapsed", c.stats.Elapsed)
	c.emit(plugin.CrawlEvent{
		Type:    plugin.EventCrawlFinished,
		Stats:   c.Stats(),
		Message: fmt.Sprintf("Crawl complete. %d pages.", c.stats.PagesCrawled),
	})
	return rep, err
}

// processURL renders one dequeued URL and runs the page pipeline on it.
func (c *Crawler) processURL(item queueItem) {
	if c.visited[item.url] {
		c.skip(item, "already visited")
		return
	}
	if item.depth > c.cfg.MaxDepth {
		c.skip(item, "beyond max depth")
		return
	}
	c.visited[item.url] = true

	if c.cfg.RespectRobots && c.opts.Robots != nil && !c.opts.Robots.Allowed(item.url) {
		c.skip(item, "disallowed by robots.txt")
		return
	}

	c.emit(plugin.CrawlEvent{Type: plugin.EventPageStarted, URL: item.url, Depth: item.depth})
	c.opts.Logger.Debug("visiting", "url", item.url, "depth", item.depth)
	began := c.opts.Now()

	page, err := c.opts.Browser.Navigate(item.url, c.cfg.NavigationTimeout)
	if err != nil {
		c.stats.PagesErrored++
		c.opts.Metrics.NavigationFailures.Inc()
		c.opts.Logger.Warn("navigation failed", "url", item.url, "err", err)
		c.emit(plugin.CrawlEvent{
			Type:    plugin.EventPageError,
			URL:     item.url,
			Depth:   item.depth,
			Error:   err,
			Message: fmt.Sprintf("Error loading %s: %v", item.url, err),
		})
		return
	}
	defer page.Close()

	if c.cfg.SettleDelay > 0 {
		c.opts.Sleep(c.cfg.SettleDelay)
	}

	pc := extractor.NewPageContext(page, item.url, item.depth)
	c.logFailures(pc, c.registry.RunBefore(pc, c.state))

	title := pc.Title()
	var counts state.ElementCounts
	if doc, err := pc.Document(); err == nil {
		counts = extractor.CountElements(doc)
	} else {
		c.logFailures(pc, []error{&extractor.Error{Extractor: "counts", Err: err}})
	}

	c.state.AddPage(state.PageRecord{
		URL:            item.url,
		Title:          title,
		Type:           state.PageGeneral,
		ElementCounts:  counts,
		Timestamp:      c.opts.Now(),
		ScreenshotFile: pc.ScreenshotFile,
		MarkdownFile:   pc.MarkdownFile,
	})
	c.state.AddToSiteMap(item.url, title)

	if item.depth < c.cfg.MaxDepth {
		edges, err := c.registry.Links(pc)
		if err != nil {
			c.logFailures(pc, []error{err})
		} else {
			c.state.AddLinks(edges)
			for _, e := range edges {
				c.enqueue(e.To, item.depth+1)
			}
		}
	}

	c.logFailures(pc, c.registry.RunAfter(pc, c.state))

	c.stats.PagesCrawled++
	c.stats.Elapsed = c.opts.Now().Sub(c.startTime)
	c.opts.Metrics.PagesVisited.Inc()
	c.opts.Metrics.PageDuration.Observe(c.opts.Now().Sub(began).Seconds())
	c.opts.Logger.Info("page done", "url", item.url, "depth", item.depth, "title", title)
	c.emit(plugin.CrawlEvent{
		Type:  plugin.EventPageDone,
		URL:   item.url,
		Depth: item.depth,
		Stats: c.Stats(),
	})
}

func (c *Crawler) logFailures(pc *extractor.PageContext, errs []error) {
	for _, err := range errs {
		name := "unknown"
		var xe *extractor.Error
		if errors.As(err, &xe) {
			name = xe.Extractor
			err = xe.Err
		}
		c.opts.Metrics.ExtractorFailed(name)
		c.opts.Logger.Warn("extractor failed", "url", pc.URL, "extractor", name, "err", err)
	}
}

func (c *Crawler) skip(item queueItem, reason string) {
	c.stats.PagesSkipped++
	c.opts.Metrics.PagesSkipped.Inc()
	c.opts.Logger.Debug("skipped", "url", item.url, "depth", item.depth, "reason", reason)
	c.emit(plugin.CrawlEvent{
		Type:    plugin.EventPageSkipped,
		URL:     item.url,
		Depth:   item.depth,
		Message: reason,
	})
}

// enqueue adds a URL to the crawl queue unless it was queued before. The
// first discovery of a URL carries its smallest depth.
func (c *Crawler) enqueue(rawURL string, depth int) {
	normalized := normalizeURL(rawURL)
	if normalized == "" || c.queued[normalized] {
		return
	}
	c.queued[normalized] = true
	c.queue = append(c.queue, queueItem{url: normalized, depth: depth})

	c.stats.PagesQueued++
	c.opts.Metrics.LinksQueued.Inc()
	c.opts.Metrics.QueueLength.Set(float64(len(c.queue)))
	c.emit(plugin.CrawlEvent{Type: plugin.EventPageQueued, URL: normalized, Depth: depth})
}

// dequeue pops the next URL from the queue.
func (c *Crawler) dequeue() (queueItem, bool) {
	if len(c.queue) == 0 {
		return queueItem{}, false
	}
	item := c.queue[0]
	c.queue = c.queue[1:]
	c.opts.Metrics.QueueLength.Set(float64(len(c.queue)))
	return item, true
}

// emit sends an event to the event channel (non-blocking).
func (c *Crawler) emit(event plugin.CrawlEvent) {
	select {
	case c.events <- event:
	default:
		// consumer too slow, drop rather than stall the crawl
	}
}

// Stats returns a copy of the current stats.
func (c *Crawler) Stats() *plugin.CrawlStats {
	s := c.stats
	return &s
}

// normalizeURL keeps http(s) URLs, drops the fragment and gives an empty
// path the root path. It returns "" for anything else.
func normalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}
	parsed.Fragment = ""
	parsed.RawFragment = ""
	if parsed.Path == "" {
		parsed.Path = "/"
	}
	return parsed.String()
}
