package crawler

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ramkansal/brandscan/internal/extractor"
	"github.com/ramkansal/brandscan/internal/metrics"
	"github.com/ramkansal/brandscan/pkg/plugin"
)

// RobotsGate decides whether a URL may be visited.
type RobotsGate interface {
	Allowed(rawURL string) bool
}

// Options carries the collaborators of a crawl. Only Browser is required.
type Options struct {
	// Browser renders pages. The crawler does not close it.
	Browser plugin.Browser

	// Assets downloads logo images. Defaults to a colly fetcher.
	Assets extractor.AssetFetcher

	// Robots gates URLs when the config asks for robots.txt. Defaults to a
	// policy backed by the assets fetcher.
	Robots RobotsGate

	Logger  *log.Logger
	Metrics *metrics.Metrics

	// Now and Sleep are replaceable clocks.
	Now   func() time.Time
	Sleep func(time.Duration)

	// EventBuffer sizes the event channel. Events are dropped when full.
	EventBuffer int
}

const defaultEventBuffer = 1000

func (o *Options) setDefaults() {
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Metrics == nil {
		o.Metrics = metrics.New()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = time.Sleep
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = defaultEventBuffer
	}
}
