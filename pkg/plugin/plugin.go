// Package plugin defines the public interfaces brandscan depends on.
// External tools can import this package to drive the crawl with their own
// browser automation backend without forking the project.
package plugin

import (
	"time"
)

// ---------- Browser Session ----------

// Browser is one automation-driven browser context. Pages are rendered one
// at a time.
type Browser interface {
	// Name returns a human-readable identifier for this backend.
	Name() string

	// Navigate loads url and returns the rendered page. It fails when the
	// navigation does not complete within timeout.
	Navigate(url string, timeout time.Duration) (Page, error)

	// Close releases the browser.
	Close() error
}

// Page is a rendered document.
type Page interface {
	// URL returns the final URL after redirects.
	URL() string

	// HTML returns the serialized DOM as currently rendered.
	HTML() (string, error)

	// Evaluate runs a JS function expression such as `() => 1` in the page
	// and decodes its JSON result into out.
	Evaluate(js string, out interface{}) error

	// Screenshot captures the full scrollable page as PNG.
	Screenshot() ([]byte, error)

	// FindAll returns every element matching a CSS selector.
	FindAll(selector string) ([]Element, error)

	// Close releases the page.
	Close() error
}

// Element is a handle to one DOM node of a rendered page.
type Element interface {
	// Visible reports whether the element is rendered and not hidden.
	Visible() (bool, error)

	// BoundingBox returns the element box, or nil when it has no layout.
	BoundingBox() (*Box, error)

	// Screenshot captures the element alone as PNG.
	Screenshot() ([]byte, error)
}

// Box is an element's layout rectangle in CSS pixels.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty reports whether the box has no area.
func (b *Box) Empty() bool {
	return b == nil || b.Width <= 0 || b.Height <= 0
}

// ---------- Event Types ----------

// CrawlEvent represents a real-time event emitted by the crawler.
type CrawlEvent struct {
	Type    EventType
	URL     string
	Depth   int
	Error   error
	Stats   *CrawlStats
	Message string
}

// EventType identifies the kind of event.
type EventType int

const (
	EventPageQueued EventType = iota
	EventPageStarted
	EventPageDone
	EventPageError
	EventPageSkipped
	EventCrawlStarted
	EventCrawlFinished
)

// CrawlStats holds real-time crawl statistics.
type CrawlStats struct {
	PagesQueued  int           `json:"pages_queued"`
	PagesCrawled int           `json:"pages_crawled"`
	PagesErrored int           `json:"pages_errored"`
	PagesSkipped int           `json:"pages_skipped"`
	Elapsed      time.Duration `json:"elapsed"`
}
