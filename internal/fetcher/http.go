package fetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

// HTTPFetcher uses Colly for plain HTTP downloads of page assets such as
// logo images and robots.txt.
type HTTPFetcher struct {
	collector *colly.Collector
}

// HTTPFetcherConfig holds configuration for the HTTP fetcher.
type HTTPFetcherConfig struct {
	UserAgent       string
	Timeout         time.Duration
	MaxResponseSize int
}

// Asset is a downloaded resource.
type Asset struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewHTTPFetcher creates a new Colly-based HTTP fetcher.
func NewHTTPFetcher(cfg HTTPFetcherConfig) *HTTPFetcher {
	c := colly.NewCollector(
		colly.Async(false),
		colly.AllowURLRevisit(),
	)
	c.IgnoreRobotsTxt = true

	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	if cfg.MaxResponseSize > 0 {
		c.MaxBodySize = cfg.MaxResponseSize
	}

	return &HTTPFetcher{collector: c}
}

func (f *HTTPFetcher) Name() string { return "http" }

// Fetch downloads rawURL. Non-2xx responses are returned as errors.
func (f *HTTPFetcher) Fetch(rawURL string) (*Asset, error) {
	// Clone the collector for this individual fetch so we get clean callbacks
	c := f.collector.Clone()

	asset := &Asset{URL: rawURL}
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		asset.StatusCode = r.StatusCode
		asset.ContentType = r.Headers.Get("Content-Type")
		asset.Body = r.Body
		asset.URL = r.Request.URL.String()
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			asset.StatusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := c.Visit(rawURL); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
	}
	return asset, nil
}
