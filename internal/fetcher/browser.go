package fetcher

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ramkansal/brandscan/pkg/plugin"
)

// BrowserFetcher uses Rod (headless Chrome) to render pages.
type BrowserFetcher struct {
	browser   *rod.Browser
	userAgent string
}

// BrowserFetcherConfig holds configuration for the browser fetcher.
type BrowserFetcherConfig struct {
	UserAgent string
	Headless  bool
	// ControlURL connects to an already running browser instead of
	// launching one.
	ControlURL string
}

// NewBrowserFetcher launches (or connects to) Chrome.
func NewBrowserFetcher(cfg BrowserFetcherConfig) (*BrowserFetcher, error) {
	u := cfg.ControlURL
	if u == "" {
		var err error
		u, err = launcher.New().
			Headless(cfg.Headless).
			Set("no-sandbox").
			Set("disable-gpu").
			Set("disable-dev-shm-usage").
			Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &BrowserFetcher{
		browser:   browser,
		userAgent: cfg.UserAgent,
	}, nil
}

func (f *BrowserFetcher) Name() string { return "rod" }

// Navigate opens a fresh tab and loads targetURL. Only the navigation and
// the load event are bounded by timeout; the returned page is not.
func (f *BrowserFetcher) Navigate(targetURL string, timeout time.Duration) (plugin.Page, error) {
	page, err := f.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}

	if f.userAgent != "" {
		_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: f.userAgent,
		})
	}

	bounded := page.Timeout(timeout)
	err = bounded.Navigate(targetURL)
	if err == nil {
		err = bounded.WaitLoad()
	}
	bounded.CancelTimeout()
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("navigate %s: %w", targetURL, err)
	}

	return &browserPage{page: page, url: targetURL}, nil
}

func (f *BrowserFetcher) Close() error {
	if f.browser != nil {
		return f.browser.Close()
	}
	return nil
}

// browserPage adapts a rod page to plugin.Page.
type browserPage struct {
	page *rod.Page
	url  string
}

func (p *browserPage) URL() string {
	info, err := p.page.Info()
	if err != nil || info.URL == "" {
		return p.url
	}
	return info.URL
}

func (p *browserPage) HTML() (string, error) {
	return p.page.HTML()
}

func (p *browserPage) Evaluate(js string, out interface{}) error {
	res, err := p.page.Eval(js)
	if err != nil {
		return err
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (p *browserPage) Screenshot() ([]byte, error) {
	return p.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}

func (p *browserPage) FindAll(selector string) ([]plugin.Element, error) {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]plugin.Element, 0, len(els))
	for _, el := range els {
		out = append(out, &browserElement{el: el})
	}
	return out, nil
}

func (p *browserPage) Close() error {
	return p.page.Close()
}

// browserElement adapts a rod element to plugin.Element.
type browserElement struct {
	el *rod.Element
}

func (e *browserElement) Visible() (bool, error) {
	return e.el.Visible()
}

func (e *browserElement) BoundingBox() (*plugin.Box, error) {
	shape, err := e.el.Shape()
	if err != nil {
		return nil, err
	}
	box := shape.Box()
	if box == nil {
		return nil, nil
	}
	return &plugin.Box{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}

func (e *browserElement) Screenshot() ([]byte, error) {
	return e.el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
}
