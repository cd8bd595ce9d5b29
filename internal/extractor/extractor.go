package extractor

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/config"
	"github.com/ramkansal/brandscan/internal/fetcher"
	"github.com/ramkansal/brandscan/internal/state"
	"github.com/ramkansal/brandscan/pkg/plugin"
)

// Extractor contributes one page's signals to the aggregate state.
type Extractor interface {
	// Name returns a human-readable identifier (e.g., "brand", "text").
	Name() string

	// Extract reads the rendered page and writes into st.
	Extract(pc *PageContext, st *state.AggregateState) error
}

// AssetFetcher downloads page resources such as logo images.
type AssetFetcher interface {
	Fetch(url string) (*fetcher.Asset, error)
}

// Error ties an extractor failure to the extractor that produced it.
type Error struct {
	Extractor string
	Err       error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Extractor, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// PageContext carries one rendered page through the pipeline.
type PageContext struct {
	Page  plugin.Page
	URL   string
	Depth int

	// Set by the artifact writer, relative to the report dir.
	ScreenshotFile string
	MarkdownFile   string

	doc *goquery.Document
}

// NewPageContext wraps a rendered page.
func NewPageContext(page plugin.Page, pageURL string, depth int) *PageContext {
	return &PageContext{Page: page, URL: pageURL, Depth: depth}
}

// Document parses the rendered HTML once and caches it.
func (pc *PageContext) Document() (*goquery.Document, error) {
	if pc.doc != nil {
		return pc.doc, nil
	}
	html, err := pc.Page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read rendered html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered html: %w", err)
	}
	pc.doc = doc
	return doc, nil
}

// RenderedURL returns the URL the page ended up at after redirects. It falls
// back to the requested URL when the browser reports nothing usable.
func (pc *PageContext) RenderedURL() (*url.URL, error) {
	if u, err := url.Parse(pc.Page.URL()); err == nil && isWebURL(u) {
		return u, nil
	}
	return url.Parse(pc.URL)
}

// BaseURL returns the URL relative references resolve against: the document's
// <base href> when it holds a usable http(s) URL, otherwise the rendered URL.
func (pc *PageContext) BaseURL() (*url.URL, error) {
	rendered, err := pc.RenderedURL()
	if err != nil {
		return nil, err
	}
	doc, err := pc.Document()
	if err != nil {
		return rendered, nil
	}
	href, ok := doc.Find("base[href]").First().Attr("href")
	if !ok {
		return rendered, nil
	}
	if base := resolveURL(rendered, strings.TrimSpace(href)); base != nil && isWebURL(base) {
		return base, nil
	}
	return rendered, nil
}

func isWebURL(u *url.URL) bool {
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Title returns the document title, or "" when the page can't be parsed.
func (pc *PageContext) Title() string {
	doc, err := pc.Document()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// Registry holds the extractors run on every page, split around the point
// where the scheduler records the page.
type Registry struct {
	before []Extractor
	after  []Extractor
	links  *LinksExtractor
}

// NewRegistry creates a registry with the built-in extractors enabled by cfg.
func NewRegistry(cfg config.Config, assets AssetFetcher) *Registry {
	r := &Registry{links: NewLinksExtractor()}

	if cfg.EnableScreenshots || cfg.EnableMarkdownSnapshot {
		r.before = append(r.before, NewArtifactWriter(cfg.EnableScreenshots, cfg.EnableMarkdownSnapshot))
	}
	if cfg.EnableBrandAnalysis {
		r.before = append(r.before, NewBrandExtractor())
		if assets != nil {
			r.before = append(r.before, NewLogoExtractor(assets, time.Now))
		}
		r.before = append(r.before, NewSocialExtractor())
	}
	if cfg.EnableElementScreenshots && len(cfg.ElementCaptureSelectors) > 0 {
		r.before = append(r.before, NewElementCapturer(cfg.ElementCaptureSelectors))
	}
	if cfg.EnableTextAnalysis {
		r.before = append(r.before, NewTextAnalyzer(cfg.StopWords, cfg.CTAPhrases))
	}

	r.after = []Extractor{
		NewPageTypeClassifier(),
		NewMetadataExtractor(),
		NewPerformanceExtractor(),
		NewAccessibilityExtractor(),
	}
	return r
}

// RegisterBefore adds a custom extractor that runs before the page is recorded.
func (r *Registry) RegisterBefore(ext Extractor) {
	r.before = append(r.before, ext)
}

// RegisterAfter adds a custom extractor that runs after the page is recorded.
func (r *Registry) RegisterAfter(ext Extractor) {
	r.after = append(r.after, ext)
}

// RunBefore runs the pre-record extractors in order.
func (r *Registry) RunBefore(pc *PageContext, st *state.AggregateState) []error {
	return runAll(r.before, pc, st)
}

// RunAfter runs the post-record extractors in order.
func (r *Registry) RunAfter(pc *PageContext, st *state.AggregateState) []error {
	return runAll(r.after, pc, st)
}

// Links returns the same-origin links of the page.
func (r *Registry) Links(pc *PageContext) ([]state.LinkEdge, error) {
	edges, err := r.links.Links(pc)
	if err != nil {
		return nil, &Error{Extractor: r.links.Name(), Err: err}
	}
	return edges, nil
}

// Names returns the names of all registered extractors in run order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.before)+len(r.after)+1)
	for _, ext := range r.before {
		names = append(names, ext.Name())
	}
	names = append(names, r.links.Name())
	for _, ext := range r.after {
		names = append(names, ext.Name())
	}
	return names
}

func runAll(exts []Extractor, pc *PageContext, st *state.AggregateState) []error {
	var errs []error
	for _, ext := range exts {
		if err := ext.Extract(pc, st); err != nil {
			// keep going, other extractors should still run
			errs = append(errs, &Error{Extractor: ext.Name(), Err: err})
		}
	}
	return errs
}
