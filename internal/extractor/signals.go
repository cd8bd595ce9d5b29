package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/state"
)

// CountElements tallies headings, links, images and forms.
func CountElements(doc *goquery.Document) state.ElementCounts {
	return state.ElementCounts{
		Headings: doc.Find("h1, h2, h3, h4, h5, h6").Length(),
		Links:    doc.Find("a[href]").Length(),
		Images:   doc.Find("img").Length(),
		Forms:    doc.Find("form").Length(),
	}
}

// Classify assigns a page type. The first matching rule wins: contact,
// product, blog, article, form, general.
func Classify(pageURL, title string, doc *goquery.Document) state.PageType {
	path := strings.ToLower(pageURL)
	if u, err := url.Parse(pageURL); err == nil {
		path = strings.ToLower(u.Path)
	}
	title = strings.ToLower(title)

	switch {
	case strings.Contains(path, "contact") || strings.Contains(title, "contact"):
		return state.PageContact
	case strings.Contains(path, "product") || strings.Contains(path, "shop") || hasProductSchema(doc):
		return state.PageProduct
	case strings.Contains(path, "blog"):
		return state.PageBlog
	case doc != nil && doc.Find("article").Length() > 0:
		return state.PageArticle
	case doc != nil && doc.Find("form").Length() > 0:
		return state.PageForm
	}
	return state.PageGeneral
}

func hasProductSchema(doc *goquery.Document) bool {
	if doc == nil {
		return false
	}
	if doc.Find(`[itemtype*="schema.org/Product"]`).Length() > 0 {
		return true
	}
	found := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, `"@type":"Product"`) || strings.Contains(text, `"@type": "Product"`) {
			found = true
		}
		return !found
	})
	return found
}

// PageTypeClassifier sets the type of the page recorded for pc.URL.
type PageTypeClassifier struct{}

func NewPageTypeClassifier() *PageTypeClassifier { return &PageTypeClassifier{} }

func (c *PageTypeClassifier) Name() string { return "pagetype" }

func (c *PageTypeClassifier) Extract(pc *PageContext, st *state.AggregateState) error {
	doc, err := pc.Document()
	if err != nil {
		return err
	}
	st.SetPageType(pc.URL, Classify(pc.URL, pc.Title(), doc))
	return nil
}

const perfProbeJS = `() => {
	const nav = performance.getEntriesByType('navigation')[0];
	const paint = performance.getEntriesByName('first-contentful-paint')[0];
	const resources = performance.getEntriesByType('resource');
	let transfer = nav ? (nav.transferSize || 0) : 0;
	for (const r of resources) transfer += r.transferSize || 0;
	return {
		domContentLoadedMs: nav ? nav.domContentLoadedEventEnd - nav.startTime : 0,
		loadMs: nav ? nav.loadEventEnd - nav.startTime : 0,
		firstContentfulPaintMs: paint ? paint.startTime : 0,
		resourceCount: resources.length,
		transferSize: transfer,
	};
}`

// PerformanceExtractor records navigation timing reported by the browser.
type PerformanceExtractor struct{}

func NewPerformanceExtractor() *PerformanceExtractor { return &PerformanceExtractor{} }

func (p *PerformanceExtractor) Name() string { return "performance" }

func (p *PerformanceExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	var snap state.PerformanceSnapshot
	if err := pc.Page.Evaluate(perfProbeJS, &snap); err != nil {
		return err
	}
	st.Performance[pc.URL] = snap
	return nil
}
