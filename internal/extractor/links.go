package extractor

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/state"
)

// LinksExtractor extracts same-origin hyperlinks from a page.
type LinksExtractor struct{}

func NewLinksExtractor() *LinksExtractor { return &LinksExtractor{} }

func (e *LinksExtractor) Name() string { return "links" }

// Links returns one edge per same-origin anchor on the page.
func (e *LinksExtractor) Links(pc *PageContext) ([]state.LinkEdge, error) {
	doc, err := pc.Document()
	if err != nil {
		return nil, err
	}
	rendered, err := pc.RenderedURL()
	if err != nil {
		return nil, err
	}
	base, err := pc.BaseURL()
	if err != nil {
		return nil, err
	}
	return extractLinks(doc, pc.URL, base, rendered), nil
}

// ExtractLinks walks a[href] and keeps targets sharing scheme and host with
// base. Malformed and non-http hrefs are dropped; anchors are not deduplicated.
func ExtractLinks(doc *goquery.Document, base *url.URL) []state.LinkEdge {
	return extractLinks(doc, base.String(), base, base)
}

// extractLinks records edges from the page at from. Hrefs resolve against
// base and must share the origin of the rendered page.
func extractLinks(doc *goquery.Document, from string, base, origin *url.URL) []state.LinkEdge {
	edges := []state.LinkEdge{}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		resolved := resolveURL(base, strings.TrimSpace(href))
		if resolved == nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !sameOrigin(origin, resolved) {
			return
		}
		resolved.Fragment = ""

		edges = append(edges, state.LinkEdge{
			From:       from,
			To:         resolved.String(),
			AnchorText: strings.TrimSpace(s.Text()),
		})
	})

	return edges
}

// resolveURL resolves a potentially relative URL against a base URL.
func resolveURL(base *url.URL, raw string) *url.URL {
	if raw == "" {
		return nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	return base.ResolveReference(ref)
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}
