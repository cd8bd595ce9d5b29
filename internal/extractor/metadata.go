package extractor

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/state"
)

// MetadataExtractor records on-page SEO signals.
type MetadataExtractor struct{}

func NewMetadataExtractor() *MetadataExtractor { return &MetadataExtractor{} }

func (m *MetadataExtractor) Name() string { return "seo" }

func (m *MetadataExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	doc, err := pc.Document()
	if err != nil {
		return err
	}
	st.SEO[pc.URL] = SEO(doc)
	return nil
}

// SEO builds the search snapshot of a parsed page.
func SEO(doc *goquery.Document) state.SEOSnapshot {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	description := metaContent(doc, `meta[name="description"]`)

	snap := state.SEOSnapshot{
		Title:             title,
		TitleLength:       utf8.RuneCountInString(title),
		Description:       description,
		DescriptionLength: utf8.RuneCountInString(description),
		Robots:            metaContent(doc, `meta[name="robots"]`),
		OGTitle:           metaContent(doc, `meta[property="og:title"]`),
		OGImage:           metaContent(doc, `meta[property="og:image"]`),
		H1:                []string{},
	}
	snap.Canonical, _ = doc.Find(`link[rel="canonical"]`).First().Attr("href")
	snap.Language, _ = doc.Find("html").First().Attr("lang")
	snap.Language = strings.TrimSpace(snap.Language)

	doc.Find("h1").Each(func(_ int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			snap.H1 = append(snap.H1, text)
		}
	})
	snap.ImagesMissingAlt = imagesWithoutAlt(doc)
	return snap
}

func metaContent(doc *goquery.Document, selector string) string {
	v, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(v)
}

// imagesWithoutAlt counts img elements with no alt attribute. An empty alt
// marks a decorative image and is accepted.
func imagesWithoutAlt(doc *goquery.Document) int {
	return doc.Find("img").FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, ok := s.Attr("alt")
		return !ok
	}).Length()
}
