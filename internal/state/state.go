// Package state holds the aggregate built up over a single crawl run.
//
// One AggregateState is created per run and handed to the scheduler and
// extractors; nothing here is global. Mutations are not synchronized: the
// crawl drives one page at a time.
package state

import (
	"errors"
	"net/url"
	"sort"
	"time"
)

// ErrFinalized is returned when Finalize is called a second time.
var ErrFinalized = errors.New("aggregate state already finalized")

// PageType is the coarse classification of a visited page.
type PageType string

const (
	PageGeneral PageType = "general"
	PageForm    PageType = "form"
	PageArticle PageType = "article"
	PageProduct PageType = "product"
	PageBlog    PageType = "blog"
	PageContact PageType = "contact"
)

// ElementCounts tallies structural elements on a page.
type ElementCounts struct {
	Headings int `json:"headings"`
	Links    int `json:"links"`
	Images   int `json:"images"`
	Forms    int `json:"forms"`
}

// PageRecord is created once per successfully processed page.
type PageRecord struct {
	URL            string        `json:"url"`
	Title          string        `json:"title"`
	Type           PageType      `json:"type"`
	ElementCounts  ElementCounts `json:"elementCounts"`
	Timestamp      time.Time     `json:"timestamp"`
	ScreenshotFile string        `json:"screenshotFile,omitempty"`
	MarkdownFile   string        `json:"markdownFile,omitempty"`
}

// LinkEdge is one anchor found on a page. Edges are not deduplicated.
type LinkEdge struct {
	From       string `json:"from"`
	To         string `json:"to"`
	AnchorText string `json:"anchorText"`
}

// SiteMapEntry is one visited page under its domain.
type SiteMapEntry struct {
	Path  string `json:"path"`
	Title string `json:"title"`
}

// SEOSnapshot captures on-page search signals.
type SEOSnapshot struct {
	Title             string   `json:"title"`
	TitleLength       int      `json:"titleLength"`
	Description       string   `json:"description"`
	DescriptionLength int      `json:"descriptionLength"`
	Canonical         string   `json:"canonical,omitempty"`
	Robots            string   `json:"robots,omitempty"`
	Language          string   `json:"language,omitempty"`
	H1                []string `json:"h1"`
	OGTitle           string   `json:"ogTitle,omitempty"`
	OGImage           string   `json:"ogImage,omitempty"`
	ImagesMissingAlt  int      `json:"imagesMissingAlt"`
}

// PerformanceSnapshot captures navigation timing as seen by the browser.
type PerformanceSnapshot struct {
	DOMContentLoadedMs   float64 `json:"domContentLoadedMs"`
	LoadMs               float64 `json:"loadMs"`
	FirstContentfulPaint float64 `json:"firstContentfulPaintMs"`
	ResourceCount        int     `json:"resourceCount"`
	TransferSize         int64   `json:"transferSize"`
}

// AccessibilitySnapshot captures simple accessibility heuristics.
type AccessibilitySnapshot struct {
	ImagesWithoutAlt   int  `json:"imagesWithoutAlt"`
	InputsWithoutLabel int  `json:"inputsWithoutLabel"`
	ButtonsWithoutName int  `json:"buttonsWithoutName"`
	HasLang            bool `json:"hasLang"`
	LandmarkCount      int  `json:"landmarkCount"`
	AriaAttributeCount int  `json:"ariaAttributeCount"`
	HeadingLevelSkips  int  `json:"headingLevelSkips"`
}

// AggregateState is the single mutable store of a run.
type AggregateState struct {
	Pages         []PageRecord                     `json:"pages"`
	Links         []LinkEdge                       `json:"links"`
	SiteMap       map[string][]SiteMapEntry        `json:"siteMap"`
	BrandElements *BrandElements                   `json:"brandElements"`
	SEO           map[string]SEOSnapshot           `json:"seoData"`
	Performance   map[string]PerformanceSnapshot   `json:"performanceData"`
	Accessibility map[string]AccessibilitySnapshot `json:"accessibilityData"`
	ReportDir     string                           `json:"reportDir"`

	finalized bool
}

// New creates an empty state rooted at reportDir.
func New(reportDir string) *AggregateState {
	return &AggregateState{
		Pages:         []PageRecord{},
		Links:         []LinkEdge{},
		SiteMap:       make(map[string][]SiteMapEntry),
		BrandElements: NewBrandElements(),
		SEO:           make(map[string]SEOSnapshot),
		Performance:   make(map[string]PerformanceSnapshot),
		Accessibility: make(map[string]AccessibilitySnapshot),
		ReportDir:     reportDir,
	}
}

// AddPage appends a page record.
func (s *AggregateState) AddPage(rec PageRecord) {
	s.Pages = append(s.Pages, rec)
}

// AddLinks appends discovered edges.
func (s *AggregateState) AddLinks(edges []LinkEdge) {
	s.Links = append(s.Links, edges...)
}

// AddToSiteMap files a visited page under its host.
func (s *AggregateState) AddToSiteMap(pageURL, title string) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	s.SiteMap[u.Host] = append(s.SiteMap[u.Host], SiteMapEntry{Path: path, Title: title})
}

// SetPageType updates the type of an already recorded page.
func (s *AggregateState) SetPageType(pageURL string, t PageType) {
	for i := len(s.Pages) - 1; i >= 0; i-- {
		if s.Pages[i].URL == pageURL {
			s.Pages[i].Type = t
			return
		}
	}
}

// Domains returns the distinct hosts in the site map, sorted.
func (s *AggregateState) Domains() []string {
	out := make([]string, 0, len(s.SiteMap))
	for d := range s.SiteMap {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// PageTypeCounts tallies pages by type.
func (s *AggregateState) PageTypeCounts() map[PageType]int {
	out := make(map[PageType]int)
	for _, p := range s.Pages {
		out[p.Type]++
	}
	return out
}

// Finalize trims keyword and bigram tables to their topN entries. It is a
// one-way step and may only run once per state.
func (s *AggregateState) Finalize(topN int) error {
	if s.finalized {
		return ErrFinalized
	}
	s.finalized = true
	ta := &s.BrandElements.TextAnalysis
	ta.KeywordFrequencies = ta.KeywordFrequencies.Top(topN)
	ta.BigramFrequencies = ta.BigramFrequencies.Top(topN)
	return nil
}

// Finalized reports whether Finalize has run.
func (s *AggregateState) Finalized() bool { return s.finalized }
