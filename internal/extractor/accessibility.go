package extractor

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/state"
)

// AccessibilityExtractor records simple accessibility heuristics.
type AccessibilityExtractor struct{}

func NewAccessibilityExtractor() *AccessibilityExtractor { return &AccessibilityExtractor{} }

func (a *AccessibilityExtractor) Name() string { return "accessibility" }

func (a *AccessibilityExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	doc, err := pc.Document()
	if err != nil {
		return err
	}
	st.Accessibility[pc.URL] = Accessibility(doc)
	return nil
}

const landmarkSelector = `header, nav, main, footer, aside, [role="banner"], [role="navigation"], [role="main"], [role="contentinfo"], [role="complementary"], [role="search"]`

// Accessibility builds the accessibility snapshot of a parsed page.
func Accessibility(doc *goquery.Document) state.AccessibilitySnapshot {
	lang, _ := doc.Find("html").First().Attr("lang")
	snap := state.AccessibilitySnapshot{
		ImagesWithoutAlt: imagesWithoutAlt(doc),
		HasLang:          strings.TrimSpace(lang) != "",
		LandmarkCount:    doc.Find(landmarkSelector).Length(),
	}

	labelled := make(map[string]bool)
	doc.Find("label[for]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("for")
		labelled[id] = true
	})
	doc.Find("input, select, textarea").Each(func(_ int, s *goquery.Selection) {
		if t, _ := s.Attr("type"); isUnlabelledType(t) {
			return
		}
		if !hasInputLabel(s, labelled) {
			snap.InputsWithoutLabel++
		}
	})

	doc.Find(`button, [role="button"]`).Each(func(_ int, s *goquery.Selection) {
		if !hasAccessibleName(s) {
			snap.ButtonsWithoutName++
		}
	})

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range s.Nodes[0].Attr {
			if strings.HasPrefix(attr.Key, "aria-") || attr.Key == "role" {
				snap.AriaAttributeCount++
			}
		}
	})

	snap.HeadingLevelSkips = headingSkips(doc)
	return snap
}

func isUnlabelledType(t string) bool {
	switch strings.ToLower(t) {
	case "hidden", "submit", "button", "reset", "image":
		return true
	}
	return false
}

func hasInputLabel(s *goquery.Selection, labelled map[string]bool) bool {
	if id, ok := s.Attr("id"); ok && labelled[id] {
		return true
	}
	if s.ParentsFiltered("label").Length() > 0 {
		return true
	}
	for _, attr := range []string{"aria-label", "aria-labelledby", "title"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func hasAccessibleName(s *goquery.Selection) bool {
	if strings.TrimSpace(s.Text()) != "" {
		return true
	}
	for _, attr := range []string{"aria-label", "aria-labelledby", "title"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return true
		}
	}
	alt := false
	s.Find("img[alt]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		v, _ := img.Attr("alt")
		alt = strings.TrimSpace(v) != ""
		return !alt
	})
	return alt
}

// headingSkips counts places where the heading level jumps by more than one
// going deeper, e.g. h1 followed by h3.
func headingSkips(doc *goquery.Document) int {
	skips, prev := 0, 0
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		level, err := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		if err != nil {
			return
		}
		if prev > 0 && level > prev+1 {
			skips++
		}
		prev = level
	})
	return skips
}
