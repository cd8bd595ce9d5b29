package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ramkansal/brandscan/internal/state"
)

// pageTypeOrder is the display order of the type breakdown.
var pageTypeOrder = []state.PageType{
	state.PageContact, state.PageProduct, state.PageBlog,
	state.PageArticle, state.PageForm, state.PageGeneral,
}

// WriteSummary prints a plain-text digest of a finished run, without ANSI
// color codes.
func WriteSummary(w io.Writer, rep *Report, elapsed time.Duration) error {
	var b strings.Builder

	b.WriteString("\n  BRANDSCAN\n")
	b.WriteString("  " + strings.Repeat("-", 58) + "\n\n")
	b.WriteString(fmt.Sprintf("  Target: %s\n", rep.BaseURL))
	b.WriteString(fmt.Sprintf("  Run:    %s\n", rep.RunID))
	if rep.Data != nil {
		b.WriteString(fmt.Sprintf("  Report: %s\n", rep.Data.ReportDir))
	}
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("    Pages:   %d crawled on %d domain(s) in %s\n",
		rep.Summary.TotalPages, rep.Summary.TotalDomains, fmtDur(elapsed)))

	if types := typeCounts(rep.Summary.PageTypes); types != "" {
		b.WriteString("    Types:   " + types + "\n")
	}

	if be := rep.BrandAnalysis; be != nil {
		b.WriteString(fmt.Sprintf("    Brand:   %d colors, %d fonts, %d logos\n",
			be.Colors.Len(), be.Fonts.Len(), be.Logos.Len()))

		top := be.TextAnalysis.KeywordFrequencies.Top(5).Ranked()
		if len(top) > 0 {
			parts := make([]string, 0, len(top))
			for _, e := range top {
				parts = append(parts, fmt.Sprintf("%s:%d", e.Key, e.Count))
			}
			b.WriteString("    Words:   " + strings.Join(parts, ", ") + "\n")
		}
		if n := be.TextAnalysis.CTATexts.Len(); n > 0 {
			b.WriteString(fmt.Sprintf("    CTAs:    %d\n", n))
		}
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func typeCounts(counts map[state.PageType]int) string {
	var parts []string
	for _, t := range pageTypeOrder {
		if c := counts[t]; c > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", t, c))
		}
	}
	return strings.Join(parts, ", ")
}

func fmtDur(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", m, s)
}
