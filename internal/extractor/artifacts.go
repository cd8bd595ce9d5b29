package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/markdown"
	"github.com/ramkansal/brandscan/internal/state"
)

// ArtifactWriter persists a full-page screenshot and a Markdown snapshot.
type ArtifactWriter struct {
	screenshots bool
	markdown    bool
}

func NewArtifactWriter(screenshots, markdown bool) *ArtifactWriter {
	return &ArtifactWriter{screenshots: screenshots, markdown: markdown}
}

func (w *ArtifactWriter) Name() string { return "artifacts" }

// Extract writes the enabled artifacts and records their paths on pc. A
// failing artifact leaves its path empty.
func (w *ArtifactWriter) Extract(pc *PageContext, st *state.AggregateState) error {
	base := HostPathName(pc.URL)
	var errs []error

	if w.screenshots {
		if rel, err := w.writeScreenshot(pc, st.ReportDir, base); err != nil {
			errs = append(errs, fmt.Errorf("screenshot: %w", err))
		} else {
			pc.ScreenshotFile = rel
		}
	}

	if w.markdown {
		if rel, err := w.writeMarkdown(pc, st.ReportDir, base); err != nil {
			errs = append(errs, fmt.Errorf("markdown: %w", err))
		} else {
			pc.MarkdownFile = rel
		}
	}

	return errors.Join(errs...)
}

func (w *ArtifactWriter) writeScreenshot(pc *PageContext, reportDir, base string) (string, error) {
	png, err := pc.Page.Screenshot()
	if err != nil {
		return "", err
	}
	return writeArtifact(reportDir, "screenshots/"+base+".png", png)
}

func (w *ArtifactWriter) writeMarkdown(pc *PageContext, reportDir, base string) (string, error) {
	doc, err := pc.Document()
	if err != nil {
		return "", err
	}
	data, err := RenderMarkdown(pc.URL, doc)
	if err != nil {
		return "", err
	}
	return writeArtifact(reportDir, "markdown/"+base+".md", data)
}

// RenderMarkdown builds the content snapshot of a page: title, source,
// description, flattened heading outline and main text.
func RenderMarkdown(pageURL string, doc *goquery.Document) ([]byte, error) {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = pageURL
	}
	description, _ := doc.Find(`meta[name="description"]`).Attr("content")

	var buf bytes.Buffer
	md := markdown.NewMarkdown(&buf)
	md.H1(title)
	md.PlainText("Source: " + pageURL)
	md.PlainText("")

	if d := strings.TrimSpace(description); d != "" {
		md.H2("Description")
		md.PlainText(d)
		md.PlainText("")
	}

	if outline := headingOutline(doc); len(outline) > 0 {
		md.H2("Outline")
		md.BulletList(outline...)
		md.PlainText("")
	}

	if content := mainContent(doc); content != "" {
		md.H2("Content")
		md.PlainText(content)
	}

	if err := md.Build(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// headingOutline lists h1-h6 in document order as "H<n>: text".
func headingOutline(doc *goquery.Document) []string {
	var outline []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		text := collapse(s.Text())
		if text == "" {
			return
		}
		outline = append(outline, strings.ToUpper(goquery.NodeName(s))+": "+text)
	})
	return outline
}

var contentContainers = []string{"main", "article", `[role="main"]`, "#content", ".content", "body"}

// mainContent returns the text of the first non-empty primary container,
// paragraph by paragraph, falling back to the whole body.
const contentBlocks = "h1, h2, h3, h4, h5, h6, p, li, blockquote, pre"

func mainContent(doc *goquery.Document) string {
	for _, sel := range contentContainers {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}
		container = container.Clone()
		container.Find("script, style, noscript, template, svg").Remove()

		var blocks []string
		container.Find(contentBlocks).Each(func(_ int, s *goquery.Selection) {
			// nested blocks are already covered by their outermost block
			if s.ParentsFiltered(contentBlocks).Length() > 0 {
				return
			}
			if text := collapse(s.Text()); text != "" {
				blocks = append(blocks, text)
			}
		})
		if len(blocks) == 0 {
			if text := collapse(container.Text()); text != "" {
				blocks = append(blocks, text)
			}
		}
		if len(blocks) > 0 {
			return strings.Join(blocks, "\n\n")
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
