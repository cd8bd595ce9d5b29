package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ramkansal/brandscan/internal/state"
)

var pagesHeader = []string{"URL", "Title", "Type", "Headings", "Links", "Images", "Forms", "Screenshot", "Markdown"}

// WritePagesCSV writes one row per page record, header first.
func WritePagesCSV(path string, pages []state.PageRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(pagesHeader); err != nil {
		return err
	}
	for _, p := range pages {
		row := []string{
			p.URL,
			p.Title,
			string(p.Type),
			strconv.Itoa(p.ElementCounts.Headings),
			strconv.Itoa(p.ElementCounts.Links),
			strconv.Itoa(p.ElementCounts.Images),
			strconv.Itoa(p.ElementCounts.Forms),
			p.ScreenshotFile,
			p.MarkdownFile,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
