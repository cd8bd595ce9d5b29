package extractor

import (
	"errors"
	"fmt"

	"github.com/ramkansal/brandscan/internal/config"
	"github.com/ramkansal/brandscan/internal/state"
)

// maxElementCaptures bounds the images taken per selector per page.
const maxElementCaptures = 5

// ElementCapturer screenshots visible matches of configured selectors.
type ElementCapturer struct {
	selectors []config.SelectorSpec
}

func NewElementCapturer(selectors []config.SelectorSpec) *ElementCapturer {
	return &ElementCapturer{selectors: selectors}
}

func (e *ElementCapturer) Name() string { return "elements" }

// Extract captures up to maxElementCaptures visible, non-empty matches per
// selector. Selectors that capture nothing are left out of the page's map.
func (e *ElementCapturer) Extract(pc *PageContext, st *state.AggregateState) error {
	dir := "element-screenshots/" + PathName(pc.URL)

	var errs []error
	for _, spec := range e.selectors {
		els, err := pc.Page.FindAll(spec.Selector)
		if err != nil {
			errs = append(errs, fmt.Errorf("selector %s: %w", spec.Name, err))
			continue
		}

		name := sanitize(spec.Name)
		var paths []string
		for _, el := range els {
			if len(paths) >= maxElementCaptures {
				break
			}
			if visible, err := el.Visible(); err != nil || !visible {
				continue
			}
			if box, err := el.BoundingBox(); err != nil || box.Empty() {
				continue
			}
			png, err := el.Screenshot()
			if err != nil {
				errs = append(errs, fmt.Errorf("selector %s: %w", spec.Name, err))
				continue
			}
			rel := fmt.Sprintf("%s/%s/%s-%d.png", dir, name, name, len(paths)+1)
			rel, err = writeArtifact(st.ReportDir, rel, png)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			paths = append(paths, rel)
		}

		if len(paths) > 0 {
			st.BrandElements.SetElementScreenshots(pc.URL, spec.Name, paths)
		}
	}
	return errors.Join(errs...)
}
