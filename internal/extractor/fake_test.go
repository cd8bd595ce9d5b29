package extractor

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramkansal/brandscan/internal/fetcher"
	"github.com/ramkansal/brandscan/internal/state"
	"github.com/ramkansal/brandscan/pkg/plugin"
)

// fakePage answers probes with canned JSON keyed by the probe script.
type fakePage struct {
	url        string
	html       string
	evals      map[string]string
	elements   map[string][]plugin.Element
	screenshot []byte
	shotErr    error
}

func (p *fakePage) URL() string           { return p.url }
func (p *fakePage) HTML() (string, error) { return p.html, nil }

func (p *fakePage) Evaluate(js string, out interface{}) error {
	raw, ok := p.evals[js]
	if !ok {
		return errors.New("probe not stubbed")
	}
	return json.Unmarshal([]byte(raw), out)
}

func (p *fakePage) Screenshot() ([]byte, error) {
	if p.shotErr != nil {
		return nil, p.shotErr
	}
	return p.screenshot, nil
}

func (p *fakePage) FindAll(selector string) ([]plugin.Element, error) {
	return p.elements[selector], nil
}

func (p *fakePage) Close() error { return nil }

type fakeElement struct {
	visible bool
	box     *plugin.Box
	png     []byte
}

func (e *fakeElement) Visible() (bool, error)            { return e.visible, nil }
func (e *fakeElement) BoundingBox() (*plugin.Box, error) { return e.box, nil }
func (e *fakeElement) Screenshot() ([]byte, error)       { return e.png, nil }

func shownElement(n int) *fakeElement {
	return &fakeElement{
		visible: true,
		box:     &plugin.Box{Width: 100, Height: 40},
		png:     []byte(fmt.Sprintf("png-%d", n)),
	}
}

// fakeAssets serves bodies by URL and counts fetches.
type fakeAssets struct {
	bodies map[string]string
	calls  map[string]int
}

func (f *fakeAssets) Fetch(u string) (*fetcher.Asset, error) {
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[u]++
	body, ok := f.bodies[u]
	if !ok {
		return nil, errors.New("not found")
	}
	return &fetcher.Asset{URL: u, StatusCode: 200, ContentType: "image/png", Body: []byte(body)}, nil
}

func newContext(page *fakePage) *PageContext {
	return NewPageContext(page, page.url, 0)
}

func fixedClock() func() time.Time {
	n := int64(0)
	return func() time.Time {
		n++
		return time.Unix(0, 1700000000000000000+n)
	}
}

func newState(dir string) *state.AggregateState { return state.New(dir) }
