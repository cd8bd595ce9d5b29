package extractor

import (
	"testing"

	"github.com/ramkansal/brandscan/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		title string
		html  string
		want  state.PageType
	}{
		{"contact url", "https://x.test/contact-us", "", "", state.PageContact},
		{"contact title", "https://x.test/", "Contact Us", "", state.PageContact},
		{"contact beats blog", "https://x.test/blog/contact", "", "", state.PageContact},
		{"product url", "https://x.test/products/1", "", "", state.PageProduct},
		{"shop url", "https://x.test/shop", "", "", state.PageProduct},
		{"product microdata", "https://x.test/item", "", `<div itemscope itemtype="https://schema.org/Product"></div>`, state.PageProduct},
		{"product json-ld", "https://x.test/item", "", `<script type="application/ld+json">{"@type": "Product", "name": "Mug"}</script>`, state.PageProduct},
		{"blog url", "https://x.test/blog/post", "", `<form></form>`, state.PageBlog},
		{"article element", "https://x.test/news", "", `<article>story</article><form></form>`, state.PageArticle},
		{"form", "https://x.test/signup", "", `<form><input></form>`, state.PageForm},
		{"general", "https://x.test/", "Home", `<p>hi</p>`, state.PageGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseDoc(t, tt.html)
			assert.Equal(t, tt.want, Classify(tt.url, tt.title, doc))
		})
	}
}

func TestCountElements(t *testing.T) {
	doc := parseDoc(t, `<h1>a</h1><h3>b</h3><h6>c</h6>
		<a href="/x">x</a><a name="anchor">no href</a><a href="">empty</a>
		<img src="a.png"><img>
		<form></form>`)

	assert.Equal(t, state.ElementCounts{Headings: 3, Links: 2, Images: 2, Forms: 1}, CountElements(doc))
}

func TestPageTypeClassifierUpdatesRecord(t *testing.T) {
	st := newState(t.TempDir())
	st.AddPage(state.PageRecord{URL: "https://x.test/shop/mugs", Type: state.PageGeneral})
	page := &fakePage{url: "https://x.test/shop/mugs", html: `<title>Mugs</title>`}

	require.NoError(t, NewPageTypeClassifier().Extract(newContext(page), st))
	assert.Equal(t, state.PageProduct, st.Pages[0].Type)
}

func TestPerformanceExtractor(t *testing.T) {
	st := newState(t.TempDir())
	page := &fakePage{url: "https://x.test/", evals: map[string]string{
		perfProbeJS: `{"domContentLoadedMs":120.5,"loadMs":300,"firstContentfulPaintMs":90.25,"resourceCount":12,"transferSize":45678}`,
	}}

	require.NoError(t, NewPerformanceExtractor().Extract(newContext(page), st))
	assert.Equal(t, state.PerformanceSnapshot{
		DOMContentLoadedMs:   120.5,
		LoadMs:               300,
		FirstContentfulPaint: 90.25,
		ResourceCount:        12,
		TransferSize:         45678,
	}, st.Performance["https://x.test/"])
}

func TestPerformanceExtractorProbeFailure(t *testing.T) {
	st := newState(t.TempDir())
	err := NewPerformanceExtractor().Extract(newContext(&fakePage{url: "https://x.test/"}), st)
	assert.Error(t, err)
	assert.NotContains(t, st.Performance, "https://x.test/")
}
