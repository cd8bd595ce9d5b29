package extractor

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/ramkansal/brandscan/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractLinks(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<a href="/a">  About  </a>
		<a href="https://example.com/b#team">B</a>
		<a href="http://example.com/c">other scheme</a>
		<a href="https://sub.example.com/">subdomain</a>
		<a href="javascript:void(0)">js</a>
		<a href="">empty href</a>
		<a href="http://[::1:bad">malformed</a>
		<a href="/a"><img src="x.png"></a>
		<a>no href</a>
	</body></html>`)
	base, _ := url.Parse("https://example.com/x")

	edges := ExtractLinks(doc, base)

	assert.Equal(t, []state.LinkEdge{
		{From: "https://example.com/x", To: "https://example.com/a", AnchorText: "About"},
		{From: "https://example.com/x", To: "https://example.com/b", AnchorText: "B"},
		{From: "https://example.com/x", To: "https://example.com/a", AnchorText: ""},
	}, edges)
}

func TestExtractLinksSameOriginOnly(t *testing.T) {
	doc := parseDoc(t, `<a href="https://EXAMPLE.com/upper">u</a>
		<a href="//cdn.example.com/lib.js">cdn</a>
		<a href="../up">up</a>
		<a href="https://example.com:8443/port">port</a>
		<a href="?q=1">query</a>`)
	base, _ := url.Parse("https://example.com/docs/page")

	edges := ExtractLinks(doc, base)
	require.NotEmpty(t, edges)
	for _, e := range edges {
		to, err := url.Parse(e.To)
		require.NoError(t, err)
		assert.True(t, sameOrigin(base, to), e.To)
		assert.Empty(t, to.Fragment)
	}
	assert.Len(t, edges, 3)
}

func TestExtractLinksNone(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	edges := ExtractLinks(parseDoc(t, `<p>nothing here</p>`), base)
	assert.NotNil(t, edges)
	assert.Empty(t, edges)
}

func TestLinksExtractorUsesPageURL(t *testing.T) {
	page := &fakePage{url: "https://example.com/blog/", html: `<a href="post-1">Post</a>`}

	edges, err := NewLinksExtractor().Links(newContext(page))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "https://example.com/blog/post-1", edges[0].To)
}

func TestExtractLinksDropsCrossOrigin(t *testing.T) {
	doc := parseDoc(t, `<a href="https://a.co/x">x</a><a href="https://other.com/y">y</a>`)
	base, _ := url.Parse("https://a.co/")

	assert.Equal(t, []state.LinkEdge{
		{From: "https://a.co/", To: "https://a.co/x", AnchorText: "x"},
	}, ExtractLinks(doc, base))
}

func TestLinksExtractorResolvesAgainstRenderedURL(t *testing.T) {
	page := &fakePage{url: "https://example.com/docs/", html: `<a href="intro">Intro</a>`}
	pc := NewPageContext(page, "https://example.com/docs", 0)

	edges, err := NewLinksExtractor().Links(pc)
	require.NoError(t, err)
	assert.Equal(t, []state.LinkEdge{
		{From: "https://example.com/docs", To: "https://example.com/docs/intro", AnchorText: "Intro"},
	}, edges)
}

func TestLinksExtractorFollowsHostRedirect(t *testing.T) {
	page := &fakePage{url: "https://www.a.co/", html: `<a href="https://www.a.co/next">n</a><a href="https://a.co/old">o</a>`}
	pc := NewPageContext(page, "https://a.co/", 0)

	edges, err := NewLinksExtractor().Links(pc)
	require.NoError(t, err)
	assert.Equal(t, []state.LinkEdge{
		{From: "https://a.co/", To: "https://www.a.co/next", AnchorText: "n"},
	}, edges)
}

func TestLinksExtractorHonoursBaseHref(t *testing.T) {
	page := &fakePage{url: "https://example.com/a/b", html: `<html><head><base href="/root/"></head>
		<body><a href="page">p</a></body></html>`}

	edges, err := NewLinksExtractor().Links(newContext(page))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "https://example.com/root/page", edges[0].To)
}

func TestPageContextRenderedURLFallback(t *testing.T) {
	pc := NewPageContext(&fakePage{url: "about:blank"}, "https://example.com/x", 0)

	u, err := pc.RenderedURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", u.String())

	base, err := pc.BaseURL()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", base.String())
}
