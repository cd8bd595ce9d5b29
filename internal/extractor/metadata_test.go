package extractor

import (
	"testing"

	"github.com/ramkansal/brandscan/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSEO(t *testing.T) {
	doc := parseDoc(t, `<html lang="en-GB"><head>
		<title> Acme – Brand tools </title>
		<meta name="description" content="Tools for brands.">
		<meta name="robots" content="index, follow">
		<meta property="og:title" content="Acme">
		<meta property="og:image" content="https://acme.test/og.png">
		<link rel="canonical" href="https://acme.test/">
	</head><body>
		<h1>Build your  brand</h1><h1>  </h1>
		<img src="a.png"><img src="b.png" alt=""><img src="c.png" alt="C">
	</body></html>`)

	assert.Equal(t, state.SEOSnapshot{
		Title:             "Acme – Brand tools",
		TitleLength:       18,
		Description:       "Tools for brands.",
		DescriptionLength: 17,
		Canonical:         "https://acme.test/",
		Robots:            "index, follow",
		Language:          "en-GB",
		H1:                []string{"Build your brand"},
		OGTitle:           "Acme",
		OGImage:           "https://acme.test/og.png",
		ImagesMissingAlt:  1,
	}, SEO(doc))
}

func TestSEOEmptyPage(t *testing.T) {
	snap := SEO(parseDoc(t, ``))
	assert.Equal(t, 0, snap.TitleLength)
	assert.NotNil(t, snap.H1)
	assert.Empty(t, snap.H1)
}

func TestMetadataExtractorStoresByURL(t *testing.T) {
	st := newState(t.TempDir())
	page := &fakePage{url: "https://acme.test/a", html: `<title>A</title>`}

	require.NoError(t, NewMetadataExtractor().Extract(newContext(page), st))
	assert.Equal(t, "A", st.SEO["https://acme.test/a"].Title)
}

func TestAccessibility(t *testing.T) {
	doc := parseDoc(t, `<html lang="en"><body>
		<header></header><nav></nav><main>
			<h1>Title</h1><h3>Skipped</h3><h4>Fine</h4><h2>Back up</h2><h4>Skipped again</h4>
			<img src="a.png"><img src="b.png" alt="">
			<label for="email">Email</label><input id="email">
			<label>Name <input name="name"></label>
			<input name="bare">
			<input type="hidden" name="token">
			<input type="submit" value="Send">
			<input aria-label="Search">
			<textarea></textarea>
			<button>Go</button>
			<button aria-label="Close"></button>
			<button><img src="m.png" alt="Menu"></button>
			<button></button>
			<div role="search"></div>
		</main><footer></footer>
	</body></html>`)

	assert.Equal(t, state.AccessibilitySnapshot{
		ImagesWithoutAlt:   1,
		InputsWithoutLabel: 2,
		ButtonsWithoutName: 1,
		HasLang:            true,
		LandmarkCount:      5,
		AriaAttributeCount: 3,
		HeadingLevelSkips:  2,
	}, Accessibility(doc))
}

func TestAccessibilityNoLang(t *testing.T) {
	snap := Accessibility(parseDoc(t, `<html lang=" "><body><p>x</p></body></html>`))
	assert.False(t, snap.HasLang)
	assert.Zero(t, snap.LandmarkCount)
}
