package extractor

import (
	"errors"
	"testing"

	"github.com/ramkansal/brandscan/internal/config"
	"github.com/ramkansal/brandscan/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	name string
	err  error
	runs *[]string
}

func (s *stubExtractor) Name() string { return s.name }

func (s *stubExtractor) Extract(pc *PageContext, st *state.AggregateState) error {
	*s.runs = append(*s.runs, s.name)
	return s.err
}

func TestNewRegistryOrder(t *testing.T) {
	r := NewRegistry(config.Default(), &fakeAssets{})
	assert.Equal(t, []string{
		"artifacts", "brand", "logos", "social", "elements", "text",
		"links",
		"pagetype", "seo", "performance", "accessibility",
	}, r.Names())
}

func TestNewRegistryHonorsToggles(t *testing.T) {
	cfg := config.Default()
	cfg.EnableScreenshots = false
	cfg.EnableMarkdownSnapshot = false
	cfg.EnableBrandAnalysis = false
	cfg.EnableElementScreenshots = false
	cfg.EnableTextAnalysis = false

	r := NewRegistry(cfg, nil)
	assert.Equal(t, []string{"links", "pagetype", "seo", "performance", "accessibility"}, r.Names())
}

func TestRegistryRunKeepsGoingAfterFailure(t *testing.T) {
	cfg := config.Default()
	cfg.EnableScreenshots = false
	cfg.EnableMarkdownSnapshot = false
	cfg.EnableBrandAnalysis = false
	cfg.EnableElementScreenshots = false
	cfg.EnableTextAnalysis = false
	r := NewRegistry(cfg, nil)

	var runs []string
	boom := errors.New("boom")
	r.RegisterBefore(&stubExtractor{name: "first", err: boom, runs: &runs})
	r.RegisterBefore(&stubExtractor{name: "second", runs: &runs})

	errs := r.RunBefore(newContext(&fakePage{url: "https://x.test/"}), newState(t.TempDir()))

	assert.Equal(t, []string{"first", "second"}, runs)
	require.Len(t, errs, 1)
	var xe *Error
	require.True(t, errors.As(errs[0], &xe))
	assert.Equal(t, "first", xe.Extractor)
	assert.ErrorIs(t, errs[0], boom)
	assert.Equal(t, "first: boom", errs[0].Error())
}

func TestRegistryRunAfterPartialFailure(t *testing.T) {
	cfg := config.Default()
	r := NewRegistry(cfg, nil)
	st := newState(t.TempDir())
	st.AddPage(state.PageRecord{URL: "https://x.test/contact", Type: state.PageGeneral})

	// no probes stubbed: performance fails, the document-based ones succeed
	page := &fakePage{url: "https://x.test/contact", html: `<html lang="en"><title>Contact</title><h1>Hi</h1></html>`}
	errs := r.RunAfter(newContext(page), st)

	require.Len(t, errs, 1)
	var xe *Error
	require.True(t, errors.As(errs[0], &xe))
	assert.Equal(t, "performance", xe.Extractor)
	assert.Equal(t, state.PageContact, st.Pages[0].Type)
	assert.Equal(t, []string{"Hi"}, st.SEO["https://x.test/contact"].H1)
	assert.True(t, st.Accessibility["https://x.test/contact"].HasLang)
}

func TestPageContextCachesDocument(t *testing.T) {
	pc := newContext(&fakePage{url: "https://x.test/", html: `<title> Hello </title>`})

	first, err := pc.Document()
	require.NoError(t, err)
	second, err := pc.Document()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, "Hello", pc.Title())
}
