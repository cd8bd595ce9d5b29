package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ramkansal/brandscan/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(t *testing.T) *state.AggregateState {
	t.Helper()
	st := state.New(t.TempDir())
	st.AddPage(state.PageRecord{
		URL:            "https://example.com/",
		Title:          "Home, sweet home",
		Type:           state.PageGeneral,
		ElementCounts:  state.ElementCounts{Headings: 3, Links: 10, Images: 2, Forms: 0},
		ScreenshotFile: "screenshots/example.com_.png",
		MarkdownFile:   "markdown/example.com_.md",
	})
	st.AddPage(state.PageRecord{
		URL:   "https://example.com/contact",
		Title: "Contact",
		Type:  state.PageContact,
	})
	st.AddToSiteMap("https://example.com/", "Home, sweet home")
	st.AddToSiteMap("https://example.com/contact", "Contact")

	b := st.BrandElements
	b.AddColor("rgb(0, 0, 0)")
	b.AddColor("rgb(255, 0, 0)")
	b.AddFont("Inter (16px, 400)")
	b.AddTokens([]string{"brand", "design", "brand", "studio", "brand", "design"})
	b.AddCTA("get started today")
	return st
}

func TestEmitWritesReportFiles(t *testing.T) {
	st := sampleState(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rep, err := Emit(st, "https://example.com/", 2, now)
	require.NoError(t, err)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 2, rep.Summary.TotalPages)
	assert.Equal(t, 1, rep.Summary.TotalDomains)
	assert.Equal(t, 1, rep.Summary.PageTypes[state.PageContact])
	assert.Equal(t, 1, rep.Summary.PageTypes[state.PageGeneral])

	// the live tables were trimmed
	assert.Equal(t, state.Frequencies{"brand": 3, "design": 2}, st.BrandElements.TextAnalysis.KeywordFrequencies)

	loaded, err := ReadReport(filepath.Join(st.ReportDir, ReportJSONFile))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/", loaded.BaseURL)
	assert.Equal(t, rep.RunID, loaded.RunID)
	assert.True(t, now.Equal(loaded.Timestamp))
	assert.Equal(t, []string{"rgb(0, 0, 0)", "rgb(255, 0, 0)"}, loaded.BrandAnalysis.Colors.Values())
	assert.Equal(t, []string{"Inter (16px, 400)"}, loaded.BrandAnalysis.Fonts.Values())
	assert.Equal(t, []string{"get started today"}, loaded.BrandAnalysis.TextAnalysis.CTATexts.Values())
	assert.Equal(t, state.Frequencies{"brand": 3, "design": 2}, loaded.BrandAnalysis.TextAnalysis.KeywordFrequencies)
	require.Len(t, loaded.Data.Pages, 2)
	assert.Equal(t, "markdown/example.com_.md", loaded.Data.Pages[0].MarkdownFile)
}

func TestEmitOnlyOnce(t *testing.T) {
	st := sampleState(t)

	_, err := Emit(st, "https://example.com/", 10, time.Now())
	require.NoError(t, err)

	_, err = Emit(st, "https://example.com/", 10, time.Now())
	assert.ErrorIs(t, err, state.ErrFinalized)
}

func TestEmitWritesJSONWhenCSVFails(t *testing.T) {
	st := sampleState(t)
	require.NoError(t, os.Mkdir(filepath.Join(st.ReportDir, PagesCSVFile), 0o755))

	rep, err := Emit(st, "https://example.com/", 10, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write "+PagesCSVFile)
	require.NotNil(t, rep)
	assert.Equal(t, 2, rep.Summary.TotalPages)

	loaded, err := ReadReport(filepath.Join(st.ReportDir, ReportJSONFile))
	require.NoError(t, err)
	assert.Equal(t, rep.RunID, loaded.RunID)
}

func TestEmitJoinsBothFailures(t *testing.T) {
	st := sampleState(t)
	require.NoError(t, os.Mkdir(filepath.Join(st.ReportDir, PagesCSVFile), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(st.ReportDir, ReportJSONFile), 0o755))

	rep, err := Emit(st, "https://example.com/", 10, time.Now())
	require.Error(t, err)
	assert.Nil(t, rep)
	assert.Contains(t, err.Error(), "write "+PagesCSVFile)
	assert.Contains(t, err.Error(), "write "+ReportJSONFile)
}

func TestEmitEmptyRun(t *testing.T) {
	st := state.New(t.TempDir())

	rep, err := Emit(st, "https://unreachable.invalid/", 50, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Summary.TotalPages)

	raw, err := os.ReadFile(filepath.Join(st.ReportDir, ReportJSONFile))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &doc))
	summary := doc["summary"].(map[string]interface{})
	assert.EqualValues(t, 0, summary["totalPages"])
	assert.EqualValues(t, 0, summary["totalDomains"])

	brand := doc["brandAnalysis"].(map[string]interface{})
	assert.Equal(t, []interface{}{}, brand["colors"])

	rows := readCSV(t, filepath.Join(st.ReportDir, PagesCSVFile))
	assert.Equal(t, [][]string{pagesHeader}, rows)
}

func TestWritePagesCSV(t *testing.T) {
	st := sampleState(t)
	path := filepath.Join(t.TempDir(), "pages.csv")

	require.NoError(t, WritePagesCSV(path, st.Pages))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"URL", "Title", "Type", "Headings", "Links", "Images", "Forms", "Screenshot", "Markdown"}, rows[0])
	assert.Equal(t, []string{
		"https://example.com/", "Home, sweet home", "general", "3", "10", "2", "0",
		"screenshots/example.com_.png", "markdown/example.com_.md",
	}, rows[1])
	assert.Equal(t, []string{"https://example.com/contact", "Contact", "contact", "0", "0", "0", "0", "", ""}, rows[2])
}

func TestKeywordOrderInJSON(t *testing.T) {
	st := state.New(t.TempDir())
	st.BrandElements.AddTokens([]string{"zeta", "alpha", "zeta", "beta"})
	require.NoError(t, st.Finalize(10))

	raw, err := json.Marshal(st.BrandElements.TextAnalysis.KeywordFrequencies)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":2,"alpha":1,"beta":1}`, string(raw))
}

func TestWriteSummary(t *testing.T) {
	st := sampleState(t)
	rep := NewReport(st, "https://example.com/", time.Now())

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, rep, 1500*time.Millisecond))

	out := buf.String()
	assert.Contains(t, out, "Target: https://example.com/")
	assert.Contains(t, out, "2 crawled on 1 domain(s) in 1.5s")
	assert.Contains(t, out, "contact:1, general:1")
	assert.Contains(t, out, "2 colors, 1 fonts, 0 logos")
	assert.Contains(t, out, "brand:3")
}

func TestFmtDur(t *testing.T) {
	assert.Equal(t, "250ms", fmtDur(250*time.Millisecond))
	assert.Equal(t, "12.0s", fmtDur(12*time.Second))
	assert.Equal(t, "2m5s", fmtDur(125*time.Second))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
