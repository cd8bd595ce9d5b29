// Package output writes the end-of-run report files.
package output

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ramkansal/brandscan/internal/state"
)

const (
	PagesCSVFile   = "pages.csv"
	ReportJSONFile = "report.json"
)

// Summary holds the headline numbers of a run.
type Summary struct {
	TotalPages   int                    `json:"totalPages"`
	TotalDomains int                    `json:"totalDomains"`
	PageTypes    map[state.PageType]int `json:"pageTypes"`
}

// Report is the document written to report.json.
type Report struct {
	BaseURL       string                `json:"baseUrl"`
	Timestamp     time.Time             `json:"timestamp"`
	RunID         string                `json:"runId"`
	Summary       Summary               `json:"summary"`
	BrandAnalysis *state.BrandElements  `json:"brandAnalysis"`
	Data          *state.AggregateState `json:"data"`
}

// NewReport assembles the report document for st without writing it.
func NewReport(st *state.AggregateState, baseURL string, now time.Time) *Report {
	return &Report{
		BaseURL:   baseURL,
		Timestamp: now.UTC(),
		RunID:     uuid.NewString(),
		Summary: Summary{
			TotalPages:   len(st.Pages),
			TotalDomains: len(st.SiteMap),
			PageTypes:    st.PageTypeCounts(),
		},
		BrandAnalysis: st.BrandElements,
		Data:          st,
	}
}

// Emit finalizes st, keeping the topN keywords and bigrams, and writes
// pages.csv and report.json into st.ReportDir. Both files are attempted; a
// failed write is joined into the error. The report is returned whenever
// report.json was written. It fails with state.ErrFinalized when the state
// was already emitted.
func Emit(st *state.AggregateState, baseURL string, topN int, now time.Time) (*Report, error) {
	if err := st.Finalize(topN); err != nil {
		return nil, err
	}

	var errs []error
	if err := WritePagesCSV(filepath.Join(st.ReportDir, PagesCSVFile), st.Pages); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", PagesCSVFile, err))
	}

	rep := NewReport(st, baseURL, now)
	if err := WriteJSON(filepath.Join(st.ReportDir, ReportJSONFile), rep); err != nil {
		errs = append(errs, fmt.Errorf("write %s: %w", ReportJSONFile, err))
		rep = nil
	}
	return rep, errors.Join(errs...)
}
