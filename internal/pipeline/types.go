package pipeline

import (
	"log/slog"
	"sort"
	"time"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/compare"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/config"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/metrics"
)

// #region options

// Options carries everything a run depends on. Logger and Metrics may be nil.
type Options struct {
	Config config.Config
	// Seed is the resolved bootstrap seed; see ResolveSeed.
	Seed    uint64
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// ResolveSeed returns seed, or a time-based seed when seed is 0.
func ResolveSeed(seed uint64, now func() time.Time) uint64 {
	if seed != 0 {
		return seed
	}
	return uint64(now().UnixNano())
}

// #endregion options

// #region report

// Stage names where a document can fail.
const (
	StageLoad     = "load"
	StageAnnotate = "annotate"
	StageAnalyze  = "analyze"
)

// Failure is a document that produced no bundle.
type Failure struct {
	DocumentID string `json:"document_id"`
	Stage      string `json:"stage"`
	Error      string `json:"error"`
}

// Report is the complete output of one run.
type Report struct {
	RunID     string                    `json:"run_id,omitempty"`
	CreatedAt time.Time                 `json:"created_at"`
	Seed      uint64                    `json:"seed"`
	Documents []aggregate.Bundle        `json:"documents"`
	Cohorts   []aggregate.CohortSummary `json:"cohorts"`
	Analyses  compare.Analyses          `json:"analyses"`
	Warnings  []aggregate.Warning       `json:"warnings"`
	Failures  []Failure                 `json:"failures"`
}

// Bundle looks up a document's bundle by identifier.
func (r *Report) Bundle(docID string) (aggregate.Bundle, bool) {
	for _, b := range r.Documents {
		if b.DocumentID == docID {
			return b, true
		}
	}
	return aggregate.Bundle{}, false
}

// AddFailures merges failures recorded outside Run, such as load and
// annotation failures, keeping the list ordered by document.
func (r *Report) AddFailures(fs ...Failure) {
	r.Failures = append(r.Failures, fs...)
	sort.SliceStable(r.Failures, func(a, b int) bool {
		return r.Failures[a].DocumentID < r.Failures[b].DocumentID
	})
}

// #endregion report
