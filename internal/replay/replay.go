package replay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/compare"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/config"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/pipeline"
)

// #region replay

// Replay rebuilds the cohorts of a stored report from its document bundles,
// reruns the comparisons with the report's seed and compares each section
// with what was stored. Operates entirely in-memory.
func Replay(report *pipeline.Report, cfg config.Config) (Result, error) {
	res := Result{RunID: report.RunID, Seed: report.Seed}

	// 1. Recompute
	cohorts, _ := aggregate.BuildCohorts(report.Documents, cfg.Periods)
	summaries := make([]aggregate.CohortSummary, 0, len(cohorts))
	for _, c := range cohorts {
		summaries = append(summaries, aggregate.Summarize(c))
	}
	analyses := compare.Run(cohorts, cfg.BootstrapFor(report.Seed))

	// 2. Compare section by section
	sections := []struct {
		name           string
		stored, replay any
	}{
		{SectionCohorts, report.Cohorts, summaries},
		{SectionDependencyEvolution, report.Analyses.DependencyEvolution, analyses.DependencyEvolution},
		{SectionAnalyticalShift, report.Analyses.AnalyticalShift, analyses.AnalyticalShift},
		{SectionArticleDevelopment, report.Analyses.ArticleDevelopment, analyses.ArticleDevelopment},
	}
	for _, s := range sections {
		match, err := sameJSON(s.stored, s.replay)
		if err != nil {
			return Result{}, fmt.Errorf("compare %s: %w", s.name, err)
		}
		res.Sections = append(res.Sections, SectionResult{Name: s.name, Match: match})
	}
	return res, nil
}

// sameJSON compares two values by their JSON encoding, which is the form a
// report is stored and published in.
func sameJSON(a, b any) (bool, error) {
	ja, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	jb, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ja, jb), nil
}

// #endregion replay

// #region fixture-loader

// LoadFixture reads a report written by analyze --out.
func LoadFixture(path string) (*pipeline.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var r pipeline.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &r, nil
}

// #endregion fixture-loader
