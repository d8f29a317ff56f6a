package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/annotation"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/construction"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/depmetrics"
)

// #region ratio

// Ratio divides num by den and returns 0 when den is not positive.
func Ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// #endregion ratio

// #region normalize

// Normalize turns raw counts into per-word rates.
func Normalize(dep depmetrics.Metrics, cls construction.Result) Normalized {
	words := cls.FunctionWords.WordCount

	n := Normalized{
		AnalyticalDensity:   make(map[construction.Type]float64, len(construction.Types)),
		FunctionWordDensity: make(map[string]float64, 3),
		DependencyDepth:     dep.AverageDepth,
		ClauseComplexity:    Ratio(cls.Clauses.Subordination(), words),
		ArticleRate:         Ratio(cls.FunctionWords.ArticleTotal(), words) * 1000,
	}
	for _, t := range construction.Types {
		analytic := 0
		if r := cls.Constructions[t]; r != nil {
			analytic = r.Analytic
		}
		n.AnalyticalDensity[t] = Ratio(analytic, words)
	}
	for _, key := range []string{construction.TypePrepositions, construction.TypeArticles, construction.TypeConjunctions} {
		n.FunctionWordDensity[key] = Ratio(cls.FunctionWords.TotalByType[key], words)
	}
	return n
}

// #endregion normalize

// #region new-bundle

// NewBundle assembles a text's bundle and derives its normalized metrics.
func NewBundle(docID string, period Period, dep depmetrics.Metrics, cls construction.Result, warnings []string) Bundle {
	return Bundle{
		DocumentID:    docID,
		Language:      cls.Language,
		Period:        period,
		Constructions: cls.Constructions,
		FunctionWords: cls.FunctionWords,
		Clauses:       cls.Clauses,
		Dependency:    dep,
		Normalized:    Normalize(dep, cls),
		Warnings:      warnings,
	}
}

// #endregion new-bundle

// #region period-of

// PeriodOf finds the period whose prefix starts docID. The longest matching
// prefix wins so overlapping prefixes stay unambiguous.
func PeriodOf(docID string, specs []PeriodSpec) (PeriodSpec, bool) {
	var best PeriodSpec
	found := false
	for _, s := range specs {
		if s.Prefix == "" || !strings.HasPrefix(docID, s.Prefix) {
			continue
		}
		if !found || len(s.Prefix) > len(best.Prefix) {
			best = s
			found = true
		}
	}
	return best, found
}

// LanguageOf returns the language declared for docID's period.
func LanguageOf(docID string, specs []PeriodSpec) (annotation.Language, bool) {
	s, ok := PeriodOf(docID, specs)
	if !ok {
		return "", false
	}
	return s.Language, true
}

// #endregion period-of

// #region build-cohorts

// BuildCohorts partitions bundles into one cohort per period, in the order of specs.
// Bundles whose identifier matches no prefix are left out and reported.
// Bundles inside each cohort are ordered by document identifier.
func BuildCohorts(bundles []Bundle, specs []PeriodSpec) ([]Cohort, []Warning) {
	cohorts := make([]Cohort, len(specs))
	index := make(map[Period]int, len(specs))
	for i, s := range specs {
		cohorts[i] = Cohort{Period: s.Name}
		index[s.Name] = i
	}

	var warnings []Warning
	for _, b := range bundles {
		spec, ok := PeriodOf(b.DocumentID, specs)
		if !ok {
			warnings = append(warnings, Warning{
				DocumentID: b.DocumentID,
				Message:    fmt.Sprintf("no period prefix matches %q; excluded from cohorts", b.DocumentID),
			})
			continue
		}
		i := index[spec.Name]
		cohorts[i].Bundles = append(cohorts[i].Bundles, b)
	}

	for i := range cohorts {
		sort.Slice(cohorts[i].Bundles, func(a, b int) bool {
			return cohorts[i].Bundles[a].DocumentID < cohorts[i].Bundles[b].DocumentID
		})
	}
	return cohorts, warnings
}

// #endregion build-cohorts

// #region summarize

// Summarize reports document membership and mean rates for a cohort.
func Summarize(c Cohort) CohortSummary {
	s := CohortSummary{
		Period:    c.Period,
		Texts:     len(c.Bundles),
		Documents: make([]string, 0, len(c.Bundles)),
	}
	var depthSum, rateSum float64
	for _, b := range c.Bundles {
		s.Documents = append(s.Documents, b.DocumentID)
		s.Words += b.WordCount()
		depthSum += b.Dependency.AverageDepth
		rateSum += b.Normalized.ArticleRate
		syn, ana := b.Constructions.Totals(construction.ShiftTypes...)
		s.SyntheticTotal += syn
		s.AnalyticTotal += ana
		s.Warnings += len(b.Warnings)
	}
	if s.Texts > 0 {
		s.MeanDepth = depthSum / float64(s.Texts)
		s.MeanArticleRate = rateSum / float64(s.Texts)
	}
	return s
}

// #endregion summarize

// #region metrics

// DependencyDepth reads a text's average embedding depth.
func DependencyDepth(b Bundle) (float64, bool) {
	return b.Dependency.AverageDepth, true
}

// ArticleRate reads articles per 1000 words. Texts without words carry no
// rate and are left out.
func ArticleRate(b Bundle) (float64, bool) {
	if b.WordCount() <= 0 {
		return 0, false
	}
	return b.Normalized.ArticleRate, true
}

// #endregion metrics
