package compare

import (
	"errors"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/construction"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/stats"
)

// ErrNoData marks a construction table whose every cell is zero.
var ErrNoData = errors.New("no data")

// #region evolution-types

// PeriodStats summarizes one period's values for a metric.
type PeriodStats struct {
	Period aggregate.Period `json:"period"`
	stats.Summary
	Err string `json:"error,omitempty"`
}

// Pair is the comparison of two periods.
type Pair struct {
	A           aggregate.Period `json:"period_a"`
	B           aggregate.Period `json:"period_b"`
	MannWhitney stats.TestResult `json:"mann_whitney"`
	CohensD     *float64         `json:"cohens_d,omitempty"`
	Err         string           `json:"error,omitempty"`
}

// Evolution is the omnibus, pairwise and descriptive battery for one metric
// across periods. With fewer than two usable periods only Periods and RawData
// are filled and Err is set.
type Evolution struct {
	Metric        string                         `json:"metric"`
	ANOVA         *stats.TestResult              `json:"anova,omitempty"`
	KruskalWallis *stats.TestResult              `json:"kruskal_wallis,omitempty"`
	Pairwise      []Pair                         `json:"pairwise,omitempty"`
	Periods       []PeriodStats                  `json:"period_statistics"`
	RawData       map[aggregate.Period][]float64 `json:"raw_data"`
	Err           string                         `json:"error,omitempty"`
}

// #endregion evolution-types

// #region shift-types

// Counts is a synthetic/analytic pair of construction counts.
type Counts struct {
	Synthetic int `json:"synthetic"`
	Analytic  int `json:"analytic"`
}

// Total is the sum of both strategies.
func (c Counts) Total() int { return c.Synthetic + c.Analytic }

// PeriodShift is one row of the construction table.
type PeriodShift struct {
	Period aggregate.Period `json:"period"`
	Counts
	ByType         map[construction.Type]Counts `json:"by_type"`
	SyntheticRatio float64                      `json:"synthetic_ratio"`
	AnalyticRatio  float64                      `json:"analytic_ratio"`
}

// PairFisher is Fisher's exact test on two rows of the construction table.
type PairFisher struct {
	A    aggregate.Period `json:"period_a"`
	B    aggregate.Period `json:"period_b"`
	Test stats.TestResult `json:"test"`
}

// Shift compares synthetic against analytic marking across periods.
type Shift struct {
	Periods   []PeriodShift     `json:"periods"`
	Totals    Counts            `json:"totals"`
	Fisher    *PairFisher       `json:"fisher_exact,omitempty"`
	Pairwise  []PairFisher      `json:"pairwise_fisher,omitempty"`
	ChiSquare *stats.TestResult `json:"chi_square,omitempty"`
	Err       string            `json:"error,omitempty"`
}

// #endregion shift-types

// Analyses bundles the three comparisons of a run.
type Analyses struct {
	DependencyEvolution Evolution `json:"dependency_evolution"`
	AnalyticalShift     Shift     `json:"analytical_shift"`
	ArticleDevelopment  Evolution `json:"article_development"`
}
