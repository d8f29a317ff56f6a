package compare

import (
	"fmt"

	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/aggregate"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/construction"
	"github.com/danielpatrickdp/complexity-tracker/go-engine/internal/stats"
)

// Metric names used in reports and bootstrap stream keys.
const (
	MetricAverageDepth = "average_depth"
	MetricArticleRate  = "article_rate"
)

// Run performs the three comparisons over cohorts. Each analysis is
// independent: a failure in one is reported in its own result.
func Run(cohorts []aggregate.Cohort, boot stats.Bootstrap) Analyses {
	return Analyses{
		DependencyEvolution: DependencyEvolution(cohorts, boot),
		AnalyticalShift:     AnalyticalShift(cohorts),
		ArticleDevelopment:  ArticleDevelopment(cohorts, boot),
	}
}

// DependencyEvolution compares per-text average embedding depth.
func DependencyEvolution(cohorts []aggregate.Cohort, boot stats.Bootstrap) Evolution {
	return MetricEvolution(MetricAverageDepth, cohorts, aggregate.DependencyDepth, boot)
}

// ArticleDevelopment compares per-text articles per 1000 words.
func ArticleDevelopment(cohorts []aggregate.Cohort, boot stats.Bootstrap) Evolution {
	return MetricEvolution(MetricArticleRate, cohorts, aggregate.ArticleRate, boot)
}

// #region metric-evolution

// MetricEvolution runs the omnibus tests, the pairwise tests and the
// per-period descriptives for metric.
func MetricEvolution(name string, cohorts []aggregate.Cohort, metric aggregate.Metric, boot stats.Bootstrap) Evolution {
	ev := Evolution{
		Metric:  name,
		RawData: make(map[aggregate.Period][]float64, len(cohorts)),
		Periods: make([]PeriodStats, 0, len(cohorts)),
	}

	// 1. Values and descriptives per period
	var groups [][]float64
	for _, c := range cohorts {
		values := c.Values(metric)
		ev.RawData[c.Period] = values

		ps := PeriodStats{Period: c.Period, Summary: stats.Describe(values)}
		if len(values) == 0 {
			ps.Err = stats.ErrInsufficientData.Error()
		} else {
			ci, err := boot.CI(values, boot.Rand(name+"/"+string(c.Period)))
			if err != nil {
				ps.Err = err.Error()
			} else {
				ps.CI = &ci
			}
			groups = append(groups, values)
		}
		ev.Periods = append(ev.Periods, ps)
	}

	if len(groups) < 2 {
		ev.Err = fmt.Sprintf("%s: %d of %d periods have data", stats.ErrInsufficientData, len(groups), len(cohorts))
		return ev
	}

	// 2. Omnibus tests across non-empty periods
	anova, err := stats.ANOVA(groups...)
	if err != nil {
		anova = stats.Failed(stats.NameANOVA, err)
	}
	ev.ANOVA = &anova

	kw, err := stats.KruskalWallis(groups...)
	if err != nil {
		kw = stats.Failed(stats.NameKruskalWallis, err)
	}
	ev.KruskalWallis = &kw

	// 3. Pairwise tests and effect sizes
	for _, p := range Pairs(cohorts) {
		ev.Pairwise = append(ev.Pairwise, comparePair(p[0], p[1], ev.RawData))
	}
	return ev
}

func comparePair(a, b aggregate.Period, raw map[aggregate.Period][]float64) Pair {
	pair := Pair{A: a, B: b}
	x, y := raw[a], raw[b]
	if len(x) == 0 || len(y) == 0 {
		pair.Err = fmt.Sprintf("%s: %s has %d values, %s has %d", stats.ErrInsufficientData, a, len(x), b, len(y))
		pair.MannWhitney = stats.Failed(stats.NameMannWhitneyU, stats.ErrInsufficientData)
		return pair
	}

	mw, err := stats.MannWhitneyU(x, y)
	if err != nil {
		mw = stats.Failed(stats.NameMannWhitneyU, err)
	}
	pair.MannWhitney = mw

	d, err := stats.CohensD(x, y)
	if err != nil {
		pair.Err = err.Error()
	} else {
		pair.CohensD = &d
	}
	return pair
}

// Pairs lists every pair of cohort periods, adjacent periods first and then
// wider spans, each in chronological order.
func Pairs(cohorts []aggregate.Cohort) [][2]aggregate.Period {
	var out [][2]aggregate.Period
	for span := 1; span < len(cohorts); span++ {
		for i := 0; i+span < len(cohorts); i++ {
			out = append(out, [2]aggregate.Period{cohorts[i].Period, cohorts[i+span].Period})
		}
	}
	return out
}

// #endregion metric-evolution

// #region analytical-shift

// AnalyticalShift builds the period × {synthetic, analytic} table over the
// tense and voice constructions and tests it when it holds any counts.
func AnalyticalShift(cohorts []aggregate.Cohort) Shift {
	sh := Shift{Periods: make([]PeriodShift, 0, len(cohorts))}

	// 1. Contingency table and proportions
	for _, c := range cohorts {
		row := PeriodShift{Period: c.Period, ByType: make(map[construction.Type]Counts, len(construction.ShiftTypes))}
		for _, b := range c.Bundles {
			for _, t := range construction.ShiftTypes {
				r := b.Constructions[t]
				if r == nil {
					continue
				}
				tc := row.ByType[t]
				tc.Synthetic += r.Synthetic
				tc.Analytic += r.Analytic
				row.ByType[t] = tc
				row.Synthetic += r.Synthetic
				row.Analytic += r.Analytic
			}
		}
		row.SyntheticRatio = aggregate.Ratio(row.Synthetic, row.Total())
		row.AnalyticRatio = aggregate.Ratio(row.Analytic, row.Total())
		sh.Totals.Synthetic += row.Synthetic
		sh.Totals.Analytic += row.Analytic
		sh.Periods = append(sh.Periods, row)
	}

	if sh.Totals.Total() == 0 {
		sh.Err = ErrNoData.Error()
		return sh
	}

	// 2. Headline test: earliest against latest period with counts
	var filled []PeriodShift
	for _, row := range sh.Periods {
		if row.Total() > 0 {
			filled = append(filled, row)
		}
	}
	if len(filled) >= 2 {
		head := fisherRows(filled[0], filled[len(filled)-1])
		sh.Fisher = &head
	} else {
		sh.Fisher = &PairFisher{
			A:    filled[0].Period,
			B:    filled[0].Period,
			Test: stats.Failed(stats.NameFisherExact, fmt.Errorf("only %s has constructions: %w", filled[0].Period, stats.ErrInsufficientData)),
		}
	}

	// 3. Pairwise tests and the full-table test of independence
	rows := make(map[aggregate.Period]PeriodShift, len(sh.Periods))
	table := make([][]int, 0, len(sh.Periods))
	for _, row := range sh.Periods {
		rows[row.Period] = row
		table = append(table, []int{row.Synthetic, row.Analytic})
	}
	for _, p := range Pairs(cohorts) {
		sh.Pairwise = append(sh.Pairwise, fisherRows(rows[p[0]], rows[p[1]]))
	}

	chi, err := stats.ChiSquare(table)
	if err != nil {
		chi = stats.Failed(stats.NameChiSquare, err)
	}
	sh.ChiSquare = &chi
	return sh
}

func fisherRows(a, b PeriodShift) PairFisher {
	res, err := stats.FisherExact(a.Synthetic, a.Analytic, b.Synthetic, b.Analytic)
	if err != nil {
		res = stats.Failed(stats.NameFisherExact, err)
	}
	return PairFisher{A: a.Period, B: b.Period, Test: res}
}

// #endregion analytical-shift
