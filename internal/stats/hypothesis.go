package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Names under which results are reported.
const (
	NameANOVA         = "anova"
	NameKruskalWallis = "kruskal_wallis"
	NameMannWhitneyU  = "mann_whitney_u"
	NameFisherExact   = "fisher_exact"
	NameChiSquare     = "chi_square"
)

// exactLimit bounds the sample size below which Mann-Whitney uses the exact
// null distribution.
const exactLimit = 8

// #region anova

// ANOVA runs a one-way analysis of variance over groups and returns F and its
// upper-tail p-value.
func ANOVA(groups ...[]float64) (TestResult, error) {
	k, n := len(groups), 0
	if k < 2 {
		return TestResult{}, fmt.Errorf("anova: %d groups: %w", k, ErrInsufficientData)
	}
	var grand float64
	for i, g := range groups {
		if len(g) == 0 {
			return TestResult{}, fmt.Errorf("anova: group %d empty: %w", i, ErrInsufficientData)
		}
		n += len(g)
		for _, v := range g {
			grand += v
		}
	}
	if n <= k {
		return TestResult{}, fmt.Errorf("anova: %d observations for %d groups: %w", n, k, ErrInsufficientData)
	}
	grand /= float64(n)

	var ssb, ssw float64
	for _, g := range groups {
		m := stat.Mean(g, nil)
		ssb += float64(len(g)) * (m - grand) * (m - grand)
		for _, v := range g {
			ssw += (v - m) * (v - m)
		}
	}
	if ssw == 0 {
		return TestResult{}, fmt.Errorf("anova: zero within-group variance: %w", ErrDegenerate)
	}

	dfb, dfw := float64(k-1), float64(n-k)
	f := (ssb / dfb) / (ssw / dfw)
	p := distuv.F{D1: dfb, D2: dfw}.Survival(f)
	if !finite(f, p) {
		return TestResult{}, fmt.Errorf("anova: %w", ErrDegenerate)
	}
	return TestResult{Test: NameANOVA, Statistic: f, PValue: clip01(p)}, nil
}

// #endregion anova

// #region ranks

// rank assigns average ranks (1-based) to values and returns the tie term
// sum(t^3 - t) over tie groups.
func rank(values []float64) ([]float64, float64) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	var ties float64
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for m := i; m <= j; m++ {
			ranks[idx[m]] = avg
		}
		if t := float64(j - i + 1); t > 1 {
			ties += t*t*t - t
		}
		i = j + 1
	}
	return ranks, ties
}

// #endregion ranks

// #region kruskal

// KruskalWallis runs the rank-based omnibus test with tie correction.
func KruskalWallis(groups ...[]float64) (TestResult, error) {
	k := len(groups)
	if k < 2 {
		return TestResult{}, fmt.Errorf("kruskal-wallis: %d groups: %w", k, ErrInsufficientData)
	}
	var all []float64
	for i, g := range groups {
		if len(g) == 0 {
			return TestResult{}, fmt.Errorf("kruskal-wallis: group %d empty: %w", i, ErrInsufficientData)
		}
		all = append(all, g...)
	}
	n := float64(len(all))
	ranks, ties := rank(all)

	correction := 1 - ties/(n*n*n-n)
	if correction <= 0 {
		return TestResult{}, fmt.Errorf("kruskal-wallis: all values identical: %w", ErrDegenerate)
	}

	var h float64
	off := 0
	for _, g := range groups {
		var sum float64
		for _, r := range ranks[off : off+len(g)] {
			sum += r
		}
		h += sum * sum / float64(len(g))
		off += len(g)
	}
	h = math.Max(0, (12/(n*(n+1))*h-3*(n+1))/correction)

	p := distuv.ChiSquared{K: float64(k - 1)}.Survival(h)
	if !finite(h, p) {
		return TestResult{}, fmt.Errorf("kruskal-wallis: %w", ErrDegenerate)
	}
	return TestResult{Test: NameKruskalWallis, Statistic: h, PValue: clip01(p)}, nil
}

// #endregion kruskal

// #region mann-whitney

// MannWhitneyU runs the two-sided Mann-Whitney U test. The statistic is U for
// x. Small samples without ties use the exact null distribution; otherwise
// the normal approximation with tie and continuity correction is used.
func MannWhitneyU(x, y []float64) (TestResult, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return TestResult{}, fmt.Errorf("mann-whitney: sizes %d and %d: %w", n1, n2, ErrInsufficientData)
	}

	all := make([]float64, 0, n1+n2)
	all = append(all, x...)
	all = append(all, y...)
	ranks, ties := rank(all)

	var r1 float64
	for _, r := range ranks[:n1] {
		r1 += r
	}
	u1 := r1 - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1
	big := math.Max(u1, u2)

	var p float64
	if n1 < exactLimit && n2 < exactLimit && ties == 0 {
		p = 2 * exactUpperTail(n1, n2, int(math.Round(big)))
	} else {
		n := float64(n1 + n2)
		mu := float64(n1*n2) / 2
		sigma := math.Sqrt(float64(n1*n2) / 12 * ((n + 1) - ties/(n*(n-1))))
		if sigma == 0 {
			p = 1
		} else {
			z := (big - mu - 0.5) / sigma
			p = 2 * distuv.UnitNormal.Survival(z)
		}
	}
	if !finite(u1, p) {
		return TestResult{}, fmt.Errorf("mann-whitney: %w", ErrDegenerate)
	}
	return TestResult{Test: NameMannWhitneyU, Statistic: u1, PValue: clip01(p)}, nil
}

// exactUpperTail returns P(U >= u) under the null for sample sizes n1, n2.
func exactUpperTail(n1, n2, u int) float64 {
	// counts[i][j][s] is the number of arrangements of i x's and j y's with U = s.
	maxU := n1 * n2
	counts := make([][][]float64, n1+1)
	for i := range counts {
		counts[i] = make([][]float64, n2+1)
		for j := range counts[i] {
			counts[i][j] = make([]float64, maxU+1)
		}
	}
	for i := 0; i <= n1; i++ {
		for j := 0; j <= n2; j++ {
			if i == 0 || j == 0 {
				counts[i][j][0] = 1
				continue
			}
			for s := 0; s <= i*j; s++ {
				// largest observation is an x (beats all j y's) or a y
				if s >= j {
					counts[i][j][s] += counts[i-1][j][s-j]
				}
				counts[i][j][s] += counts[i][j-1][s]
			}
		}
	}

	var tail, total float64
	for s, c := range counts[n1][n2] {
		total += c
		if s >= u {
			tail += c
		}
	}
	return tail / total
}

// #endregion mann-whitney
