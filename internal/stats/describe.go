package stats

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// #region cohens-d

// CohensD is the standardized mean difference (mean(x) - mean(y)) over the
// pooled sample standard deviation.
func CohensD(x, y []float64) (float64, error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 || n1+n2 < 3 {
		return 0, fmt.Errorf("cohen's d: sizes %d and %d: %w", n1, n2, ErrInsufficientData)
	}
	m1, m2 := stat.Mean(x, nil), stat.Mean(y, nil)
	pooled := (sumSquares(x, m1) + sumSquares(y, m2)) / float64(n1+n2-2)
	diff := m1 - m2
	if pooled == 0 {
		if diff == 0 {
			return 0, nil
		}
		return 0, fmt.Errorf("cohen's d: zero pooled variance: %w", ErrDegenerate)
	}
	d := diff / math.Sqrt(pooled)
	if !finite(d) {
		return 0, fmt.Errorf("cohen's d: %w", ErrDegenerate)
	}
	return d, nil
}

func sumSquares(xs []float64, mean float64) float64 {
	var s float64
	for _, v := range xs {
		s += (v - mean) * (v - mean)
	}
	return s
}

// #endregion cohens-d

// #region describe

// Describe returns mean, population standard deviation and size. An empty
// sample yields a zero summary.
func Describe(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	mean, variance := stat.PopMeanVariance(xs, nil)
	return Summary{Mean: mean, Std: math.Sqrt(variance), N: len(xs)}
}

// #endregion describe

// #region bootstrap

// Bootstrap configures percentile confidence intervals.
type Bootstrap struct {
	Resamples  int
	Confidence float64
	Seed       uint64
}

// DefaultBootstrap is 1000 resamples at 95%.
func DefaultBootstrap(seed uint64) Bootstrap {
	return Bootstrap{Resamples: 1000, Confidence: 0.95, Seed: seed}
}

// Rand returns a generator for key. Each key gets its own stream so results
// do not depend on the order in which samples are processed.
func (b Bootstrap) Rand(key string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(key))
	return rand.New(rand.NewPCG(b.Seed, h.Sum64()))
}

// CI resamples xs with replacement and returns the percentile interval of the
// resampled means.
func (b Bootstrap) CI(xs []float64, rng *rand.Rand) (Interval, error) {
	if len(xs) == 0 {
		return Interval{}, fmt.Errorf("bootstrap: empty sample: %w", ErrInsufficientData)
	}
	if b.Resamples <= 0 || b.Confidence <= 0 || b.Confidence >= 1 {
		return Interval{}, fmt.Errorf("bootstrap: resamples=%d confidence=%g: %w", b.Resamples, b.Confidence, ErrDegenerate)
	}

	means := make([]float64, b.Resamples)
	for i := range means {
		var sum float64
		for range xs {
			sum += xs[rng.IntN(len(xs))]
		}
		means[i] = sum / float64(len(xs))
	}
	sort.Float64s(means)

	alpha := (1 - b.Confidence) / 2
	iv := Interval{
		Lower: percentile(means, alpha),
		Upper: percentile(means, 1-alpha),
	}
	if !finite(iv.Lower, iv.Upper) {
		return Interval{}, fmt.Errorf("bootstrap: %w", ErrDegenerate)
	}
	return iv, nil
}

// percentile interpolates linearly between the closest ranks of sorted at
// h = p*(n-1), so the 0 and 1 quantiles are the sample minimum and maximum.
// stat.Quantile's LinInterp places p*n instead and shifts short tails.
func percentile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	if lo < 0 {
		return sorted[0]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// #endregion bootstrap
