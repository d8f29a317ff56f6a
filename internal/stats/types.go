package stats

import (
	"errors"
	"math"
)

// #region errors

var (
	// ErrInsufficientData means a test lacked the groups or observations it needs.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDegenerate means the inputs admit no finite test statistic, e.g.
	// every observation is identical.
	ErrDegenerate = errors.New("degenerate input")
)

// #endregion errors

// #region result

// TestResult is one hypothesis test outcome. When Err is set the numeric
// fields are zero and must not be read.
type TestResult struct {
	Test       string   `json:"test"`
	Statistic  float64  `json:"statistic"`
	PValue     float64  `json:"p_value"`
	EffectSize *float64 `json:"effect_size,omitempty"`
	Err        string   `json:"error,omitempty"`
}

// OK reports whether the test produced numbers.
func (r TestResult) OK() bool { return r.Err == "" }

// Failed builds a result carrying only the error.
func Failed(test string, err error) TestResult {
	return TestResult{Test: test, Err: err.Error()}
}

// Interval is a closed confidence interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Summary describes one sample.
type Summary struct {
	Mean float64   `json:"mean"`
	Std  float64   `json:"std"`
	N    int       `json:"n"`
	CI   *Interval `json:"ci_95,omitempty"`
}

// #endregion result

func finite(xs ...float64) bool {
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func clip01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

func ptr(v float64) *float64 { return &v }
