package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// relErr is the relative tolerance for treating two table probabilities as
// equal in the two-sided exact test.
const relErr = 1 + 1e-7

// #region fisher

// FisherExact runs the two-sided Fisher exact test on the 2x2 table
// [[a, b], [c, d]]. EffectSize carries the sample odds ratio ad/bc and is nil
// when bc is zero.
func FisherExact(a, b, c, d int) (TestResult, error) {
	if a < 0 || b < 0 || c < 0 || d < 0 {
		return TestResult{}, fmt.Errorf("fisher: negative count: %w", ErrDegenerate)
	}
	n := a + b + c + d
	if n == 0 {
		return TestResult{}, fmt.Errorf("fisher: empty table: %w", ErrInsufficientData)
	}

	res := TestResult{Test: NameFisherExact}
	if b*c != 0 {
		res.EffectSize = ptr(float64(a*d) / float64(b*c))
		res.Statistic = *res.EffectSize
	}

	row1, row2, col1 := a+b, c+d, a+c
	lo, hi := max(0, col1-row2), min(row1, col1)
	observed := hypergeomLogPMF(a, row1, row2, col1)

	var p float64
	for x := lo; x <= hi; x++ {
		lp := hypergeomLogPMF(x, row1, row2, col1)
		if lp <= observed+math.Log(relErr) {
			p += math.Exp(lp)
		}
	}
	res.PValue = clip01(p)
	return res, nil
}

// hypergeomLogPMF is log P(X = x) for x successes in a draw of col1 from
// row1 successes and row2 failures.
func hypergeomLogPMF(x, row1, row2, col1 int) float64 {
	return logChoose(row1, x) + logChoose(row2, col1-x) - logChoose(row1+row2, col1)
}

func logChoose(n, k int) float64 {
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}

// #endregion fisher

// #region chi-square

// ChiSquare tests independence of the rows and columns of table. Rows and
// columns summing to zero are ignored. Tables with one degree of freedom get
// Yates' continuity correction. EffectSize carries Cramér's V.
func ChiSquare(table [][]int) (TestResult, error) {
	t := trim(table)
	if len(t) < 2 || len(t[0]) < 2 {
		return TestResult{}, fmt.Errorf("chi-square: need at least 2x2 non-empty table: %w", ErrInsufficientData)
	}

	rows, cols := len(t), len(t[0])
	rowSum := make([]float64, rows)
	colSum := make([]float64, cols)
	var n float64
	for i, row := range t {
		for j, v := range row {
			rowSum[i] += float64(v)
			colSum[j] += float64(v)
			n += float64(v)
		}
	}

	dof := (rows - 1) * (cols - 1)
	var chi float64
	for i, row := range t {
		for j, v := range row {
			expected := rowSum[i] * colSum[j] / n
			diff := math.Abs(float64(v) - expected)
			if dof == 1 {
				diff = math.Max(0, diff-0.5)
			}
			chi += diff * diff / expected
		}
	}

	p := distuv.ChiSquared{K: float64(dof)}.Survival(chi)
	v := math.Sqrt(chi / (n * float64(min(rows, cols)-1)))
	if !finite(chi, p, v) {
		return TestResult{}, fmt.Errorf("chi-square: %w", ErrDegenerate)
	}
	return TestResult{Test: NameChiSquare, Statistic: chi, PValue: clip01(p), EffectSize: ptr(v)}, nil
}

// trim drops all-zero rows and columns.
func trim(table [][]int) [][]int {
	if len(table) == 0 {
		return nil
	}
	width := 0
	for _, row := range table {
		width = max(width, len(row))
	}
	keepCol := make([]bool, width)
	var rows [][]int
	for _, row := range table {
		sum := 0
		for j, v := range row {
			sum += v
			if v != 0 {
				keepCol[j] = true
			}
		}
		if sum > 0 {
			rows = append(rows, row)
		}
	}

	out := make([][]int, 0, len(rows))
	for _, row := range rows {
		var r []int
		for j := 0; j < width; j++ {
			if !keepCol[j] {
				continue
			}
			v := 0
			if j < len(row) {
				v = row[j]
			}
			r = append(r, v)
		}
		out = append(out, r)
	}
	return out
}

// #endregion chi-square
