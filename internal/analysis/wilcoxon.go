package analysis

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrNoDifferences is returned by SignedRank when every pair is equal.
var ErrNoDifferences = errors.New("all paired differences are zero")

// exactLimit is the largest sample that uses the exact signed-rank
// distribution.
const exactLimit = 50

// SignedRank is the two-sided Wilcoxon signed-rank test on the paired
// differences x[i]-y[i]. Zero differences are dropped. The statistic is the
// smaller of the positive and negative rank sums. Small samples without ties
// use the exact null distribution; otherwise the tie-corrected normal
// approximation is used.
func SignedRank(x, y []float64) (TestResult, error) {
	res := TestResult{Name: "Wilcoxon signed-rank"}
	if len(x) != len(y) {
		return res, fmt.Errorf("%w: paired samples differ in length (%d, %d)", ErrSampleSize, len(x), len(y))
	}

	var d []float64
	zeros := 0
	for i := range x {
		diff := x[i] - y[i]
		if diff == 0 {
			zeros++
			continue
		}
		d = append(d, diff)
	}
	n := len(d)
	if n == 0 {
		return res, ErrNoDifferences
	}

	abs := make([]float64, n)
	for i, v := range d {
		abs[i] = math.Abs(v)
	}
	ranks, ties := rank(abs)

	var wPlus, wMinus float64
	for i, v := range d {
		if v > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	t := math.Min(wPlus, wMinus)
	res.Statistic = t

	if n <= exactLimit && len(ties) == 0 && zeros == 0 {
		res.PValue = math.Min(1, 2*signedRankCDF(int(t), n))
		res.Exact = true
		return res, nil
	}

	nf := float64(n)
	mean := nf * (nf + 1) / 4
	variance := nf * (nf + 1) * (2*nf + 1) / 24
	for _, size := range ties {
		ts := float64(size)
		variance -= (ts*ts*ts - ts) / 48
	}
	if variance <= 0 {
		res.PValue = 1
		return res, nil
	}
	z := (t - mean) / math.Sqrt(variance)
	res.PValue = math.Min(1, 2*distuv.UnitNormal.CDF(-math.Abs(z)))
	return res, nil
}

// signedRankCDF returns P(W <= t) for the signed-rank statistic of n
// untied, nonzero differences. counts[s] is the number of subsets of
// {1..n} summing to s.
func signedRankCDF(t, n int) float64 {
	maxSum := n * (n + 1) / 2
	counts := make([]float64, maxSum+1)
	counts[0] = 1
	for k := 1; k <= n; k++ {
		for s := maxSum; s >= k; s-- {
			counts[s] += counts[s-k]
		}
	}
	cum := 0.0
	for s := 0; s <= t && s <= maxSum; s++ {
		cum += counts[s]
	}
	return cum / math.Pow(2, float64(n))
}

// RankSum is the two-sided Wilcoxon rank-sum test for two independent
// samples, using the normal approximation without tie correction. The
// statistic is the z-score of x's rank sum.
func RankSum(x, y []float64) (TestResult, error) {
	res := TestResult{Name: "Wilcoxon rank-sum"}
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return res, fmt.Errorf("%w: rank-sum needs two non-empty samples", ErrSampleSize)
	}

	all := make([]float64, 0, n1+n2)
	all = append(all, x...)
	all = append(all, y...)
	ranks, _ := rank(all)

	s := 0.0
	for _, r := range ranks[:n1] {
		s += r
	}
	f1, f2 := float64(n1), float64(n2)
	expected := f1 * (f1 + f2 + 1) / 2
	z := (s - expected) / math.Sqrt(f1*f2*(f1+f2+1)/12)

	res.Statistic = z
	res.PValue = 2 * distuv.UnitNormal.CDF(-math.Abs(z))
	return res, nil
}
