package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// quadPoints is the Gauss-Legendre order used to integrate over the
// chi-square mixing distribution.
const quadPoints = 256

// maxSampleSize bounds the sample-size search.
const maxSampleSize = 1e6

// PairedTTestPower returns the power of a two-sided one-sample (or paired)
// t-test with n observations to detect standardized effect d at level alpha.
// n may be fractional.
func PairedTTestPower(d, alpha, n float64) float64 {
	df := n - 1
	if df <= 0 {
		return math.NaN()
	}
	crit := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(1 - alpha/2)
	delta := d * math.Sqrt(n)
	return 1 - noncentralTCDF(crit, df, delta) + noncentralTCDF(-crit, df, delta)
}

// noncentralTCDF returns P(T <= t) for a noncentral t with df degrees of
// freedom and noncentrality delta, by integrating the normal CDF over the
// chi-square distribution of the denominator:
//
//	P(T <= t) = ∫ Φ(t·√(v/df) − delta) f_χ²(v; df) dv
func noncentralTCDF(t, df, delta float64) float64 {
	chi := distuv.ChiSquared{K: df}
	upper := df + 12*math.Sqrt(2*df) + 20
	f := func(v float64) float64 {
		return distuv.UnitNormal.CDF(t*math.Sqrt(v/df)-delta) * chi.Prob(v)
	}
	return quad.Fixed(f, 0, upper, quadPoints, nil, 0)
}

// SampleSize returns the number of observations a two-sided paired t-test
// needs to reach the given power for effect size d at level alpha. The
// continuous solution is truncated and incremented by one.
func SampleSize(d, alpha, power float64) (int, error) {
	switch {
	case d == 0 || math.IsNaN(d) || math.IsInf(d, 0):
		return 0, fmt.Errorf("effect size must be finite and non-zero, got %v", d)
	case alpha <= 0 || alpha >= 1:
		return 0, fmt.Errorf("alpha must be in (0, 1), got %v", alpha)
	case power <= alpha || power >= 1:
		return 0, fmt.Errorf("power must be in (alpha, 1), got %v", power)
	}
	d = math.Abs(d)

	lo, hi := 2.0, 4.0
	for PairedTTestPower(d, alpha, hi) < power {
		lo = hi
		hi *= 2
		if hi > maxSampleSize {
			return 0, fmt.Errorf("effect size %v needs more than %d observations", d, int(maxSampleSize))
		}
	}
	if PairedTTestPower(d, alpha, lo) >= power {
		return int(lo) + 1, nil
	}
	for hi-lo > 1e-6 {
		mid := (lo + hi) / 2
		if PairedTTestPower(d, alpha, mid) < power {
			lo = mid
		} else {
			hi = mid
		}
	}
	return int(hi) + 1, nil
}
