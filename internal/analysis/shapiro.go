package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrSampleSize is returned when a test gets too few observations.
var ErrSampleSize = errors.New("sample size out of range")

// ErrConstantSample is returned by ShapiroWilk when all values are equal.
var ErrConstantSample = errors.New("all values are identical")

// TestResult is the outcome of a hypothesis test.
type TestResult struct {
	Name      string
	Statistic float64
	PValue    float64
	// Exact is true when the p-value comes from the exact null distribution.
	Exact bool
}

// Significant reports whether the p-value is below alpha.
func (r TestResult) Significant(alpha float64) bool {
	return r.PValue < alpha
}

// Royston (1995) polynomial coefficients for the Shapiro-Wilk weights and
// the normalizing transformation of W.
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

// poly evaluates c[0] + c[1]x + c[2]x² + ...
func poly(c []float64, x float64) float64 {
	r := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		r = r*x + c[i]
	}
	return r
}

// ShapiroWilk tests the null hypothesis that data come from a normal
// distribution, using Royston's approximation for 3 <= n <= 5000.
func ShapiroWilk(data []float64) (TestResult, error) {
	res := TestResult{Name: "Shapiro-Wilk"}
	n := len(data)
	if n < 3 || n > 5000 {
		return res, fmt.Errorf("%w: Shapiro-Wilk needs 3..5000 values, got %d", ErrSampleSize, n)
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)
	if x[n-1]-x[0] < 1e-19 {
		return res, ErrConstantSample
	}

	a := swWeights(n)
	num := 0.0
	for i := range a {
		num += a[i] * (x[n-1-i] - x[i])
	}
	mean := stat.Mean(x, nil)
	ss := 0.0
	for _, v := range x {
		ss += (v - mean) * (v - mean)
	}
	w := num * num / ss
	if w > 1 {
		w = 1
	}
	res.Statistic = w
	res.PValue = swPValue(w, n)
	return res, nil
}

// swWeights returns the first n/2 Shapiro-Wilk coefficients; the remaining
// ones are their negatives mirrored.
func swWeights(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	m := make([]float64, half)
	summ2 := 0.0
	for i := range m {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (an + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2
	a[0] = a1

	start := 1
	var fac float64
	if n > 5 {
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		a[1] = a2
		start = 2
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	for i := start; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func swPValue(w float64, n int) float64 {
	an := float64(n)
	if n == 3 {
		const pi6 = 6 / math.Pi
		const stqr = math.Pi / 3
		p := pi6 * (math.Asin(math.Sqrt(w)) - stqr)
		return math.Max(p, 0)
	}

	w1 := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if w1 >= gamma {
			return 1e-99
		}
		w1 = -math.Log(gamma - w1)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}
	return distuv.Normal{Mu: m, Sigma: s}.Survival(w1)
}
