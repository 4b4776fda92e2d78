// Package stats computes confidence intervals and descriptive summaries over
// replication results.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Method selects how the half-width of an interval is computed.
type Method string

const (
	// MethodT uses the Student-t critical value t_{1-α/2, n-1}·s/√n.
	MethodT Method = "t"
	// MethodChebyshev uses s/√(n·α), valid for any distribution.
	MethodChebyshev Method = "chebyshev"
)

// ValidMethods is the set of recognized interval methods.
var ValidMethods = map[Method]bool{MethodT: true, MethodChebyshev: true}

var (
	ErrTooFewSamples = errors.New("at least two samples are required")
	ErrInvalidAlpha  = errors.New("alpha must be in (0, 1)")
)

// Interval is a two-sided confidence interval for a mean.
type Interval struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"` // sample standard deviation (n-1)
	Delta  float64 `json:"delta"`  // half-width
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
	N      int     `json:"n"`
	Alpha  float64 `json:"alpha"`
	Method Method  `json:"method"`
}

// Length is the full width of the interval.
func (iv Interval) Length() float64 {
	return iv.Upper - iv.Lower
}

// Contains reports whether x lies inside the closed interval.
func (iv Interval) Contains(x float64) bool {
	return x >= iv.Lower && x <= iv.Upper
}

func (iv Interval) String() string {
	return fmt.Sprintf("%.2f ± %.2f [%.2f, %.2f]", iv.Mean, iv.Delta, iv.Lower, iv.Upper)
}

// NewInterval builds the 1-alpha confidence interval for the mean of samples.
func NewInterval(samples []float64, alpha float64, method Method) (Interval, error) {
	n := len(samples)
	if n < 2 {
		return Interval{}, fmt.Errorf("confidence interval over %d samples: %w", n, ErrTooFewSamples)
	}
	if !(alpha > 0 && alpha < 1) {
		return Interval{}, fmt.Errorf("alpha %v: %w", alpha, ErrInvalidAlpha)
	}
	mean, sd := stat.MeanStdDev(samples, nil)
	fn := float64(n)

	var delta float64
	switch method {
	case MethodT, "":
		method = MethodT
		t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: fn - 1}.Quantile(1 - alpha/2)
		delta = t * sd / math.Sqrt(fn)
	case MethodChebyshev:
		delta = sd / math.Sqrt(fn*alpha)
	default:
		return Interval{}, fmt.Errorf("unknown interval method %q; valid: t, chebyshev", method)
	}
	return Interval{
		Mean:   mean,
		StdDev: sd,
		Delta:  delta,
		Lower:  mean - delta,
		Upper:  mean + delta,
		N:      n,
		Alpha:  alpha,
		Method: method,
	}, nil
}

// Summary holds descriptive statistics of a sample.
type Summary struct {
	Count    int
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64 // population
	Variance float64 // population
	Median   float64
}

// Describe summarizes values. An empty input yields the zero Summary.
func Describe[T Number](values []T) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	sort.Float64s(xs)
	mean, variance := stat.PopMeanVariance(xs, nil)
	return Summary{
		Count:    len(xs),
		Min:      xs[0],
		Max:      xs[len(xs)-1],
		Mean:     mean,
		StdDev:   math.Sqrt(variance),
		Variance: variance,
		Median:   Percentile(xs, 50),
	}
}

// Number is the set of sample types accepted by Describe and Percentile.
type Number interface {
	int | int64 | float64
}

// Percentile returns the p-th percentile (0..100) of sorted data by linear
// interpolation between the closest ranks. Empty data yields 0.
func Percentile[T Number](sorted []T, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	p = min(max(p, 0), 100)
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if lowerIdx == upperIdx {
		return float64(sorted[lowerIdx])
	}
	lowerVal := float64(sorted[lowerIdx])
	upperVal := float64(sorted[upperIdx])
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}
