// Package randtest implements the statistical acceptance battery applied to
// generated sequences before they drive a simulation: the mean, variance,
// chi-square uniformity and poker independence tests.
//
// All tests assume values in [0, 1) and a null hypothesis of i.i.d. U(0,1).
package randtest

import (
	"errors"
	"fmt"
	"math"
)

// Uniform(0,1) moments.
const (
	UniformMean     = 0.5
	UniformVariance = 1.0 / 12.0
)

var (
	// ErrEmptySequence is returned when a test receives no values.
	ErrEmptySequence = errors.New("empty sequence")
	// ErrTooFewObservations is returned when a test cannot form its statistic.
	ErrTooFewObservations = errors.New("too few observations")
	// ErrInvalidAlpha is returned for significance levels outside (0, 1).
	ErrInvalidAlpha = errors.New("significance level must be in (0, 1)")
	// ErrUnsupportedGroupSize is returned by the poker test for group sizes other than 5.
	ErrUnsupportedGroupSize = errors.New("unsupported poker group size")
)

// TestName identifies one test of the battery.
type TestName string

const (
	TestMean      TestName = "mean"
	TestVariance  TestName = "variance"
	TestChiSquare TestName = "chi-square"
	TestPoker     TestName = "poker"
)

// Outcome is the result of a single test.
type Outcome struct {
	Test   TestName
	Passed bool
	N      int
	Alpha  float64

	// Statistic is compared against [Lower, Upper]: the sample mean, the
	// sample variance, or the chi-square statistic (Lower is 0).
	Statistic float64
	Lower     float64
	Upper     float64

	// Score is the standardized statistic: the z-score for the mean test and
	// df*s²/σ² for the variance test. Equal to Statistic for chi-square tests.
	Score  float64
	DF     int
	PValue float64

	// Table holds the frequency table of the chi-square based tests.
	Table []Cell
}

// Cell is one category of a frequency table.
type Cell struct {
	Label    string
	Observed int
	Expected float64
}

// Contribution returns the cell's term of the chi-square statistic.
func (c Cell) Contribution() float64 {
	if c.Expected == 0 {
		return 0
	}
	d := float64(c.Observed) - c.Expected
	return d * d / c.Expected
}

func validateAlpha(alpha float64) error {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return fmt.Errorf("%w, got %v", ErrInvalidAlpha, alpha)
	}
	return nil
}

// chiSquareStatistic sums the contributions of every cell.
func chiSquareStatistic(table []Cell) float64 {
	stat := 0.0
	for _, c := range table {
		stat += c.Contribution()
	}
	return stat
}
