package randtest

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultIntervals is the number of equal-width classes used by ChiSquareTest.
const DefaultIntervals = 10

// minExpected is the smallest expected class frequency for which the
// chi-square approximation is considered reliable.
const minExpected = 5

// ChiSquareTest bins the sequence into k equal-width classes over [0, 1]
// and compares the counts with the uniform expectation n/k.
// Values outside [0, 1] are not counted. The last class includes 1.
func ChiSquareTest(seq []float64, k int, alpha float64) (Outcome, error) {
	if err := validateAlpha(alpha); err != nil {
		return Outcome{}, err
	}
	if k < 2 {
		return Outcome{}, fmt.Errorf("chi-square test needs at least 2 intervals, got %d", k)
	}
	n := len(seq)
	if n == 0 {
		return Outcome{}, ErrEmptySequence
	}
	if n < k {
		return Outcome{}, fmt.Errorf("%w: %d values for %d intervals", ErrTooFewObservations, n, k)
	}
	if n < minExpected*k {
		logrus.Warnf("chi-square test: %d values give fewer than %d expected per interval", n, minExpected)
	}

	// edges are i*step, so 0.3 at k=10 sits just below 0.30000000000000004
	step := 1.0 / float64(k)
	edges := make([]float64, k+1)
	for i := range edges {
		edges[i] = float64(i) * step
	}
	counts := make([]int, k)
	for _, v := range seq {
		if v < 0 || v > 1 {
			continue
		}
		// index of the last edge <= v among edges[1:k]
		idx := sort.Search(k-1, func(j int) bool { return edges[j+1] > v })
		counts[idx]++
	}

	expected := float64(n) / float64(k)
	table := make([]Cell, k)
	for i := range table {
		table[i] = Cell{
			Label:    fmt.Sprintf("[%.2f, %.2f)", edges[i], edges[i+1]),
			Observed: counts[i],
			Expected: expected,
		}
	}

	df := k - 1
	chi := distuv.ChiSquared{K: float64(df)}
	statistic := chiSquareStatistic(table)
	critical := chi.Quantile(1 - alpha)

	return Outcome{
		Test:      TestChiSquare,
		Passed:    statistic <= critical,
		N:         n,
		Alpha:     alpha,
		Statistic: statistic,
		Lower:     0,
		Upper:     critical,
		Score:     statistic,
		DF:        df,
		PValue:    chi.Survival(statistic),
		Table:     table,
	}, nil
}
