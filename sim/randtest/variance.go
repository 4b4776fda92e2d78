package randtest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// VarianceTest checks the unbiased sample variance against the band
// [df·σ²/χ²(1-α/2), df·σ²/χ²(α/2)] with df = n-1 and σ² = 1/12.
func VarianceTest(seq []float64, alpha float64) (Outcome, error) {
	if err := validateAlpha(alpha); err != nil {
		return Outcome{}, err
	}
	n := len(seq)
	if n == 0 {
		return Outcome{}, ErrEmptySequence
	}
	if n < 2 {
		return Outcome{}, fmt.Errorf("%w: variance test needs at least 2 values, got %d", ErrTooFewObservations, n)
	}

	df := n - 1
	variance := stat.Variance(seq, nil)
	chi := distuv.ChiSquared{K: float64(df)}
	chiLow := chi.Quantile(alpha / 2)
	chiHigh := chi.Quantile(1 - alpha/2)

	lower := float64(df) * UniformVariance / chiHigh
	upper := float64(df) * UniformVariance / chiLow
	score := float64(df) * variance / UniformVariance

	return Outcome{
		Test:      TestVariance,
		Passed:    lower <= variance && variance <= upper,
		N:         n,
		Alpha:     alpha,
		Statistic: variance,
		Lower:     lower,
		Upper:     upper,
		Score:     score,
		DF:        df,
		PValue:    2 * math.Min(chi.CDF(score), chi.Survival(score)),
	}, nil
}
