package randtest

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MeanTest checks that the sample mean lies within
// 0.5 ± z(1-α/2)·σ/√n, with σ = 1/√12.
func MeanTest(seq []float64, alpha float64) (Outcome, error) {
	if err := validateAlpha(alpha); err != nil {
		return Outcome{}, err
	}
	n := len(seq)
	if n == 0 {
		return Outcome{}, ErrEmptySequence
	}

	mean := stat.Mean(seq, nil)
	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	stdErr := math.Sqrt(UniformVariance) / math.Sqrt(float64(n))
	lower := UniformMean - z*stdErr
	upper := UniformMean + z*stdErr

	score := (mean - UniformMean) / stdErr
	return Outcome{
		Test:      TestMean,
		Passed:    lower <= mean && mean <= upper,
		N:         n,
		Alpha:     alpha,
		Statistic: mean,
		Lower:     lower,
		Upper:     upper,
		Score:     score,
		PValue:    2 * distuv.UnitNormal.Survival(math.Abs(score)),
	}, nil
}
