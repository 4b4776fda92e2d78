package randtest

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/production-sim/production-sim/sim/internal/testutil"
)

func TestMeanTest_AcceptanceBounds(t *testing.T) {
	// GIVEN 100 evenly spread values with mean exactly 0.5
	out, err := MeanTest(testutil.UniformGrid(100), 0.05)
	require.NoError(t, err)

	// THEN the band is 0.5 ± 1.96·(1/√12)/10 and the sequence passes
	testutil.AssertFloat64Equal(t, "lower", 0.5-0.0565793, out.Lower, 1e-6)
	testutil.AssertFloat64Equal(t, "upper", 0.5+0.0565793, out.Upper, 1e-6)
	assert.True(t, out.Passed)
	assert.InDelta(t, 0.5, out.Statistic, 1e-12)
	assert.InDelta(t, 1.0, out.PValue, 1e-9)
	assert.Equal(t, TestMean, out.Test)
}

func TestMeanTest_RejectsShiftedSequence(t *testing.T) {
	out, err := MeanTest(testutil.Repeat(0.9, 100), 0.05)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Greater(t, out.Score, 0.0)
	assert.Less(t, out.PValue, 0.05)
}

func TestMeanTest_Errors(t *testing.T) {
	_, err := MeanTest(nil, 0.05)
	assert.ErrorIs(t, err, ErrEmptySequence)

	for _, alpha := range []float64{0, 1, -0.1, 1.5} {
		_, err := MeanTest([]float64{0.5}, alpha)
		assert.ErrorIs(t, err, ErrInvalidAlpha, "alpha=%v", alpha)
	}
}

func TestVarianceTest_Band(t *testing.T) {
	// GIVEN the evenly spread grid (sample variance 0.0841667)
	out, err := VarianceTest(testutil.UniformGrid(100), 0.05)
	require.NoError(t, err)

	// THEN the band uses df=99 chi-square quantiles 73.36 and 128.42
	assert.Equal(t, 99, out.DF)
	testutil.AssertFloat64Equal(t, "lower", 0.0642413, out.Lower, 1e-5)
	testutil.AssertFloat64Equal(t, "upper", 0.1124575, out.Upper, 1e-5)
	testutil.AssertFloat64Equal(t, "variance", 0.0841667, out.Statistic, 1e-5)
	testutil.AssertFloat64Equal(t, "score", 99*0.0841667*12, out.Score, 1e-5)
	assert.True(t, out.Passed)
}

func TestVarianceTest_RejectsConstantSequence(t *testing.T) {
	out, err := VarianceTest(testutil.Repeat(0.5, 100), 0.05)
	require.NoError(t, err)
	assert.False(t, out.Passed)
	assert.Equal(t, 0.0, out.Statistic)
}

func TestVarianceTest_NeedsTwoValues(t *testing.T) {
	_, err := VarianceTest([]float64{0.3}, 0.05)
	assert.ErrorIs(t, err, ErrTooFewObservations)
	_, err = VarianceTest(nil, 0.05)
	assert.ErrorIs(t, err, ErrEmptySequence)
}

func TestChiSquareTest_PerfectlyUniform(t *testing.T) {
	// GIVEN exactly 10 values in each of the 10 intervals
	out, err := ChiSquareTest(testutil.UniformGrid(100), 10, 0.05)
	require.NoError(t, err)

	// THEN the statistic is zero and the critical value is χ²(0.95, 9)
	assert.InDelta(t, 0.0, out.Statistic, 1e-12)
	testutil.AssertFloat64Equal(t, "critical", 16.918978, out.Upper, 1e-6)
	assert.Equal(t, 9, out.DF)
	assert.True(t, out.Passed)
	require.Len(t, out.Table, 10)
	for _, c := range out.Table {
		assert.Equal(t, 10, c.Observed)
		assert.Equal(t, 10.0, c.Expected)
	}
	assert.Equal(t, "[0.00, 0.10)", out.Table[0].Label)
}

func TestChiSquareTest_RejectsConcentratedSequence(t *testing.T) {
	// GIVEN every value in the first interval
	out, err := ChiSquareTest(testutil.Repeat(0.05, 100), 10, 0.05)
	require.NoError(t, err)

	// THEN the statistic is (100-10)²/10 + 9·10 = 900
	assert.InDelta(t, 900.0, out.Statistic, 1e-9)
	assert.False(t, out.Passed)
	assert.Less(t, out.PValue, 1e-6)
}

func TestChiSquareTest_LastIntervalIncludesOne(t *testing.T) {
	out, err := ChiSquareTest([]float64{0.25, 1.0}, 2, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Table[0].Observed)
	assert.Equal(t, 1, out.Table[1].Observed)
}

func TestChiSquareTest_BoundaryValueGoesToUpperInterval(t *testing.T) {
	out, err := ChiSquareTest([]float64{0.5, 0.5, 0.1, 0.9}, 2, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Table[0].Observed)
	assert.Equal(t, 3, out.Table[1].Observed)
}

func TestChiSquareTest_EdgesAreMultiplesOfTheStep(t *testing.T) {
	// GIVEN four-decimal values sitting on the nominal tenths
	seq := []float64{0.3, 0.6, 0.7, 0.5, 0.05, 0.15, 0.25, 0.45, 0.85, 0.95}

	// WHEN binned into 10 classes
	out, err := ChiSquareTest(seq, 10, 0.05)
	require.NoError(t, err)

	// THEN 0.3, 0.6 and 0.7 fall below the edges 3*0.1, 6*0.1 and 7*0.1
	// while 0.5 equals 5*0.1 and moves up
	observed := make([]int, len(out.Table))
	for i, c := range out.Table {
		observed[i] = c.Observed
	}
	assert.Equal(t, []int{1, 1, 2, 0, 1, 2, 1, 0, 1, 1}, observed)
}

func TestChiSquareTest_TooFewObservations(t *testing.T) {
	_, err := ChiSquareTest([]float64{0.1, 0.2, 0.3}, 10, 0.05)
	assert.ErrorIs(t, err, ErrTooFewObservations)

	_, err = ChiSquareTest([]float64{0.1, 0.2}, 1, 0.05)
	assert.Error(t, err)
}

func TestDigits(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0.0966, "09660"},
		{0.1, "10000"},
		{0, "00000"},
		{0.12345, "12345"},
		{0.123456, "12345"},
		{0.9999, "99990"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Digits(tt.v, 5), "Digits(%v)", tt.v)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		group string
		want  Hand
	}{
		{"12345", AllDifferent},
		{"98760", AllDifferent},
		{"11234", OnePair},
		{"12344", OnePair},
		{"11224", TwoPairs},
		{"12233", TwoPairs},
		{"11123", ThreeOfAKind},
		{"33321", ThreeOfAKind},
		{"11122", FullHouse},
		{"23332", FullHouse},
		{"11112", FourOfAKind},
		{"12222", FourOfAKind},
		{"77777", FiveOfAKind},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.group), "Classify(%q)", tt.group)
	}
}

func TestPokerProbabilities_MatchCombinatorialCounts(t *testing.T) {
	// GIVEN every possible group of five decimal digits
	counts := make(map[Hand]int)
	for i := 0; i < 100000; i++ {
		counts[Classify(fmt.Sprintf("%05d", i))]++
	}

	// THEN the tabulated probabilities equal the exact frequencies
	total := 0.0
	for _, hp := range PokerProbabilities {
		assert.InDelta(t, hp.Probability, float64(counts[hp.Hand])/100000, 1e-12, "hand %s", hp.Hand)
		total += hp.Probability
	}
	assert.InDelta(t, 1.0, total, 1e-12)
}

// pokerSequence builds 100 values with the given hand counts.
func pokerSequence(td, onePair, twoPairs, three, full int) []float64 {
	var seq []float64
	add := func(v float64, k int) {
		for i := 0; i < k; i++ {
			seq = append(seq, v)
		}
	}
	add(0.1234, td)       // 12340
	add(0.1123, onePair)  // 11230
	add(0.1122, twoPairs) // 11220
	add(0.1112, three)    // 11120
	add(0.111, full)      // 11100
	return seq
}

func TestPokerTest_PoolsSparseHands(t *testing.T) {
	// GIVEN 100 values whose hands follow the theoretical frequencies
	seq := pokerSequence(30, 50, 11, 7, 2)
	out, err := PokerTest(seq, 5, 0.05)
	require.NoError(t, err)

	// THEN TP, P and Q (expected 1.36 together) are dropped, leaving 4 categories
	require.Len(t, out.Table, 4)
	assert.Equal(t, []string{"TD", "1P", "2P", "T"},
		[]string{out.Table[0].Label, out.Table[1].Label, out.Table[2].Label, out.Table[3].Label})
	assert.Equal(t, 3, out.DF)
	testutil.AssertFloat64Equal(t, "critical", 7.814728, out.Upper, 1e-6)
	assert.True(t, out.Passed)
}

func TestPokerTest_MergesPoolWhenLargeEnough(t *testing.T) {
	// GIVEN 500 values: TP, P and Q expect 4.5 + 2.25 + 0.05 = 6.8 together
	var seq []float64
	for i := 0; i < 5; i++ {
		seq = append(seq, pokerSequence(30, 50, 11, 7, 2)...)
	}
	out, err := PokerTest(seq, 5, 0.05)
	require.NoError(t, err)

	require.Len(t, out.Table, 5)
	pooled := out.Table[4]
	assert.Equal(t, PooledLabel, pooled.Label)
	assert.Equal(t, 10, pooled.Observed)
	assert.InDelta(t, 6.8, pooled.Expected, 1e-9)
	assert.Equal(t, 4, out.DF)
}

func TestPokerTest_RejectsSingleHand(t *testing.T) {
	out, err := PokerTest(pokerSequence(100, 0, 0, 0, 0), 5, 0.05)
	require.NoError(t, err)
	assert.False(t, out.Passed)
}

func TestPokerTest_Errors(t *testing.T) {
	_, err := PokerTest(testutil.UniformGrid(100), 4, 0.05)
	assert.ErrorIs(t, err, ErrUnsupportedGroupSize)

	_, err = PokerTest(nil, 5, 0.05)
	assert.ErrorIs(t, err, ErrEmptySequence)

	// 10 values: every hand is pooled into one category, leaving no degrees of freedom
	_, err = PokerTest(testutil.UniformGrid(10), 5, 0.05)
	assert.ErrorIs(t, err, ErrTooFewObservations)
}

func TestCell_Contribution(t *testing.T) {
	assert.InDelta(t, 0.4, Cell{Observed: 12, Expected: 10}.Contribution(), 1e-12)
	assert.Equal(t, 0.0, Cell{Observed: 3}.Contribution())
}
