package randtest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultGroupSize is the only hand size with tabulated probabilities.
const DefaultGroupSize = 5

// Hand is the repeated-digit pattern of a group of five digits.
type Hand string

const (
	AllDifferent Hand = "TD" // abcde
	OnePair      Hand = "1P" // aabcd
	TwoPairs     Hand = "2P" // aabbc
	ThreeOfAKind Hand = "T"  // aaabc
	FullHouse    Hand = "TP" // aaabb
	FourOfAKind  Hand = "P"  // aaaab
	FiveOfAKind  Hand = "Q"  // aaaaa
)

// PooledLabel names the category formed by merging sparse hands.
const PooledLabel = "others"

// HandProbability is the theoretical probability of a hand for five
// independent uniform decimal digits.
type HandProbability struct {
	Hand        Hand
	Probability float64
}

// PokerProbabilities lists every hand in table order with its probability.
var PokerProbabilities = []HandProbability{
	{AllDifferent, 0.3024},
	{OnePair, 0.5040},
	{TwoPairs, 0.1080},
	{ThreeOfAKind, 0.0720},
	{FullHouse, 0.0090},
	{FourOfAKind, 0.0045},
	{FiveOfAKind, 0.0001},
}

// String returns a human readable hand name.
func (h Hand) String() string {
	switch h {
	case AllDifferent:
		return "all different"
	case OnePair:
		return "one pair"
	case TwoPairs:
		return "two pairs"
	case ThreeOfAKind:
		return "three of a kind"
	case FullHouse:
		return "full house"
	case FourOfAKind:
		return "four of a kind"
	case FiveOfAKind:
		return "five of a kind"
	}
	return string(h)
}

// Digits returns the first size decimal digits of v: the digits after the
// decimal point of its shortest representation, right-padded with zeros.
func Digits(v float64, size int) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac = s[i+1:]
	}
	if len(frac) < size {
		frac += strings.Repeat("0", size-len(frac))
	}
	return frac[:size]
}

// Classify returns the hand formed by a group of five digits.
func Classify(group string) Hand {
	counts := make(map[rune]int, len(group))
	for _, r := range group {
		counts[r]++
	}
	shape := make([]int, 0, len(counts))
	for _, c := range counts {
		shape = append(shape, c)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(shape)))

	switch len(shape) {
	case 5:
		return AllDifferent
	case 4:
		return OnePair
	case 3:
		if shape[0] == 3 {
			return ThreeOfAKind
		}
		return TwoPairs
	case 2:
		if shape[0] == 4 {
			return FourOfAKind
		}
		return FullHouse
	}
	return FiveOfAKind
}

// PokerTest classifies the first five digits of every value and compares the
// hand counts with the theoretical frequencies. Hands expected fewer than 5
// times are pooled into one category when the pool reaches 5 expected
// observations, and dropped otherwise.
func PokerTest(seq []float64, groupSize int, alpha float64) (Outcome, error) {
	if err := validateAlpha(alpha); err != nil {
		return Outcome{}, err
	}
	if groupSize != DefaultGroupSize {
		return Outcome{}, fmt.Errorf("%w: %d (only %d is tabulated)", ErrUnsupportedGroupSize, groupSize, DefaultGroupSize)
	}
	n := len(seq)
	if n == 0 {
		return Outcome{}, ErrEmptySequence
	}

	observed := make(map[Hand]int, len(PokerProbabilities))
	for _, v := range seq {
		observed[Classify(Digits(v, groupSize))]++
	}

	table := make([]Cell, 0, len(PokerProbabilities)+1)
	pooled := Cell{Label: PooledLabel}
	for _, hp := range PokerProbabilities {
		expected := hp.Probability * float64(n)
		if expected >= minExpected {
			table = append(table, Cell{Label: string(hp.Hand), Observed: observed[hp.Hand], Expected: expected})
			continue
		}
		pooled.Observed += observed[hp.Hand]
		pooled.Expected += expected
	}
	if pooled.Expected >= minExpected {
		table = append(table, pooled)
	}

	df := len(table) - 1
	if df < 1 {
		return Outcome{}, fmt.Errorf("%w: %d values leave %d usable hand categories", ErrTooFewObservations, n, len(table))
	}

	chi := distuv.ChiSquared{K: float64(df)}
	statistic := chiSquareStatistic(table)
	critical := chi.Quantile(1 - alpha)

	return Outcome{
		Test:      TestPoker,
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
