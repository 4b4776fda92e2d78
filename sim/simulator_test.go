package sim

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/production-sim/production-sim/sim/trace"
)

// fixedPolicy produces the same quantity every day.
type fixedPolicy int

func (p fixedPolicy) Name() string              { return "fixed" }
func (p fixedPolicy) Produce(Day, *History) int { return int(p) }

// echoPolicy produces yesterday's demand and records what it was shown.
type echoPolicy struct{ seen *[]int }

func (p echoPolicy) Name() string { return "echo" }
func (p echoPolicy) Produce(_ Day, h *History) int {
	*p.seen = append(*p.seen, h.Len())
	last, _ := h.Last()
	return last
}

func weekdays(demands ...int) Schedule {
	types := make([]DayType, len(demands))
	sched, err := NewSchedule(demands, types)
	if err != nil {
		panic(err)
	}
	return sched
}

func options(shelfLife int, basis RevenueBasis) Options {
	return Options{ShelfLifeDays: shelfLife, RevenueBasis: basis, Prices: DefaultPrices()}
}

func TestSimulate_SameDayShelfLife(t *testing.T) {
	// GIVEN demands 50, 30, 40, 20 and a constant production of 40
	res := Simulate(fixedPolicy(40), weekdays(50, 30, 40, 20), options(1, RevenueSold), nil)

	// THEN 130 units sell, 10 are short and 30 are wasted
	assert.Equal(t, 130, res.Sold)
	assert.Equal(t, 10, res.Short)
	assert.Equal(t, 30, res.Wasted)
	assert.Equal(t, 0, res.Leftover)
	assert.Equal(t, 160, res.Produced)
	assert.Equal(t, 140, res.Demand)
	assert.Equal(t, 4, res.Days)
	assert.True(t, decimal.NewFromInt(1300).Equal(res.Revenue))
	assert.True(t, decimal.NewFromInt(100).Equal(res.ShortageCost))
	assert.True(t, decimal.NewFromInt(210).Equal(res.SurplusCost))
	assert.True(t, decimal.NewFromInt(990).Equal(res.Net()))
	assert.Equal(t, 990.0, res.NetFloat())
}

func TestSimulate_TwoDayShelfLifeSellsLeftoversFirst(t *testing.T) {
	// GIVEN the same schedule with a two-day shelf life
	res := Simulate(fixedPolicy(40), weekdays(50, 30, 40, 20), options(2, RevenueSold), nil)

	// THEN leftovers cover later demand and the final 30 units are not costed
	assert.Equal(t, 130, res.Sold)
	assert.Equal(t, 10, res.Short)
	assert.Equal(t, 0, res.Wasted)
	assert.Equal(t, 30, res.Leftover)
	assert.True(t, decimal.NewFromInt(1200).Equal(res.Net()))
}

func TestSimulate_UnsoldLeftoversAreWasted(t *testing.T) {
	// GIVEN 20 units per day against demands 10 and 5
	tr := trace.NewProductionTrace("fixed")
	res := Simulate(fixedPolicy(20), weekdays(10, 5), options(2, RevenueSold), tr)

	// THEN day 2 sells 5 of yesterday's 10 units and wastes the other 5
	assert.Equal(t, 15, res.Sold)
	assert.Equal(t, 5, res.Wasted)
	assert.Equal(t, 20, res.Leftover)
	assert.True(t, decimal.NewFromInt(115).Equal(res.Net()))

	require.Len(t, tr.Days, 2)
	assert.Equal(t, trace.DayRecord{Day: 2, DayType: "weekday", Demand: 5, Production: 20, Carried: 10, Sold: 5, Wasted: 5, Leftover: 20}, tr.Days[1])
}

func TestSimulate_DemandRevenueBasis(t *testing.T) {
	res := Simulate(fixedPolicy(40), weekdays(50, 30, 40, 20), options(1, RevenueDemand), nil)
	assert.True(t, decimal.NewFromInt(1400).Equal(res.Revenue))
	assert.True(t, decimal.NewFromInt(1090).Equal(res.Net()))
}

func TestSimulate_NegativeProductionClampedToZero(t *testing.T) {
	res := Simulate(fixedPolicy(-5), weekdays(10), options(1, RevenueSold), nil)
	assert.Equal(t, 0, res.Produced)
	assert.Equal(t, 10, res.Short)
}

func TestSimulate_HistoryHoldsOnlyEarlierDays(t *testing.T) {
	var seen []int
	res := Simulate(echoPolicy{seen: &seen}, weekdays(10, 20, 30), options(1, RevenueSold), nil)

	assert.Equal(t, []int{0, 1, 2}, seen)
	assert.Equal(t, 30, res.Produced) // 0 + 10 + 20
}

func TestSimulate_Deterministic(t *testing.T) {
	sched := BuildSchedule(date(2025, 7, 6), goldenDraws, DefaultCalendar(), DefaultDemandModels())
	a := Simulate(fixedPolicy(48), sched, DefaultOptions(), nil)
	b := Simulate(fixedPolicy(48), sched, DefaultOptions(), nil)
	assert.Equal(t, a, b)
}

func TestSimulate_EmptySchedule(t *testing.T) {
	res := Simulate(fixedPolicy(40), nil, DefaultOptions(), nil)
	assert.True(t, res.Net().IsZero())
	assert.Equal(t, 1.0, res.FillRate())
}

func TestOptions_Validate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())
	assert.Error(t, options(3, RevenueSold).Validate())
	assert.Error(t, options(1, "profit").Validate())

	bad := DefaultOptions()
	bad.Prices.SurplusCost = decimal.NewFromInt(-1)
	assert.Error(t, bad.Validate())
}

func TestResult_FillRate(t *testing.T) {
	assert.InDelta(t, 0.75, Result{Demand: 40, Sold: 30}.FillRate(), 1e-12)
}
