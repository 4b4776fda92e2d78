package sim

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/production-sim/production-sim/sim/trace"
)

// Policy decides how many units to produce on a day.
// Implementations must not keep per-run state: everything they may use
// flows through the day and the history, so one value can serve many
// concurrent runs.
type Policy interface {
	Name() string
	// Produce returns the production for day given the demand history of
	// earlier days. Policies that look at day.Demand are oracles.
	Produce(day Day, history *History) int
}

// RevenueBasis selects what revenue is computed from.
type RevenueBasis string

const (
	// RevenueSold charges the unit price for every unit sold.
	RevenueSold RevenueBasis = "sold"
	// RevenueDemand charges the unit price for every unit demanded, i.e. the
	// revenue of a vendor that never runs short.
	RevenueDemand RevenueBasis = "demand"
)

// ValidRevenueBases is the set of recognized revenue bases.
var ValidRevenueBases = map[RevenueBasis]bool{RevenueSold: true, RevenueDemand: true, "": true}

// Options configures the daily ledger.
type Options struct {
	// ShelfLifeDays is 1 (unsold units are wasted the same day) or 2 (unsold
	// units may be sold the next day before fresh production).
	ShelfLifeDays int
	RevenueBasis  RevenueBasis
	Prices        Prices
}

// DefaultOptions returns a two-day shelf life with revenue on units sold.
func DefaultOptions() Options {
	return Options{ShelfLifeDays: 2, RevenueBasis: RevenueSold, Prices: DefaultPrices()}
}

// Validate checks the ledger options.
func (o Options) Validate() error {
	if o.ShelfLifeDays != 1 && o.ShelfLifeDays != 2 {
		return fmt.Errorf("shelf_life_days must be 1 or 2, got %d", o.ShelfLifeDays)
	}
	if !ValidRevenueBases[o.RevenueBasis] {
		return fmt.Errorf("unknown revenue_basis %q; valid: sold, demand", o.RevenueBasis)
	}
	return o.Prices.Validate()
}

// Simulate runs policy over sched and returns the accumulated result.
// Leftovers still on the shelf after the last day are reported but not
// costed. When tr is non-nil every day is recorded into it.
func Simulate(policy Policy, sched Schedule, opts Options, tr *trace.ProductionTrace) Result {
	price := opts.Prices.UnitPrice
	shortageCost := opts.Prices.ShortageCost
	surplusCost := opts.Prices.SurplusCost

	history := NewHistory()
	res := Result{
		Revenue:      decimal.Zero,
		ShortageCost: decimal.Zero,
		SurplusCost:  decimal.Zero,
	}
	carried := 0

	for _, day := range sched {
		produced := max(policy.Produce(day, history), 0)
		demand := day.Demand

		// yesterday's units go first
		soldOld := min(carried, demand)
		wasted := carried - soldOld
		remaining := demand - soldOld

		soldNew := min(produced, remaining)
		short := remaining - soldNew
		leftover := produced - soldNew
		if opts.ShelfLifeDays <= 1 {
			wasted += leftover
			leftover = 0
		}
		sold := soldOld + soldNew

		revenueUnits := sold
		if opts.RevenueBasis == RevenueDemand {
			revenueUnits = demand
		}
		res.Revenue = res.Revenue.Add(price.Mul(decimal.NewFromInt(int64(revenueUnits))))
		res.ShortageCost = res.ShortageCost.Add(shortageCost.Mul(decimal.NewFromInt(int64(short))))
		res.SurplusCost = res.SurplusCost.Add(surplusCost.Mul(decimal.NewFromInt(int64(wasted))))

		res.Days++
		res.Demand += demand
		res.Produced += produced
		res.Sold += sold
		res.Short += short
		res.Wasted += wasted

		if tr != nil {
			tr.RecordDay(trace.DayRecord{
				Day:        day.Index,
				DayType:    day.Type.String(),
				Demand:     demand,
				Production: produced,
				Carried:    carried,
				Sold:       sold,
				Short:      short,
				Wasted:     wasted,
				Leftover:   leftover,
			})
		}

		carried = leftover
		history.Record(day)
	}
	res.Leftover = carried
	return res
}
