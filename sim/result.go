package sim

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Prices holds the per-unit economics of the vendor.
type Prices struct {
	UnitPrice    decimal.Decimal `yaml:"unit_price"`    // revenue per unit sold
	ShortageCost decimal.Decimal `yaml:"shortage_cost"` // cost per unit of unmet demand
	SurplusCost  decimal.Decimal `yaml:"surplus_cost"`  // cost per unit wasted
}

// DefaultPrices returns price 10, shortage cost 10 and surplus cost 7.
func DefaultPrices() Prices {
	return Prices{
		UnitPrice:    decimal.NewFromInt(10),
		ShortageCost: decimal.NewFromInt(10),
		SurplusCost:  decimal.NewFromInt(7),
	}
}

// Validate rejects negative prices.
func (p Prices) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"unit_price":    p.UnitPrice,
		"shortage_cost": p.ShortageCost,
		"surplus_cost":  p.SurplusCost,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s must be non-negative, got %s", name, v)
		}
	}
	return nil
}

// Result accumulates the outcome of one simulated run.
type Result struct {
	Revenue      decimal.Decimal
	ShortageCost decimal.Decimal
	SurplusCost  decimal.Decimal

	Days     int
	Demand   int
	Produced int
	Sold     int
	Short    int
	Wasted   int
	Leftover int // carried past the last day, not costed
}

// TotalCost is the sum of shortage and surplus costs.
func (r Result) TotalCost() decimal.Decimal {
	return r.ShortageCost.Add(r.SurplusCost)
}

// Net is revenue minus total cost.
func (r Result) Net() decimal.Decimal {
	return r.Revenue.Sub(r.TotalCost())
}

// NetFloat returns Net as a float64 for statistics.
func (r Result) NetFloat() float64 {
	return r.Net().InexactFloat64()
}

// FillRate is the share of demand that was served, or 1 with no demand.
func (r Result) FillRate() float64 {
	if r.Demand == 0 {
		return 1
	}
	return float64(r.Sold) / float64(r.Demand)
}
