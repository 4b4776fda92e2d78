// Package trace provides per-day decision recording for production policies.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DayRecord captures one day of a simulated run.
type DayRecord struct {
	Day        int
	DayType    string
	Demand     int
	Production int
	Carried    int // units left over from the previous day
	Sold       int
	Short      int
	Wasted     int
	Leftover   int // units carried to the next day
}

// Outcome classifies the day from the vendor's point of view.
func (r DayRecord) Outcome() string {
	switch {
	case r.Short > 0:
		return "shortage"
	case r.Wasted > 0 || r.Leftover > 0:
		return "surplus"
	}
	return "exact"
}
