package sim

import (
	"fmt"
	"slices"
	"time"
)

// Day is one simulated day: its calendar position, the uniform draw that
// generated it and the resulting demand.
type Day struct {
	Index  int // 1-based
	Date   time.Time
	Type   DayType
	Draw   float64
	Demand int
}

// Schedule is an ordered run of simulated days.
type Schedule []Day

// BuildSchedule turns a sequence of draws into consecutive days starting at
// start. Day i uses draws[i] and the demand model of its day type.
func BuildSchedule(start time.Time, draws []float64, cal *Calendar, models DemandModels) Schedule {
	sched := make(Schedule, len(draws))
	for i, r := range draws {
		date := start.AddDate(0, 0, i)
		t := cal.TypeOf(date)
		sched[i] = Day{
			Index:  i + 1,
			Date:   date,
			Type:   t,
			Draw:   r,
			Demand: models.For(t).Demand(r),
		}
	}
	return sched
}

// NewSchedule builds a schedule from known demands, e.g. to replay a
// recorded demand history. Dates are left zero.
func NewSchedule(demands []int, types []DayType) (Schedule, error) {
	if len(demands) != len(types) {
		return nil, fmt.Errorf("got %d demands for %d day types", len(demands), len(types))
	}
	sched := make(Schedule, len(demands))
	for i := range demands {
		if demands[i] < 0 {
			return nil, fmt.Errorf("day %d: demand must be non-negative, got %d", i+1, demands[i])
		}
		sched[i] = Day{Index: i + 1, Type: types[i], Demand: demands[i]}
	}
	return sched, nil
}

// Demands returns the demand of every day in order.
func (s Schedule) Demands() []int {
	out := make([]int, len(s))
	for i, d := range s {
		out[i] = d.Demand
	}
	return out
}

// TotalDemand sums the demand of every day.
func (s Schedule) TotalDemand() int {
	total := 0
	for _, d := range s {
		total += d.Demand
	}
	return total
}

// History is the demand observed so far, available to production policies.
// Only days before the current one are recorded.
type History struct {
	demands []int
	byType  map[DayType][]int
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{byType: make(map[DayType][]int)}
}

// Record appends a completed day.
func (h *History) Record(d Day) {
	h.demands = append(h.demands, d.Demand)
	h.byType[d.Type] = append(h.byType[d.Type], d.Demand)
}

// Len returns the number of recorded days.
func (h *History) Len() int {
	return len(h.demands)
}

// Last returns the most recent demand, if any.
func (h *History) Last() (int, bool) {
	if len(h.demands) == 0 {
		return 0, false
	}
	return h.demands[len(h.demands)-1], true
}

// Tail returns up to n most recent demands, oldest first.
func (h *History) Tail(n int) []int {
	return tail(h.demands, n)
}

// CountOfType returns the number of recorded days of type t.
func (h *History) CountOfType(t DayType) int {
	return len(h.byType[t])
}

// TailOfType returns up to n most recent demands of days of type t, oldest first.
func (h *History) TailOfType(t DayType, n int) []int {
	return tail(h.byType[t], n)
}

func tail(values []int, n int) []int {
	if n <= 0 {
		return nil
	}
	if n > len(values) {
		n = len(values)
	}
	return slices.Clone(values[len(values)-n:])
}

// OfType returns the days of type t, keeping their original indices.
func (s Schedule) OfType(t DayType) Schedule {
	out := make(Schedule, 0, len(s))
	for _, d := range s {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}
