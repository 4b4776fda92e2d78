package policy

import (
	"fmt"

	"github.com/production-sim/production-sim/sim"
)

// Constant produces a fixed quantity per day type.
type Constant struct {
	Weekday int
	Weekend int
	name    string
}

func newConstant(weekday, weekend int, name string) (*Constant, error) {
	if weekday < 0 || weekend < 0 {
		return nil, fmt.Errorf("production must be non-negative, got %d/%d", weekday, weekend)
	}
	return &Constant{Weekday: weekday, Weekend: weekend, name: name}, nil
}

// NewConstant returns a policy producing p units every day.
func NewConstant(p int) *Constant {
	return &Constant{Weekday: p, Weekend: p, name: "constant"}
}

func (c *Constant) Name() string { return c.name }

func (c *Constant) Produce(day sim.Day, _ *sim.History) int {
	if day.Type == sim.Weekend {
		return c.Weekend
	}
	return c.Weekday
}

// PreviousDemand produces yesterday's demand plus Offset, and Initial on the first day.
type PreviousDemand struct {
	Offset  int
	Initial int
}

func (p *PreviousDemand) Name() string { return "previous-demand" }

func (p *PreviousDemand) Produce(_ sim.Day, h *sim.History) int {
	last, ok := h.Last()
	if !ok {
		return p.Initial
	}
	return last + p.Offset
}

// MovingAverage produces the average of recent demands, rounded to a
// multiple of RoundTo.
//
// Window 0 averages every earlier day. With PerDayType the average only
// looks at earlier days of the same type. Until Window observations exist
// the policy produces the initial quantity of the day type; with
// PartialWarmup it averages whatever is available after the first day.
type MovingAverage struct {
	Window         int
	WeekdayInitial int
	WeekendInitial int
	PerDayType     bool
	PartialWarmup  bool
	RoundTo        int
}

func newMovingAverage(m MovingAverage) (*MovingAverage, error) {
	if m.Window < 0 {
		return nil, fmt.Errorf("window must be non-negative, got %d", m.Window)
	}
	if m.RoundTo < 1 {
		return nil, fmt.Errorf("round_to must be at least 1, got %d", m.RoundTo)
	}
	if m.WeekdayInitial < 0 || m.WeekendInitial < 0 {
		return nil, fmt.Errorf("initial production must be non-negative")
	}
	return &m, nil
}

func (m *MovingAverage) Name() string { return "moving-average" }

func (m *MovingAverage) Produce(day sim.Day, h *sim.History) int {
	available := h.Len()
	if m.PerDayType {
		available = h.CountOfType(day.Type)
	}

	window := m.Window
	if window == 0 {
		window = available
	}
	if available == 0 || (available < window && !m.PartialWarmup) {
		return m.initial(day.Type)
	}

	var recent []int
	if m.PerDayType {
		recent = h.TailOfType(day.Type, window)
	} else {
		recent = h.Tail(window)
	}
	return roundTo(mean(recent), m.RoundTo)
}

func (m *MovingAverage) initial(t sim.DayType) int {
	if t == sim.Weekend {
		return m.WeekendInitial
	}
	return m.WeekdayInitial
}

// MinShortage looks at the day's own demand and picks, among the candidates
// Min..Max, the smallest production with the least shortage. It is an
// oracle used as a reference bound: the first day produces Initial.
type MinShortage struct {
	Initial int
	Min     int
	Max     int
}

func newMinShortage(initial, lo, hi int) (*MinShortage, error) {
	if lo < 0 || hi < lo {
		return nil, fmt.Errorf("candidate range [%d, %d] is invalid", lo, hi)
	}
	if initial < 0 {
		return nil, fmt.Errorf("initial must be non-negative, got %d", initial)
	}
	return &MinShortage{Initial: initial, Min: lo, Max: hi}, nil
}

func (m *MinShortage) Name() string { return "min-shortage" }

func (m *MinShortage) Produce(day sim.Day, h *sim.History) int {
	if h.Len() == 0 {
		return m.Initial
	}
	// shortage max(0, D-P) is non-increasing in P and zero from P = D on
	return min(max(day.Demand, m.Min), m.Max)
}

// MaxLastN produces the largest of the last Window demands of the same day
// type, or Initial until Window such days have been observed.
type MaxLastN struct {
	Window  int
	Initial int
}

func (m *MaxLastN) Name() string { return "max-last-n" }

func (m *MaxLastN) Produce(day sim.Day, h *sim.History) int {
	if h.CountOfType(day.Type) < m.Window {
		return m.Initial
	}
	best := 0
	for _, d := range h.TailOfType(day.Type, m.Window) {
		best = max(best, d)
	}
	return best
}
