package sim

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultWeekendSpec marks Friday, Saturday and Sunday as weekend days.
const DefaultWeekendSpec = "0 0 * * 5,6,0"

// DateLayout is the layout used for dates in scenarios and flags.
const DateLayout = "2006-01-02"

// DayType distinguishes the two demand regimes.
type DayType int

const (
	Weekday DayType = iota
	Weekend
)

// DayTypes lists every day type in a stable order.
var DayTypes = []DayType{Weekday, Weekend}

func (d DayType) String() string {
	if d == Weekend {
		return "weekend"
	}
	return "weekday"
}

// Calendar classifies dates using a cron expression whose firing days are
// the weekend days. Only the day fields of the expression matter: a date is
// a weekend day when the schedule fires at any time during it.
type Calendar struct {
	spec     string
	schedule cron.Schedule
}

// NewCalendar parses a standard five-field cron expression (or descriptor).
func NewCalendar(weekendSpec string) (*Calendar, error) {
	schedule, err := cron.ParseStandard(weekendSpec)
	if err != nil {
		return nil, fmt.Errorf("parsing weekend expression %q: %w", weekendSpec, err)
	}
	return &Calendar{spec: weekendSpec, schedule: schedule}, nil
}

// DefaultCalendar returns the Friday–Sunday weekend calendar.
func DefaultCalendar() *Calendar {
	c, err := NewCalendar(DefaultWeekendSpec)
	if err != nil {
		panic(err)
	}
	return c
}

// Spec returns the cron expression the calendar was built from.
func (c *Calendar) Spec() string {
	return c.spec
}

// TypeOf returns the day type of date, evaluated in date's location.
func (c *Calendar) TypeOf(date time.Time) DayType {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	next := c.schedule.Next(start.Add(-time.Second))
	if next.Before(start.AddDate(0, 0, 1)) {
		return Weekend
	}
	return Weekday
}

// CountOfType counts the days of type t among n consecutive days from start.
func (c *Calendar) CountOfType(start time.Time, n int, t DayType) int {
	count := 0
	for i := 0; i < n; i++ {
		if c.TypeOf(start.AddDate(0, 0, i)) == t {
			count++
		}
	}
	return count
}
