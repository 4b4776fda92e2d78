package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/lcg"
	"github.com/production-sim/production-sim/sim/randtest"
)

// Drawn is one schedule together with the sequence it was built from.
type Drawn struct {
	Schedule sim.Schedule
	Draws    []float64
	Seed     uint64
	Attempts int // 1 when acceptance is disabled
}

// ScheduleSource turns generator seeds into demand schedules. When
// acceptance is enabled every sequence must pass the battery first.
type ScheduleSource struct {
	start     time.Time
	days      int
	dayTypes  string
	calendar  *sim.Calendar
	models    sim.DemandModels
	generator lcg.Params
	accept    AcceptanceConfig

	// OnAttempt is called after every candidate sequence is tested. It may
	// be called from several goroutines at once.
	OnAttempt func(attempt int, seed uint64, accepted bool)
}

// NewScheduleSource builds a source from a validated scenario.
func NewScheduleSource(sc *Scenario) (*ScheduleSource, error) {
	start, err := sc.Start()
	if err != nil {
		return nil, err
	}
	cal, err := sim.NewCalendar(sc.Calendar.Weekend)
	if err != nil {
		return nil, fmt.Errorf("calendar.weekend: %w", err)
	}
	models, err := sc.DemandModels()
	if err != nil {
		return nil, err
	}
	return &ScheduleSource{
		start:     start,
		days:      sc.Days,
		dayTypes:  sc.DayTypes,
		calendar:  cal,
		models:    models,
		generator: sc.Generator.Params(),
		accept:    sc.Acceptance,
	}, nil
}

// Calendar returns the calendar used to type days.
func (s *ScheduleSource) Calendar() *sim.Calendar {
	return s.calendar
}

// Next draws a seed from seeds and returns the resulting schedule.
func (s *ScheduleSource) Next(ctx context.Context, seeds *rand.Rand) (*Drawn, error) {
	if !s.accept.Enabled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := randtest.DrawSeed(seeds, s.generator.M)
		draws, err := lcg.Generate(s.generator.WithSeed(seed), s.days)
		if err != nil {
			return nil, err
		}
		return &Drawn{Schedule: s.Build(draws), Draws: draws, Seed: seed, Attempts: 1}, nil
	}

	acceptor := &randtest.Acceptor{
		Battery:     s.accept.Battery,
		Generator:   s.generator,
		MaxAttempts: s.accept.MaxAttempts,
		Seeds:       seeds,
		OnAttempt:   s.OnAttempt,
	}
	acc, err := acceptor.Accept(ctx, s.days)
	if err != nil {
		return nil, err
	}
	return &Drawn{Schedule: s.Build(acc.Values), Draws: acc.Values, Seed: acc.Seed, Attempts: acc.Attempts}, nil
}

// Replications returns n schedules drawn in sequence from seeds.
func (s *ScheduleSource) Replications(ctx context.Context, seeds *rand.Rand, n int) ([]sim.Schedule, error) {
	out := make([]sim.Schedule, n)
	for i := range out {
		d, err := s.Next(ctx, seeds)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i+1, err)
		}
		out[i] = d.Schedule
	}
	return out, nil
}

// Build turns draws into a schedule starting at the scenario start date,
// keeping only the selected day types.
func (s *ScheduleSource) Build(draws []float64) sim.Schedule {
	sched := sim.BuildSchedule(s.start, draws, s.calendar, s.models)
	switch s.dayTypes {
	case DayTypesWeekday:
		return sched.OfType(sim.Weekday)
	case DayTypesWeekend:
		return sched.OfType(sim.Weekend)
	default:
		return sched
	}
}
