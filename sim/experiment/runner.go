package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/policy"
	"github.com/production-sim/production-sim/sim/stats"
	"github.com/production-sim/production-sim/sim/trace"
)

// ArmResult is the outcome of one arm over every replication.
type ArmResult struct {
	Arm      Arm
	Interval stats.Interval
	Nets     []float64
	Results  []sim.Result
	// Trace holds the first replication when the scenario traces days.
	Trace *trace.ProductionTrace
}

// Totals sums the unit counters over every replication.
func (r ArmResult) Totals() sim.Result {
	var t sim.Result
	for _, res := range r.Results {
		t.Revenue = t.Revenue.Add(res.Revenue)
		t.ShortageCost = t.ShortageCost.Add(res.ShortageCost)
		t.SurplusCost = t.SurplusCost.Add(res.SurplusCost)
		t.Days += res.Days
		t.Demand += res.Demand
		t.Produced += res.Produced
		t.Sold += res.Sold
		t.Short += res.Short
		t.Wasted += res.Wasted
		t.Leftover += res.Leftover
	}
	return t
}

// Runner evaluates arms over replicated schedules on a fixed-size worker pool.
type Runner struct {
	Scenario *Scenario
	Source   *ScheduleSource
	// OnArmDone, when set, is called once per finished arm from the worker
	// that finished it.
	OnArmDone func(done, total int)
}

// NewRunner validates sc and prepares its schedule source.
func NewRunner(sc *Scenario) (*Runner, error) {
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	src, err := NewScheduleSource(sc)
	if err != nil {
		return nil, err
	}
	return &Runner{Scenario: sc, Source: src}, nil
}

// Run evaluates every arm and returns the results in arm order.
//
// With common random numbers the schedules are drawn once from the
// schedules stream and shared read-only by every arm; otherwise each arm
// draws its own from a stream derived from its ID. Either way results do
// not depend on the number of workers. The first error cancels the
// remaining arms and no partial results are returned.
func (r *Runner) Run(ctx context.Context, arms []Arm) ([]ArmResult, error) {
	sc := r.Scenario
	rng := sim.NewPartitionedRNG(sc.Key())

	var shared []sim.Schedule
	if sc.CommonRandomNumbers {
		var err error
		shared, err = r.Source.Replications(ctx, rng.ForSubsystem(sim.SubsystemSchedules), sc.Replications)
		if err != nil {
			return nil, fmt.Errorf("drawing schedules: %w", err)
		}
	}

	// derive every stream before fanning out
	seeds := make([]int64, len(arms))
	for i, arm := range arms {
		seeds[i] = rng.SeedFor(sim.SubsystemArm(arm.ID))
	}

	results := make([]ArmResult, len(arms))
	var done atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.Workers)
	for i := range arms {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scheds := shared
			if scheds == nil {
				var err error
				scheds, err = r.Source.Replications(gctx, rand.New(rand.NewSource(seeds[i])), sc.Replications)
				if err != nil {
					return fmt.Errorf("arm %s: %w", arms[i].Label, err)
				}
			}
			res, err := r.runArm(arms[i], scheds)
			if err != nil {
				return err
			}
			results[i] = res
			logrus.Debugf("arm %s: mean %.2f ± %.2f over %d replications",
				arms[i].Label, res.Interval.Mean, res.Interval.Delta, len(res.Nets))
			n := done.Add(1)
			if r.OnArmDone != nil {
				r.OnArmDone(int(n), len(arms))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) runArm(arm Arm, scheds []sim.Schedule) (ArmResult, error) {
	sc := r.Scenario
	pol, err := policy.New(arm.Policy)
	if err != nil {
		return ArmResult{}, fmt.Errorf("arm %s: %w", arm.Label, err)
	}
	opts := sc.Options()
	out := ArmResult{
		Arm:     arm,
		Nets:    make([]float64, len(scheds)),
		Results: make([]sim.Result, len(scheds)),
	}
	for j, sched := range scheds {
		var tr *trace.ProductionTrace
		if j == 0 && trace.TraceLevel(sc.Trace) == trace.TraceLevelDays {
			tr = trace.NewProductionTrace(arm.Label)
			out.Trace = tr
		}
		res := sim.Simulate(pol, sched, opts, tr)
		out.Results[j] = res
		out.Nets[j] = res.NetFloat()
	}
	out.Interval, err = stats.NewInterval(out.Nets, sc.Confidence.Alpha, sc.Confidence.Method)
	if err != nil {
		return ArmResult{}, fmt.Errorf("arm %s: %w", arm.Label, err)
	}
	return out, nil
}

// RunSweep expands the scenario's sweep and runs every grid point.
func RunSweep(ctx context.Context, sc *Scenario) ([]ArmResult, error) {
	if sc.Sweep == nil {
		return nil, fmt.Errorf("scenario %q has no sweep section", sc.Name)
	}
	r, err := NewRunner(sc)
	if err != nil {
		return nil, err
	}
	arms, err := sc.Sweep.Arms()
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	return r.Run(ctx, arms)
}

// RunComparison runs every policy of the scenario.
func RunComparison(ctx context.Context, sc *Scenario) ([]ArmResult, error) {
	if len(sc.Policies) == 0 {
		return nil, fmt.Errorf("scenario %q lists no policies", sc.Name)
	}
	r, err := NewRunner(sc)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, ComparisonArms(sc.Policies))
}
