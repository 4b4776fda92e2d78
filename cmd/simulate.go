package cmd

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/lcg"
	"github.com/production-sim/production-sim/sim/policy"
	"github.com/production-sim/production-sim/sim/recorder"
	"github.com/production-sim/production-sim/sim/report"
	"github.com/production-sim/production-sim/sim/trace"
)

var (
	simPolicy  string // Policy spec, "name:key=value,..."
	simDemands string // Recorded demands to replay
	simRuns    int    // 1 = single traced run, >1 = replicated
	simPlot    string // PNG of replicated net results
	simDB      string // SQLite results database
)

// simulateCmd runs one policy once or over replications
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate one production policy",
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadScenario(cmd)
		spec, err := parsePolicySpec(simPolicy)
		if err != nil {
			logrus.Fatalf("Invalid --policy: %v", err)
		}
		pol, err := policy.New(spec)
		if err != nil {
			logrus.Fatalf("Invalid --policy: %v", err)
		}
		if simRuns < 1 {
			logrus.Fatalf("--runs must be at least 1, got %d", simRuns)
		}
		if simRuns > 1 && simDemands != "" {
			logrus.Fatalf("--demands replays a single run; drop --runs")
		}
		out := cmd.OutOrStdout()
		ctx := context.Background()

		if simRuns > 1 {
			sc.Replications = simRuns
			runner, err := experiment.NewRunner(sc)
			if err != nil {
				logrus.Fatalf("%v", err)
			}
			prog := newProgress()
			runner.Source.OnAttempt = prog.attempt
			results, err := runner.Run(ctx, experiment.ComparisonArms([]policy.Spec{spec}))
			prog.finish()
			if err != nil {
				logrus.Fatalf("Simulation failed: %v", err)
			}
			res := results[0]
			report.WriteReplications(out, res.Arm.Label, res.Nets, res.Interval)
			report.WriteTrace(out, res.Trace)
			if simPlot != "" {
				title := fmt.Sprintf("%s: net result per replication", res.Arm.Label)
				if err := report.PlotRuns(simPlot, title, res.Nets); err != nil {
					logrus.Fatalf("Failed to plot: %v", err)
				}
				logrus.Infof("Wrote %s", simPlot)
			}
			recordResults(simDB, recorder.KindSimulation, sc, results)
			return
		}

		src, err := experiment.NewScheduleSource(sc)
		if err != nil {
			logrus.Fatalf("Failed to prepare schedule source: %v", err)
		}
		var sched sim.Schedule
		if simDemands != "" {
			start, _ := sc.Start()
			sched, err = replaySchedule(simDemands, start, src.Calendar())
			if err != nil {
				logrus.Fatalf("Failed to read demands: %v", err)
			}
		} else {
			drawn, err := src.Next(ctx, sim.NewPartitionedRNG(sc.Key()).ForSubsystem(sim.SubsystemSchedules))
			if err != nil {
				logrus.Fatalf("Failed to draw schedule: %v", err)
			}
			sched = drawn.Schedule
		}

		var tr *trace.ProductionTrace
		if trace.TraceLevel(sc.Trace) == trace.TraceLevelDays {
			tr = trace.NewProductionTrace(spec.Label())
		}
		res := sim.Simulate(pol, sched, sc.Options(), tr)
		report.WriteRun(out, spec.Label(), res)
		report.WriteTrace(out, tr)
		if simPlot != "" || simDB != "" {
			logrus.Warnf("--plot and --db need --runs > 1; ignored")
		}
	},
}

// replaySchedule reads one non-negative integer demand per line and dates
// the days consecutively from start.
func replaySchedule(path string, start time.Time, cal *sim.Calendar) (sim.Schedule, error) {
	values, err := lcg.LoadSequence(path)
	if err != nil {
		return nil, err
	}
	demands := make([]int, len(values))
	types := make([]sim.DayType, len(values))
	for i, v := range values {
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("%s: day %d: demand %v is not a whole number", path, i+1, v)
		}
		demands[i] = int(v)
		types[i] = cal.TypeOf(start.AddDate(0, 0, i))
	}
	sched, err := sim.NewSchedule(demands, types)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i := range sched {
		sched[i].Date = start.AddDate(0, 0, i)
	}
	return sched, nil
}

func init() {
	registerScenarioFlags(simulateCmd)
	simulateCmd.Flags().StringVar(&simPolicy, "policy", "constant:production=60", "Policy as name or name:key=value,key=value")
	simulateCmd.Flags().StringVar(&simDemands, "demands", "", "Replay demands from a file, one per line")
	simulateCmd.Flags().IntVar(&simRuns, "runs", 1, "Replications; 1 prints a single run")
	simulateCmd.Flags().StringVar(&simPlot, "plot", "", "PNG of the net result per replication")
	simulateCmd.Flags().StringVar(&simDB, "db", "", "SQLite database to record the run in")
}
