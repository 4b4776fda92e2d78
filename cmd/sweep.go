package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/recorder"
	"github.com/production-sim/production-sim/sim/report"
)

var (
	sweepOutput string   // CSV output path
	sweepPlot   string   // PNG output path
	sweepDB     string   // SQLite results database
	sweepTop    int      // Rows printed in the ranking
	sweepPolicy string   // Base policy spec overriding the scenario's
	sweepRanges []string // Swept parameters overriding the scenario's
)

// sweepCmd evaluates a policy over a parameter grid
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep policy parameters and write the mean net result per grid point",
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadScenario(cmd)
		if err := applySweepFlags(cmd, sc); err != nil {
			logrus.Fatalf("%v", err)
		}
		if sc.Sweep == nil {
			logrus.Fatalf("Nothing to sweep: the scenario has no sweep section and no --range was given")
		}
		arms, err := sc.Sweep.Arms()
		if err != nil {
			logrus.Fatalf("Invalid sweep: %v", err)
		}
		runner, err := experiment.NewRunner(sc)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		prog := newProgress()
		runner.OnArmDone = prog.armDone
		logrus.Infof("Sweeping %s over %d points, %d replications each, %d workers",
			sc.Sweep.Policy.Name, len(arms), sc.Replications, sc.Workers)

		results, err := runner.Run(context.Background(), arms)
		prog.finish()
		if err != nil {
			logrus.Fatalf("Sweep failed: %v", err)
		}

		rows := report.Rows(results)
		if err := report.SaveSweepCSV(sweepOutput, rows); err != nil {
			logrus.Fatalf("Failed to write results: %v", err)
		}
		logrus.Infof("Wrote %s", sweepOutput)
		out := cmd.OutOrStdout()
		report.WriteRanking(out, "best parameters", rows, sweepTop)
		if sweepPlot != "" {
			title := fmt.Sprintf("%s: mean net result", sc.Sweep.Policy.Name)
			if err := report.PlotSweep(sweepPlot, title, strings.Join(sc.Sweep.ParamNames(), " / "), rows); err != nil {
				logrus.Fatalf("Failed to plot: %v", err)
			}
			logrus.Infof("Wrote %s", sweepPlot)
		}
		recordResults(sweepDB, recorder.KindSweep, sc, results)
	},
}

// applySweepFlags replaces the scenario's sweep policy and ranges with
// --policy and --range when they are set.
func applySweepFlags(c *cobra.Command, sc *experiment.Scenario) error {
	if !c.Flags().Changed("policy") && !c.Flags().Changed("range") {
		return nil
	}
	sweep := &experiment.SweepSpec{}
	if sc.Sweep != nil {
		sweep.Policy = sc.Sweep.Policy
		sweep.Params = sc.Sweep.Params
	}
	if c.Flags().Changed("policy") {
		spec, err := parsePolicySpec(sweepPolicy)
		if err != nil {
			return fmt.Errorf("invalid --policy: %w", err)
		}
		sweep.Policy = spec
	}
	if c.Flags().Changed("range") {
		sweep.Params = nil
		for _, r := range sweepRanges {
			p, err := parseSweepParam(r)
			if err != nil {
				return fmt.Errorf("invalid --range: %w", err)
			}
			sweep.Params = append(sweep.Params, p)
		}
	}
	if err := sweep.Validate(); err != nil {
		return fmt.Errorf("invalid sweep: %w", err)
	}
	sc.Sweep = sweep
	return nil
}

func init() {
	registerScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepOutput, "output", "resultados.csv", "CSV file for the per-point results")
	sweepCmd.Flags().StringVar(&sweepPlot, "plot", "", "PNG of the mean net result with confidence intervals")
	sweepCmd.Flags().StringVar(&sweepDB, "db", "", "SQLite database to record the run in")
	sweepCmd.Flags().IntVar(&sweepTop, "top", 5, "Best points to print (0 = all)")
	sweepCmd.Flags().StringVar(&sweepPolicy, "policy", "", "Policy to sweep, as name or name:key=value (fixed params)")
	sweepCmd.Flags().StringArrayVar(&sweepRanges, "range", nil, "Swept parameter as name=from:to:step or name=v1;v2 (repeatable)")
}
