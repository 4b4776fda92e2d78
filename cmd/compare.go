package cmd

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/policy"
	"github.com/production-sim/production-sim/sim/recorder"
	"github.com/production-sim/production-sim/sim/report"
)

var (
	compareOutput   string   // CSV output path
	comparePlot     string   // PNG output path
	compareDB       string   // SQLite results database
	comparePolicies []string // Policies overriding the scenario's list
)

// compareCmd evaluates several policies on the same schedules
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare production policies by mean net result",
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadScenario(cmd)
		if cmd.Flags().Changed("policy") {
			specs, err := parsePolicySpecs(comparePolicies)
			if err != nil {
				logrus.Fatalf("Invalid --policy: %v", err)
			}
			sc.Policies = specs
			if err := sc.Validate(); err != nil {
				logrus.Fatalf("Invalid scenario: %v", err)
			}
		}
		runner, err := experiment.NewRunner(sc)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if len(sc.Policies) == 0 {
			logrus.Fatalf("No policies to compare")
		}
		prog := newProgress()
		runner.OnArmDone = prog.armDone
		logrus.Infof("Comparing %d policies over %d replications", len(sc.Policies), sc.Replications)

		results, err := runner.Run(context.Background(), experiment.ComparisonArms(sc.Policies))
		prog.finish()
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}

		rows := report.Rows(results)
		if compareOutput != "" {
			if err := report.SaveComparisonCSV(compareOutput, rows); err != nil {
				logrus.Fatalf("Failed to write results: %v", err)
			}
			logrus.Infof("Wrote %s", compareOutput)
		}
		report.WriteRanking(cmd.OutOrStdout(), "policy ranking", rows, 0)
		if comparePlot != "" {
			if err := report.PlotComparison(comparePlot, "Mean net result by policy", rows); err != nil {
				logrus.Fatalf("Failed to plot: %v", err)
			}
			logrus.Infof("Wrote %s", comparePlot)
		}
		recordResults(compareDB, recorder.KindComparison, sc, results)
	},
}

func parsePolicySpecs(values []string) ([]policy.Spec, error) {
	specs := make([]policy.Spec, 0, len(values))
	for _, v := range values {
		spec, err := parsePolicySpec(v)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func init() {
	registerScenarioFlags(compareCmd)
	compareCmd.Flags().StringVar(&compareOutput, "output", "", "CSV file for the per-policy results")
	compareCmd.Flags().StringVar(&comparePlot, "plot", "", "PNG bar chart with confidence intervals")
	compareCmd.Flags().StringVar(&compareDB, "db", "", "SQLite database to record the run in")
	compareCmd.Flags().StringArrayVar(&comparePolicies, "policy", nil, "Policy as name or name:key=value,key=value (repeatable)")
}
