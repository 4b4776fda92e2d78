package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim/lcg"
	"github.com/production-sim/production-sim/sim/randtest"
	"github.com/production-sim/production-sim/sim/report"
)

var (
	analyzeInput     string  // Sequence file to test
	analyzeAlpha     float64 // Significance level of the battery
	analyzeIntervals int     // Chi-square intervals
	analyzeStrict    bool    // Exit non-zero unless every test passes
)

// analyzeCmd runs the acceptance battery on a stored sequence
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the mean, variance, chi-square and poker tests on a sequence file",
	Run: func(cmd *cobra.Command, args []string) {
		if analyzeInput == "" {
			logrus.Fatalf("--input is required")
		}
		seq, err := lcg.LoadSequence(analyzeInput)
		if err != nil {
			logrus.Fatalf("Failed to read sequence: %v", err)
		}

		battery := randtest.DefaultBattery()
		battery.Alpha = analyzeAlpha
		battery.Intervals = analyzeIntervals
		if err := battery.Validate(); err != nil {
			logrus.Fatalf("Invalid battery: %v", err)
		}

		rep := battery.Run(seq)
		report.WriteSequenceReport(cmd.OutOrStdout(), seq, rep)
		if analyzeStrict && !rep.Passed() {
			os.Exit(1)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "Sequence file, one value per line")
	analyzeCmd.Flags().Float64Var(&analyzeAlpha, "alpha", 0.05, "Significance level")
	analyzeCmd.Flags().IntVar(&analyzeIntervals, "intervals", randtest.DefaultIntervals, "Chi-square intervals")
	analyzeCmd.Flags().BoolVar(&analyzeStrict, "strict", false, "Exit with status 1 unless every test passes")
}
