package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/lcg"
	"github.com/production-sim/production-sim/sim/randtest"
)

var (
	genCount     int    // Number of values to generate
	genA         uint64 // Multiplier
	genC         uint64 // Increment
	genM         uint64 // Modulus
	genOutput    string // Output file
	genAccepted  bool   // Retry seeds until the sequence passes the battery
	genIntervals int    // Chi-square intervals of the acceptance battery
)

// generateCmd writes a random sequence, one value per line
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a pseudo-random sequence with the linear congruential generator",
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadScenario(cmd)
		params := sc.Generator.Params()
		if cmd.Flags().Changed("a") {
			params.A = genA
		}
		if cmd.Flags().Changed("c") {
			params.C = genC
		}
		if cmd.Flags().Changed("m") {
			params.M = genM
		}

		var seq []float64
		if genAccepted {
			battery := generateBattery(sc, genIntervals)
			if err := battery.Validate(); err != nil {
				logrus.Fatalf("Invalid battery: %v", err)
			}
			prog := newProgress()
			acc := &randtest.Acceptor{
				Battery:     battery,
				Generator:   params,
				MaxAttempts: sc.Acceptance.MaxAttempts,
				Seeds:       sim.NewPartitionedRNG(sc.Key()).ForSubsystem(sim.SubsystemSeeds),
				OnAttempt:   prog.attempt,
			}
			res, err := acc.Accept(context.Background(), genCount)
			prog.finish()
			if err != nil {
				logrus.Fatalf("Failed to generate an accepted sequence: %v", err)
			}
			logrus.Infof("Sequence accepted after %d attempts (generator seed %d)", res.Attempts, res.Seed)
			seq = res.Values
		} else {
			var err error
			seq, err = lcg.Generate(params.WithSeed(uint64(sc.Seed)), genCount)
			if err != nil {
				logrus.Fatalf("Failed to generate sequence: %v", err)
			}
		}

		if genOutput == "" {
			if err := lcg.WriteSequence(cmd.OutOrStdout(), seq); err != nil {
				logrus.Fatalf("Failed to write sequence: %v", err)
			}
			return
		}
		if err := lcg.SaveSequence(genOutput, seq); err != nil {
			logrus.Fatalf("Failed to save sequence: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %d values to %s\n", len(seq), genOutput)
	},
}

// generateBattery returns the scenario battery with the given chi-square
// intervals. Scenario batteries are sized for short schedules; generate
// and analyze share one interval count instead.
func generateBattery(sc *experiment.Scenario, intervals int) randtest.Battery {
	b := sc.Acceptance.Battery
	b.Intervals = intervals
	return b
}

func init() {
	generateCmd.Flags().Int64Var(&seed, "seed", experiment.Default().Seed, "Generator seed (with --accepted, the seed of the seed stream)")
	generateCmd.Flags().IntVar(&genCount, "n", 100, "Number of values to generate")
	generateCmd.Flags().Uint64Var(&genA, "a", lcg.ParkMillerA, "Multiplier")
	generateCmd.Flags().Uint64Var(&genC, "c", lcg.ParkMillerC, "Increment")
	generateCmd.Flags().Uint64Var(&genM, "m", lcg.ParkMillerM, "Modulus")
	generateCmd.Flags().StringVar(&genOutput, "output", "", "Output file (stdout when empty)")
	generateCmd.Flags().IntVar(&genIntervals, "intervals", randtest.DefaultIntervals, "Chi-square intervals of the acceptance battery")
	generateCmd.Flags().BoolVar(&genAccepted, "accepted", false, "Retry with new seeds until the sequence passes the acceptance battery")
	generateCmd.Flags().IntVar(&maxAttempts, "max-attempts", experiment.Default().Acceptance.MaxAttempts, "Candidate sequences tried before giving up (0 = unbounded)")
}
