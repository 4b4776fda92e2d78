package cmd

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/lcg"
	"github.com/production-sim/production-sim/sim/report"
)

var scheduleInput string // Draws file to build the schedule from

// scheduleCmd prints one demand schedule
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Build and print a demand schedule",
	Run: func(cmd *cobra.Command, args []string) {
		sc := loadScenario(cmd)
		src, err := experiment.NewScheduleSource(sc)
		if err != nil {
			logrus.Fatalf("Failed to prepare schedule source: %v", err)
		}
		out := cmd.OutOrStdout()

		if scheduleInput != "" {
			draws, err := lcg.LoadSequence(scheduleInput)
			if err != nil {
				logrus.Fatalf("Failed to read draws: %v", err)
			}
			if len(draws) < sc.Days {
				logrus.Fatalf("%s holds %d draws, need %d", scheduleInput, len(draws), sc.Days)
			}
			report.WriteSchedule(out, src.Build(draws[:sc.Days]))
			return
		}

		prog := newProgress()
		src.OnAttempt = prog.attempt
		seeds := sim.NewPartitionedRNG(sc.Key()).ForSubsystem(sim.SubsystemSchedules)
		drawn, err := src.Next(context.Background(), seeds)
		prog.finish()
		if err != nil {
			logrus.Fatalf("Failed to draw schedule: %v", err)
		}
		fmt.Fprintf(out, "generator seed %d (attempt %d)\n", drawn.Seed, drawn.Attempts)
		report.WriteSchedule(out, drawn.Schedule)
	},
}

func init() {
	registerScenarioFlags(scheduleCmd)
	scheduleCmd.Flags().StringVar(&scheduleInput, "input", "", "Build from a stored sequence instead of drawing one")
}
