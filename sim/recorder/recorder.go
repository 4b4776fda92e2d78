// Package recorder persists experiment results for later analysis.
package recorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/production-sim/production-sim/sim/experiment"
)

// Experiment kinds.
const (
	KindSweep      = "sweep"
	KindComparison = "comparison"
	KindSimulation = "simulation"
)

// Run describes one experiment invocation.
type Run struct {
	ID           string
	Kind         string
	Scenario     string
	Seed         int64
	Days         int
	Replications int
	Alpha        float64
	Method       string
	StartedAt    time.Time
}

// NewRun returns a run with a fresh ID for scenario sc.
func NewRun(kind string, sc *experiment.Scenario) *Run {
	return &Run{
		ID:           uuid.NewString(),
		Kind:         kind,
		Scenario:     sc.Name,
		Seed:         sc.Seed,
		Days:         sc.Days,
		Replications: sc.Replications,
		Alpha:        sc.Confidence.Alpha,
		Method:       string(sc.Confidence.Method),
		StartedAt:    time.Now(),
	}
}

// Row is the persisted outcome of one arm.
type Row struct {
	Label     string
	Policy    string
	Mean      float64
	StdDev    float64
	Delta     float64
	Lower     float64
	Upper     float64
	N         int
	MeanShort float64 // units short per replication
	MeanWaste float64 // units wasted per replication
}

// RowsFromResults converts arm results into rows in arm order.
func RowsFromResults(results []experiment.ArmResult) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		totals := res.Totals()
		n := float64(max(len(res.Results), 1))
		rows[i] = Row{
			Label:     res.Arm.Label,
			Policy:    res.Arm.Policy.Label(),
			Mean:      res.Interval.Mean,
			StdDev:    res.Interval.StdDev,
			Delta:     res.Interval.Delta,
			Lower:     res.Interval.Lower,
			Upper:     res.Interval.Upper,
			N:         res.Interval.N,
			MeanShort: float64(totals.Short) / n,
			MeanWaste: float64(totals.Wasted) / n,
		}
	}
	return rows
}

// Recorder persists experiment runs and their rows.
type Recorder interface {
	RecordRun(run *Run) error
	RecordRows(runID string, rows []Row) error
	Close() error
}
