package recorder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/policy"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	// GIVEN a fresh database
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer rec.Close()

	// WHEN a run and its rows are recorded
	run := NewRun(KindSweep, experiment.Default())
	require.NoError(t, rec.RecordRun(run))
	rows := []Row{
		{Label: "42", Policy: "constant(production=42)", Mean: 1000.5, StdDev: 10, Delta: 2, Lower: 998.5, Upper: 1002.5, N: 30, MeanShort: 4.5},
		{Label: "48", Policy: "constant(production=48)", Mean: 1010, StdDev: 12, Delta: 3, Lower: 1007, Upper: 1013, N: 30, MeanWaste: 1.25},
	}
	require.NoError(t, rec.RecordRows(run.ID, rows))

	// THEN both can be read back in order
	runs, err := rec.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, KindSweep, runs[0].Kind)
	assert.Equal(t, "default", runs[0].Scenario)
	assert.Equal(t, int64(12345), runs[0].Seed)
	assert.Equal(t, run.StartedAt.Unix(), runs[0].StartedAt.Unix())

	got, err := rec.Rows(run.ID)
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	none, err := rec.Rows("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteRecorder_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	rec, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	run := NewRun(KindComparison, experiment.Default())
	require.NoError(t, rec.RecordRun(run))
	require.NoError(t, rec.Close())

	rec, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer rec.Close()
	runs, err := rec.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
}

func TestSQLiteRecorder_DuplicateRunIDFails(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer rec.Close()

	run := NewRun(KindSweep, experiment.Default())
	require.NoError(t, rec.RecordRun(run))
	assert.Error(t, rec.RecordRun(run))
}

func TestNewRun_UniqueIDs(t *testing.T) {
	a := NewRun(KindSweep, experiment.Default())
	b := NewRun(KindSweep, experiment.Default())
	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, a.ID, 36)
}

func TestRowsFromResults(t *testing.T) {
	sc := experiment.Default()
	sc.Replications = 4
	sc.Workers = 1
	sc.Policies = []policy.Spec{{Name: "constant", Params: map[string]float64{"production": 60}}}
	results, err := experiment.RunComparison(context.Background(), sc)
	require.NoError(t, err)

	rows := RowsFromResults(results)
	require.Len(t, rows, 1)
	assert.Equal(t, "constant(production=60)", rows[0].Label)
	assert.Equal(t, "constant(production=60)", rows[0].Policy)
	assert.Equal(t, 4, rows[0].N)
	assert.Equal(t, results[0].Interval.Mean, rows[0].Mean)
	assert.GreaterOrEqual(t, rows[0].MeanShort, 0.0)
}

func TestNoopRecorder(t *testing.T) {
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(&Run{}))
	assert.NoError(t, rec.RecordRows("x", nil))
	assert.NoError(t, rec.Close())
}
