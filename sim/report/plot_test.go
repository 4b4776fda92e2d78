package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
)

func assertNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotSweep_NumericLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.png")
	require.NoError(t, PlotSweep(path, "constant production", "p", sampleRows()))
	assertNonEmptyFile(t, path)
}

func TestPlotSweep_GridLabels(t *testing.T) {
	rows := []Row{
		{Label: "weekday=42 weekend=60", Mean: 10, Delta: 1, Lower: 9, Upper: 11},
		{Label: "weekday=48 weekend=60", Mean: 12, Delta: 2, Lower: 10, Upper: 14},
	}
	path := filepath.Join(t.TempDir(), "grid.png")
	require.NoError(t, PlotSweep(path, "differentiated", "grid point", rows))
	assertNonEmptyFile(t, path)
}

func TestPlotComparison(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compare.png")
	require.NoError(t, PlotComparison(path, "policies", sampleRows()))
	assertNonEmptyFile(t, path)
}

func TestPlotRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.png")
	require.NoError(t, PlotRuns(path, "net result per replication", []float64{1000, 1100, 950, 1200}))
	assertNonEmptyFile(t, path)
}

func TestPlots_RejectEmptyInput(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, PlotSweep(filepath.Join(dir, "a.png"), "", "", nil))
	assert.Error(t, PlotComparison(filepath.Join(dir, "b.png"), "", nil))
	assert.Error(t, PlotRuns(filepath.Join(dir, "c.png"), "", nil))
}

func TestPlotSweep_SinglePoint(t *testing.T) {
	// GIVEN one grid point with a confidence interval
	rows := []Row{{Label: "60", Mean: 1500, StdDev: 40, Delta: 25, Lower: 1475, Upper: 1525}}

	// WHEN it is plotted with its legend
	path := filepath.Join(t.TempDir(), "single.png")
	require.NoError(t, PlotSweep(path, "constant production", "p", rows))

	// THEN the file is written
	assertNonEmptyFile(t, path)
}

func TestIntervalKey_UsesErrorBarStyle(t *testing.T) {
	bars, err := plotter.NewYErrorBars(newErrorPoints(sampleRows(), func(i int) float64 { return float64(i) }))
	require.NoError(t, err)
	bars.LineStyle.Color = plotutil.Color(1)

	key, ok := intervalKey(bars).(*plotter.Line)
	require.True(t, ok)
	assert.Equal(t, bars.LineStyle, key.LineStyle)
}
