package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/internal/testutil"
	"github.com/production-sim/production-sim/sim/randtest"
	"github.com/production-sim/production-sim/sim/stats"
	"github.com/production-sim/production-sim/sim/trace"
)

func TestWriteRanking(t *testing.T) {
	var buf bytes.Buffer
	WriteRanking(&buf, "sweep", sampleRows(), 2)
	out := buf.String()
	assert.Contains(t, out, "top 2 of 3")
	assert.Contains(t, out, " 1. 48")
	assert.Contains(t, out, "1,250.25")
	assert.NotContains(t, out, "1,100.50")
}

func TestWriteSequenceReport(t *testing.T) {
	seq := testutil.UniformGrid(100)
	var buf bytes.Buffer
	WriteSequenceReport(&buf, seq, randtest.DefaultBattery().Run(seq))
	out := buf.String()

	for _, name := range []string{"mean", "variance", "chi-square", "poker"} {
		assert.Contains(t, out, "--- "+name+" test ---")
	}
	assert.Contains(t, out, "Values    : 100")
	assert.Contains(t, out, "=== Verdict:")
	assert.Contains(t, out, "(O-E)^2/E")
}

func TestWriteSequenceReport_ShowsErrors(t *testing.T) {
	seq := []float64{0.1, 0.2}
	var buf bytes.Buffer
	WriteSequenceReport(&buf, seq, randtest.DefaultBattery().Run(seq))
	assert.Contains(t, buf.String(), "error:")
	assert.Contains(t, buf.String(), string(randtest.VerdictUnsatisfactory))
}

func TestWriteSchedule_FormatsDates(t *testing.T) {
	start := time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC)
	sched := sim.BuildSchedule(start, []float64{0.0966, 0.834}, sim.DefaultCalendar(), sim.DefaultDemandModels())

	var buf bytes.Buffer
	WriteSchedule(&buf, sched)
	out := buf.String()
	assert.Contains(t, out, "06/07/2025")
	assert.Contains(t, out, "Sunday")
	assert.Contains(t, out, "07/07/2025")
	assert.Contains(t, out, "Monday")
	assert.Contains(t, out, "total demand: 94 over 2 days")
}

func TestWriteSchedule_WithoutDates(t *testing.T) {
	sched, err := sim.NewSchedule([]int{5}, []sim.DayType{sim.Weekday})
	require.NoError(t, err)
	var buf bytes.Buffer
	WriteSchedule(&buf, sched)
	assert.Contains(t, buf.String(), "total demand: 5 over 1 days")
}

func TestWriteRun(t *testing.T) {
	res := sim.Result{
		Revenue:      decimal.NewFromInt(1500),
		ShortageCost: decimal.NewFromInt(100),
		SurplusCost:  decimal.NewFromInt(70),
		Days:         30, Demand: 160, Produced: 160, Sold: 150, Short: 10, Wasted: 10,
	}
	var buf bytes.Buffer
	WriteRun(&buf, "constant(production=60)", res)
	out := buf.String()
	assert.Contains(t, out, "=== constant(production=60) ===")
	assert.Contains(t, out, "Net result    : 1330.00")
	assert.Contains(t, out, "fill rate 93.8%")
	assert.NotContains(t, out, "Leftover")
}

func TestWriteReplications(t *testing.T) {
	nets := []float64{1000, 1200, 1100}
	iv, err := stats.NewInterval(nets, 0.05, stats.MethodT)
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteReplications(&buf, "min-shortage", nets, iv)
	out := buf.String()
	assert.Contains(t, out, "3 replications")
	assert.Contains(t, out, "Mean net      : 1,100.00")
	assert.Contains(t, out, "Min / Max     : 1,000.00 / 1,200.00")
	assert.Contains(t, out, "95% CI (t)")
}

func TestWriteTrace(t *testing.T) {
	tr := trace.NewProductionTrace("constant")
	tr.RecordDay(trace.DayRecord{Day: 1, DayType: "weekday", Demand: 50, Production: 40, Sold: 40, Short: 10})
	tr.RecordDay(trace.DayRecord{Day: 2, DayType: "weekend", Demand: 30, Production: 40, Sold: 30, Leftover: 10})

	var buf bytes.Buffer
	WriteTrace(&buf, tr)
	out := buf.String()
	assert.Contains(t, out, "--- trace: constant ---")
	assert.Contains(t, out, "shortage")
	assert.Contains(t, out, "days with shortage 1, surplus 1, exact 0")

	buf.Reset()
	WriteTrace(&buf, nil)
	assert.Empty(t, buf.String())
}
