package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/ncruces/go-strftime"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/randtest"
	"github.com/production-sim/production-sim/sim/stats"
	"github.com/production-sim/production-sim/sim/trace"
)

// Date formats used in schedule tables.
const (
	DateFormat    = "%d/%m/%Y"
	WeekdayFormat = "%A"
)

func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// WriteRanking prints the best n rows by mean with their intervals.
func WriteRanking(w io.Writer, title string, rows []Row, n int) {
	top := Rank(rows, n)
	fmt.Fprintf(w, "=== %s: top %d of %d ===\n", title, len(top), len(rows))
	for i, r := range top {
		fmt.Fprintf(w, "%2d. %-28s | mean %12s | CI [%s, %s] (length %s)\n",
			i+1, r.Label, money(r.Mean), money(r.Lower), money(r.Upper), money(r.Length()))
	}
}

// WriteSequenceReport prints the basic statistics of seq, every test
// outcome with its frequency table, and the verdict.
func WriteSequenceReport(w io.Writer, seq []float64, rep randtest.Report) {
	s := stats.Describe(seq)
	fmt.Fprintln(w, "=== Sequence ===")
	fmt.Fprintf(w, "Values    : %s\n", humanize.Comma(int64(s.Count)))
	fmt.Fprintf(w, "Min / Max : %.4f / %.4f\n", s.Min, s.Max)
	fmt.Fprintf(w, "Mean      : %.6f (expected %.6f)\n", s.Mean, randtest.UniformMean)
	fmt.Fprintf(w, "Variance  : %.6f (expected %.6f)\n", s.Variance, randtest.UniformVariance)
	fmt.Fprintf(w, "Median    : %.4f\n", s.Median)

	for _, res := range rep.Results {
		fmt.Fprintf(w, "\n--- %s test ---\n", res.Test)
		if res.Err != nil {
			fmt.Fprintf(w, "error: %v\n", res.Err)
			continue
		}
		writeOutcome(w, res.Outcome)
	}

	passed, failed, errored := rep.Counts()
	fmt.Fprintf(w, "\n=== Verdict: %s (%d passed, %d failed, %d errors) ===\n", rep.Verdict(), passed, failed, errored)
}

func writeOutcome(w io.Writer, o randtest.Outcome) {
	result := "REJECTED"
	if o.Passed {
		result = "ACCEPTED"
	}
	fmt.Fprintf(w, "n=%d alpha=%.3f statistic=%.6f accept in [%.6f, %.6f]", o.N, o.Alpha, o.Statistic, o.Lower, o.Upper)
	if o.DF > 0 {
		fmt.Fprintf(w, " df=%d", o.DF)
	}
	fmt.Fprintf(w, " p=%.4f -> %s\n", o.PValue, result)
	if len(o.Table) == 0 {
		return
	}
	fmt.Fprintf(w, "  %-16s %8s %10s %10s\n", "category", "observed", "expected", "(O-E)^2/E")
	for _, c := range o.Table {
		fmt.Fprintf(w, "  %-16s %8d %10.2f %10.4f\n", c.Label, c.Observed, c.Expected, c.Contribution())
	}
}

// WriteSchedule prints one line per day with its date, type, draw and demand.
func WriteSchedule(w io.Writer, sched sim.Schedule) {
	fmt.Fprintf(w, "%4s  %-10s  %-9s  %-7s  %6s  %6s\n", "day", "date", "weekday", "type", "draw", "demand")
	for _, d := range sched {
		date, weekday := "-", "-"
		if !d.Date.IsZero() {
			date = strftime.Format(DateFormat, d.Date)
			weekday = strftime.Format(WeekdayFormat, d.Date)
		}
		fmt.Fprintf(w, "%4d  %-10s  %-9s  %-7s  %6.4f  %6d\n", d.Index, date, weekday, d.Type, d.Draw, d.Demand)
	}
	fmt.Fprintf(w, "total demand: %s over %d days\n", humanize.Comma(int64(sched.TotalDemand())), len(sched))
}

// WriteRun prints the outcome of a single simulated run.
func WriteRun(w io.Writer, policyLabel string, res sim.Result) {
	fmt.Fprintf(w, "=== %s ===\n", policyLabel)
	fmt.Fprintf(w, "Days          : %d\n", res.Days)
	fmt.Fprintf(w, "Demand        : %s\n", humanize.Comma(int64(res.Demand)))
	fmt.Fprintf(w, "Produced      : %s\n", humanize.Comma(int64(res.Produced)))
	fmt.Fprintf(w, "Sold          : %s (fill rate %.1f%%)\n", humanize.Comma(int64(res.Sold)), 100*res.FillRate())
	fmt.Fprintf(w, "Short         : %s\n", humanize.Comma(int64(res.Short)))
	fmt.Fprintf(w, "Wasted        : %s\n", humanize.Comma(int64(res.Wasted)))
	if res.Leftover > 0 {
		fmt.Fprintf(w, "Leftover      : %d (not costed)\n", res.Leftover)
	}
	fmt.Fprintf(w, "Revenue       : %s\n", res.Revenue.StringFixed(2))
	fmt.Fprintf(w, "Shortage cost : %s\n", res.ShortageCost.StringFixed(2))
	fmt.Fprintf(w, "Surplus cost  : %s\n", res.SurplusCost.StringFixed(2))
	fmt.Fprintf(w, "Net result    : %s\n", res.Net().StringFixed(2))
}

// WriteReplications prints the interval and spread of replicated net results.
func WriteReplications(w io.Writer, policyLabel string, nets []float64, iv stats.Interval) {
	s := stats.Describe(nets)
	fmt.Fprintf(w, "=== %s: %s replications ===\n", policyLabel, humanize.Comma(int64(len(nets))))
	fmt.Fprintf(w, "Mean net      : %s\n", money(iv.Mean))
	fmt.Fprintf(w, "Std dev       : %s\n", money(iv.StdDev))
	fmt.Fprintf(w, "Min / Max     : %s / %s\n", money(s.Min), money(s.Max))
	fmt.Fprintf(w, "%.0f%% CI (%s) : [%s, %s] (delta %s)\n",
		100*(1-iv.Alpha), iv.Method, money(iv.Lower), money(iv.Upper), money(iv.Delta))
}

// WriteTrace prints a day-by-day trace followed by its summary.
func WriteTrace(w io.Writer, tr *trace.ProductionTrace) {
	if tr == nil {
		return
	}
	fmt.Fprintf(w, "--- trace: %s ---\n", tr.Policy)
	fmt.Fprintf(w, "%4s  %-7s  %6s  %6s  %7s  %6s  %6s  %6s  %8s  %s\n",
		"day", "type", "demand", "made", "carried", "sold", "short", "wasted", "leftover", "outcome")
	for _, d := range tr.Days {
		fmt.Fprintf(w, "%4d  %-7s  %6d  %6d  %7d  %6d  %6d  %6d  %8d  %s\n",
			d.Day, d.DayType, d.Demand, d.Production, d.Carried, d.Sold, d.Short, d.Wasted, d.Leftover, d.Outcome())
	}
	s := trace.Summarize(tr)
	fmt.Fprintf(w, "days with shortage %d, surplus %d, exact %d; max short %d, max wasted %d; fill rate %.1f%%\n",
		s.ShortageDays, s.SurplusDays, s.ExactDays, s.MaxShort, s.MaxWasted, 100*s.FillRate)
}
