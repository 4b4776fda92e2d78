package trace

// TraceSummary aggregates statistics from a ProductionTrace.
type TraceSummary struct {
	TotalDays     int
	ShortageDays  int
	SurplusDays   int
	ExactDays     int
	TotalDemand   int
	TotalProduced int
	TotalSold     int
	TotalShort    int
	TotalWasted   int
	MaxShort      int
	MaxWasted     int
	FillRate      float64 // sold / demand; 1 when there was no demand
}

// Summarize computes aggregate statistics from a ProductionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(pt *ProductionTrace) *TraceSummary {
	summary := &TraceSummary{}
	if pt == nil {
		return summary
	}

	summary.TotalDays = len(pt.Days)
	for _, d := range pt.Days {
		switch d.Outcome() {
		case "shortage":
			summary.ShortageDays++
		case "surplus":
			summary.SurplusDays++
		default:
			summary.ExactDays++
		}
		summary.TotalDemand += d.Demand
		summary.TotalProduced += d.Production
		summary.TotalSold += d.Sold
		summary.TotalShort += d.Short
		summary.TotalWasted += d.Wasted
		summary.MaxShort = max(summary.MaxShort, d.Short)
		summary.MaxWasted = max(summary.MaxWasted, d.Wasted)
	}

	summary.FillRate = 1
	if summary.TotalDemand > 0 {
		summary.FillRate = float64(summary.TotalSold) / float64(summary.TotalDemand)
	}
	return summary
}
