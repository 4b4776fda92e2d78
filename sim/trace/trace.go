package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDays captures every simulated day.
	TraceLevelDays TraceLevel = "days"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone: true,
	TraceLevelDays: true,
	"":             true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// ProductionTrace collects day records during one simulated run.
type ProductionTrace struct {
	Policy string
	Days   []DayRecord
}

// NewProductionTrace creates a ProductionTrace ready for recording.
func NewProductionTrace(policy string) *ProductionTrace {
	return &ProductionTrace{
		Policy: policy,
		Days:   make([]DayRecord, 0),
	}
}

// RecordDay appends a day record.
func (pt *ProductionTrace) RecordDay(record DayRecord) {
	pt.Days = append(pt.Days, record)
}
