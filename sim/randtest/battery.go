package randtest

import "fmt"

// Verdict grades a full battery report.
type Verdict string

const (
	VerdictExcellent      Verdict = "excellent"
	VerdictAcceptable     Verdict = "acceptable"
	VerdictUnsatisfactory Verdict = "unsatisfactory"
)

// Battery configures the four acceptance tests.
type Battery struct {
	Alpha     float64 `yaml:"alpha"`
	Intervals int     `yaml:"intervals"`
	GroupSize int     `yaml:"group_size"`
}

// DefaultBattery returns the 5% battery with 10 intervals and 5-digit hands.
func DefaultBattery() Battery {
	return Battery{Alpha: 0.05, Intervals: DefaultIntervals, GroupSize: DefaultGroupSize}
}

// Validate checks the battery configuration.
func (b Battery) Validate() error {
	if err := validateAlpha(b.Alpha); err != nil {
		return err
	}
	if b.Intervals < 2 {
		return fmt.Errorf("intervals must be at least 2, got %d", b.Intervals)
	}
	if b.GroupSize != DefaultGroupSize {
		return fmt.Errorf("%w: %d", ErrUnsupportedGroupSize, b.GroupSize)
	}
	return nil
}

// TestResult pairs a test with its outcome or the error that prevented it.
type TestResult struct {
	Test    TestName
	Outcome Outcome
	Err     error
}

// Passed reports whether the test ran and accepted the sequence.
func (r TestResult) Passed() bool {
	return r.Err == nil && r.Outcome.Passed
}

// Report collects the results of a full battery run in test order.
type Report struct {
	Results []TestResult
}

// Passed reports whether every test accepted the sequence.
func (r Report) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return len(r.Results) > 0
}

// Counts returns the number of passed, failed and errored tests.
func (r Report) Counts() (passed, failed, errored int) {
	for _, res := range r.Results {
		switch {
		case res.Err != nil:
			errored++
		case res.Outcome.Passed:
			passed++
		default:
			failed++
		}
	}
	return passed, failed, errored
}

// Verdict grades the report: excellent when every test passes, acceptable
// with at most one failure and no errors, unsatisfactory otherwise.
func (r Report) Verdict() Verdict {
	_, failed, errored := r.Counts()
	switch {
	case failed == 0 && errored == 0:
		return VerdictExcellent
	case failed <= 1 && errored == 0:
		return VerdictAcceptable
	}
	return VerdictUnsatisfactory
}

// tests returns the battery's tests in evaluation order.
func (b Battery) tests() []struct {
	name TestName
	run  func([]float64) (Outcome, error)
} {
	return []struct {
		name TestName
		run  func([]float64) (Outcome, error)
	}{
		{TestMean, func(s []float64) (Outcome, error) { return MeanTest(s, b.Alpha) }},
		{TestVariance, func(s []float64) (Outcome, error) { return VarianceTest(s, b.Alpha) }},
		{TestChiSquare, func(s []float64) (Outcome, error) { return ChiSquareTest(s, b.Intervals, b.Alpha) }},
		{TestPoker, func(s []float64) (Outcome, error) { return PokerTest(s, b.GroupSize, b.Alpha) }},
	}
}

// Run executes all four tests and records every outcome.
func (b Battery) Run(seq []float64) Report {
	var report Report
	for _, t := range b.tests() {
		outcome, err := t.run(seq)
		report.Results = append(report.Results, TestResult{Test: t.name, Outcome: outcome, Err: err})
	}
	return report
}

// Accepts reports whether seq passes all four tests, stopping at the first
// failure. A test that cannot be evaluated counts as a failure.
func (b Battery) Accepts(seq []float64) bool {
	for _, t := range b.tests() {
		outcome, err := t.run(seq)
		if err != nil || !outcome.Passed {
			return false
		}
	}
	return true
}
