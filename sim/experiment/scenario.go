// Package experiment loads scenario files and runs replicated policy
// experiments (parameter sweeps and policy comparisons) over a worker pool.
package experiment

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/lcg"
	"github.com/production-sim/production-sim/sim/policy"
	"github.com/production-sim/production-sim/sim/randtest"
	"github.com/production-sim/production-sim/sim/stats"
	"github.com/production-sim/production-sim/sim/trace"
)

// CurrentVersion is the scenario format version written by this release.
const CurrentVersion = "1"

// DayTypes selection values.
const (
	DayTypesAll     = "all"
	DayTypesWeekday = "weekday"
	DayTypesWeekend = "weekend"
)

var validDayTypes = map[string]bool{"": true, DayTypesAll: true, DayTypesWeekday: true, DayTypesWeekend: true}

// Scenario configures every experiment: the generator, the acceptance
// battery, the calendar and demand, the ledger and the policies to run.
type Scenario struct {
	Version   string `yaml:"version"`
	Name      string `yaml:"name"`
	Seed      int64  `yaml:"seed"`
	StartDate string `yaml:"start_date"`
	Days      int    `yaml:"days"`
	// DayTypes restricts runs to one day type; the other days are dropped
	// from each schedule after it is built.
	DayTypes string `yaml:"day_types"`

	Calendar   CalendarConfig   `yaml:"calendar"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Acceptance AcceptanceConfig `yaml:"acceptance"`
	Demand     DemandConfig     `yaml:"demand"`

	Prices        sim.Prices       `yaml:"prices"`
	ShelfLifeDays int              `yaml:"shelf_life_days"`
	RevenueBasis  sim.RevenueBasis `yaml:"revenue_basis"`

	Replications        int              `yaml:"replications"`
	Workers             int              `yaml:"workers"`
	CommonRandomNumbers bool             `yaml:"common_random_numbers"`
	Confidence          ConfidenceConfig `yaml:"confidence"`
	Trace               string           `yaml:"trace"`

	Policies []policy.Spec `yaml:"policies"`
	Sweep    *SweepSpec    `yaml:"sweep,omitempty"`
}

type CalendarConfig struct {
	Weekend string `yaml:"weekend"`
}

// GeneratorConfig holds the LCG constants; seeds are drawn per sequence.
type GeneratorConfig struct {
	A uint64 `yaml:"a"`
	C uint64 `yaml:"c"`
	M uint64 `yaml:"m"`
}

// Params returns the generator parameters with a zero seed.
func (g GeneratorConfig) Params() lcg.Params {
	return lcg.Params{A: g.A, C: g.C, M: g.M}
}

type AcceptanceConfig struct {
	Enabled          bool `yaml:"enabled"`
	randtest.Battery `yaml:",inline"`
	// MaxAttempts bounds the retry loop per sequence; 0 means unbounded.
	MaxAttempts int `yaml:"max_attempts"`
}

type DemandConfig struct {
	Weekday sim.DemandSpec `yaml:"weekday"`
	Weekend sim.DemandSpec `yaml:"weekend"`
}

type ConfidenceConfig struct {
	Alpha  float64      `yaml:"alpha"`
	Method stats.Method `yaml:"method"`
}

// Default returns the reference scenario: 30 days from Sunday 2025-07-06,
// Park-Miller draws gated by the 5% battery, two-day shelf life.
func Default() *Scenario {
	b := randtest.DefaultBattery()
	// 30 draws keep every chi-square interval at 5 expected values
	b.Intervals = 5
	return &Scenario{
		Version:   CurrentVersion,
		Name:      "default",
		Seed:      12345,
		StartDate: "2025-07-06",
		Days:      30,
		DayTypes:  DayTypesAll,
		Calendar:  CalendarConfig{Weekend: sim.DefaultWeekendSpec},
		Generator: GeneratorConfig{A: lcg.ParkMillerA, C: lcg.ParkMillerC, M: lcg.ParkMillerM},
		Acceptance: AcceptanceConfig{
			Enabled:     true,
			Battery:     b,
			MaxAttempts: 1000,
		},
		Demand: DemandConfig{
			Weekday: sim.DefaultWeekdayDemand(),
			Weekend: sim.DefaultWeekendDemand(),
		},
		Prices:              sim.DefaultPrices(),
		ShelfLifeDays:       2,
		RevenueBasis:        sim.RevenueSold,
		Replications:        100,
		Workers:             runtime.NumCPU(),
		CommonRandomNumbers: true,
		Confidence:          ConfidenceConfig{Alpha: 0.05, Method: stats.MethodT},
		Trace:               string(trace.TraceLevelNone),
		Policies: []policy.Spec{
			{Name: "constant", Params: map[string]float64{"production": 60}},
			{Name: "previous-demand", Params: map[string]float64{"offset": 0, "initial": 60}},
			{Name: "moving-average", Params: map[string]float64{"window": 0, "weekday_initial": 60, "weekend_initial": 60}},
			{Name: "max-last-n", Params: map[string]float64{"window": 3}},
			{Name: "min-shortage"},
		},
		Sweep: &SweepSpec{
			Policy: policy.Spec{Name: "differentiated"},
			Params: []SweepParam{
				{Name: "weekday", From: ptr(6), To: ptr(114), Step: ptr(6)},
				{Name: "weekend", From: ptr(6), To: ptr(114), Step: ptr(6)},
			},
		},
	}
}

func ptr(v float64) *float64 { return &v }

// LoadScenario reads a YAML scenario file on top of Default().
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a YAML scenario on top of Default(). A policies
// list or sweep section in the document replaces the default one; maps
// such as demand params merge with the defaults.
func ParseScenario(data []byte) (*Scenario, error) {
	sc := Default()
	policies, sweep := sc.Policies, sc.Sweep
	sc.Policies, sc.Sweep = nil, nil
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if sc.Policies == nil {
		sc.Policies = policies
	}
	if sc.Sweep == nil {
		sc.Sweep = sweep
	}
	if sc.Version == "" {
		sc.Version = CurrentVersion
	}
	return sc, nil
}

// Save writes the scenario as YAML.
func (s *Scenario) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}

// Validate checks that all fields in the scenario are valid.
func (s *Scenario) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported version %q; supported: %s", s.Version, CurrentVersion)
	}
	if _, err := s.Start(); err != nil {
		return err
	}
	if s.Days < 1 {
		return fmt.Errorf("days must be positive, got %d", s.Days)
	}
	if !validDayTypes[s.DayTypes] {
		return fmt.Errorf("unknown day_types %q; valid: all, weekday, weekend", s.DayTypes)
	}
	if _, err := sim.NewCalendar(s.Calendar.Weekend); err != nil {
		return fmt.Errorf("calendar.weekend: %w", err)
	}
	if err := s.Generator.Params().WithSeed(1).Validate(); err != nil {
		return fmt.Errorf("generator: %w", err)
	}
	if err := validateAcceptance(&s.Acceptance); err != nil {
		return err
	}
	if _, err := s.DemandModels(); err != nil {
		return err
	}
	if err := s.Options().Validate(); err != nil {
		return err
	}
	if s.Replications < 2 {
		return fmt.Errorf("replications must be at least 2, got %d", s.Replications)
	}
	if s.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", s.Workers)
	}
	if err := validateConfidence(&s.Confidence); err != nil {
		return err
	}
	if !trace.IsValidTraceLevel(s.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, days", s.Trace)
	}
	for i, p := range s.Policies {
		if _, err := policy.New(p); err != nil {
			return fmt.Errorf("policies[%d]: %w", i, err)
		}
	}
	if s.Sweep != nil {
		if err := s.Sweep.Validate(); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
	}
	return nil
}

func validateAcceptance(a *AcceptanceConfig) error {
	if a.MaxAttempts < 0 {
		return fmt.Errorf("acceptance.max_attempts must be non-negative, got %d", a.MaxAttempts)
	}
	if !a.Enabled {
		return nil
	}
	if err := a.Battery.Validate(); err != nil {
		return fmt.Errorf("acceptance: %w", err)
	}
	return nil
}

func validateConfidence(c *ConfidenceConfig) error {
	if math.IsNaN(c.Alpha) || c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("confidence.alpha must be in (0, 1), got %f", c.Alpha)
	}
	if !stats.ValidMethods[c.Method] {
		return fmt.Errorf("unknown confidence.method %q; valid: t, chebyshev", c.Method)
	}
	return nil
}

// Start parses the start date.
func (s *Scenario) Start() (time.Time, error) {
	t, err := time.Parse(sim.DateLayout, s.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("start_date %q must be YYYY-MM-DD: %w", s.StartDate, err)
	}
	return t, nil
}

// DemandModels builds the per-day-type demand models.
func (s *Scenario) DemandModels() (sim.DemandModels, error) {
	weekday, err := sim.NewDemandModel(s.Demand.Weekday)
	if err != nil {
		return sim.DemandModels{}, fmt.Errorf("demand.weekday: %w", err)
	}
	weekend, err := sim.NewDemandModel(s.Demand.Weekend)
	if err != nil {
		return sim.DemandModels{}, fmt.Errorf("demand.weekend: %w", err)
	}
	return sim.DemandModels{Weekday: weekday, Weekend: weekend}, nil
}

// Options returns the ledger options.
func (s *Scenario) Options() sim.Options {
	return sim.Options{
		ShelfLifeDays: s.ShelfLifeDays,
		RevenueBasis:  s.RevenueBasis,
		Prices:        s.Prices,
	}
}

// Key returns the simulation key derived from the seed.
func (s *Scenario) Key() sim.SimulationKey {
	return sim.NewSimulationKey(s.Seed)
}
