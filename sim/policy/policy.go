// Package policy implements the daily production policies and the factory
// that builds them from scenario specs.
package policy

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/production-sim/production-sim/sim"
)

// Spec names a policy and its numeric parameters.
type Spec struct {
	Name   string             `yaml:"name"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// With returns a copy of s with param key set to v.
func (s Spec) With(key string, v float64) Spec {
	params := make(map[string]float64, len(s.Params)+1)
	for k, val := range s.Params {
		params[k] = val
	}
	params[key] = v
	return Spec{Name: s.Name, Params: params}
}

// Label renders the spec as name(k=v,...) with keys sorted.
func (s Spec) Label() string {
	if len(s.Params) == 0 {
		return s.Name
	}
	keys := make([]string, 0, len(s.Params))
	for k := range s.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(s.Params[k], 'f', -1, 64)
	}
	return s.Name + "(" + strings.Join(parts, ",") + ")"
}

// definition describes a policy: its parameters and constructor.
type definition struct {
	required []string
	optional map[string]float64 // name → default
	build    func(p params) (sim.Policy, error)
}

var definitions = map[string]definition{
	"constant": {
		required: []string{"production"},
		build: func(p params) (sim.Policy, error) {
			return newConstant(p.int("production"), p.int("production"), "constant")
		},
	},
	"differentiated": {
		required: []string{"weekday", "weekend"},
		build: func(p params) (sim.Policy, error) {
			return newConstant(p.int("weekday"), p.int("weekend"), "differentiated")
		},
	},
	"previous-demand": {
		required: []string{"offset"},
		optional: map[string]float64{"initial": math.NaN()},
		build: func(p params) (sim.Policy, error) {
			initial := p.int("offset")
			if !math.IsNaN(p["initial"]) {
				initial = p.int("initial")
			}
			return &PreviousDemand{Offset: p.int("offset"), Initial: initial}, nil
		},
	},
	"moving-average": {
		required: []string{"window"},
		optional: map[string]float64{
			"weekday_initial": 42, "weekend_initial": 60,
			"per_day_type": 0, "partial_warmup": 0, "round_to": 1,
		},
		build: func(p params) (sim.Policy, error) {
			return newMovingAverage(MovingAverage{
				Window:         p.int("window"),
				WeekdayInitial: p.int("weekday_initial"),
				WeekendInitial: p.int("weekend_initial"),
				PerDayType:     p.bool("per_day_type"),
				PartialWarmup:  p.bool("partial_warmup"),
				RoundTo:        p.int("round_to"),
			})
		},
	},
	"min-shortage": {
		optional: map[string]float64{"initial": 60, "min": 30, "max": 100},
		build: func(p params) (sim.Policy, error) {
			return newMinShortage(p.int("initial"), p.int("min"), p.int("max"))
		},
	},
	"max-last-n": {
		required: []string{"window"},
		optional: map[string]float64{"initial": 60},
		build: func(p params) (sim.Policy, error) {
			if p.int("window") < 1 {
				return nil, fmt.Errorf("window must be at least 1, got %d", p.int("window"))
			}
			if p.int("initial") < 0 {
				return nil, fmt.Errorf("initial must be non-negative, got %d", p.int("initial"))
			}
			return &MaxLastN{Window: p.int("window"), Initial: p.int("initial")}, nil
		},
	},
}

// ValidNames is the set of recognized policy names.
var ValidNames = func() map[string]bool {
	m := make(map[string]bool, len(definitions))
	for name := range definitions {
		m[name] = true
	}
	return m
}()

// Names returns the recognized policy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Params returns the parameter names a policy accepts: required first, then optional.
func Params(name string) (required, optional []string) {
	def, ok := definitions[name]
	if !ok {
		return nil, nil
	}
	for k := range def.optional {
		optional = append(optional, k)
	}
	sort.Strings(optional)
	return def.required, optional
}

// New creates a policy from a spec. Unknown names, missing required
// parameters, unknown parameters and non-finite values are errors.
func New(spec Spec) (sim.Policy, error) {
	def, ok := definitions[spec.Name]
	if !ok {
		return nil, fmt.Errorf("unknown policy %q; valid policies: [%s]", spec.Name, strings.Join(Names(), ", "))
	}
	p := make(params, len(def.required)+len(def.optional))
	for k, v := range def.optional {
		p[k] = v
	}
	for k, v := range spec.Params {
		if !isKnownParam(def, k) {
			return nil, fmt.Errorf("policy %s: unknown parameter %q", spec.Name, k)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("policy %s: params.%s must be a finite number, got %f", spec.Name, k, v)
		}
		p[k] = v
	}
	if err := requireParam(spec.Params, def.required...); err != nil {
		return nil, fmt.Errorf("policy %s: %w", spec.Name, err)
	}
	pol, err := def.build(p)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", spec.Name, err)
	}
	return pol, nil
}

func isKnownParam(def definition, key string) bool {
	if _, ok := def.optional[key]; ok {
		return true
	}
	for _, k := range def.required {
		if k == key {
			return true
		}
	}
	return false
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("requires parameter %q", k)
		}
	}
	return nil
}

type params map[string]float64

func (p params) int(key string) int {
	return int(math.Round(p[key]))
}

func (p params) bool(key string) bool {
	return p[key] != 0
}

// roundTo rounds v to the nearest multiple of step, ties to even.
func roundTo(v float64, step int) int {
	if step <= 1 {
		return int(math.RoundToEven(v))
	}
	return int(math.RoundToEven(v/float64(step))) * step
}

func mean(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
