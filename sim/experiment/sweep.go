package experiment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/production-sim/production-sim/sim/policy"
)

// maxGridPoints bounds the size of a sweep grid.
const maxGridPoints = 1_000_000

// SweepSpec sweeps one policy over the cartesian product of parameter values.
type SweepSpec struct {
	// Policy holds the policy name and the parameters that stay fixed.
	Policy policy.Spec  `yaml:"policy"`
	Params []SweepParam `yaml:"params"`
}

// SweepParam lists the values of one swept parameter, either explicitly or
// as the inclusive range From..To by Step.
type SweepParam struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values,omitempty"`
	From   *float64  `yaml:"from,omitempty"`
	To     *float64  `yaml:"to,omitempty"`
	Step   *float64  `yaml:"step,omitempty"`
}

// Expand returns the values of the parameter in order.
func (p SweepParam) Expand() ([]float64, error) {
	hasRange := p.From != nil || p.To != nil || p.Step != nil
	if len(p.Values) > 0 && hasRange {
		return nil, fmt.Errorf("param %s: use either values or from/to/step, not both", p.Name)
	}
	if len(p.Values) > 0 {
		for _, v := range p.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("param %s: values must be finite, got %f", p.Name, v)
			}
		}
		return append([]float64(nil), p.Values...), nil
	}
	if p.From == nil || p.To == nil || p.Step == nil {
		return nil, fmt.Errorf("param %s: requires values or all of from, to and step", p.Name)
	}
	from, to, step := *p.From, *p.To, *p.Step
	for _, v := range []float64{from, to, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("param %s: range bounds must be finite", p.Name)
		}
	}
	if step <= 0 {
		return nil, fmt.Errorf("param %s: step must be positive, got %f", p.Name, step)
	}
	if to < from {
		return nil, fmt.Errorf("param %s: to (%f) is below from (%f)", p.Name, to, from)
	}
	count := int(math.Floor((to-from)/step+1e-9)) + 1
	if count > maxGridPoints {
		return nil, fmt.Errorf("param %s: %d values exceed the limit of %d", p.Name, count, maxGridPoints)
	}
	values := make([]float64, count)
	for i := range values {
		values[i] = from + float64(i)*step
	}
	return values, nil
}

// Arm is one unit of work of an experiment: a fully specified policy.
type Arm struct {
	ID     int
	Label  string
	Policy policy.Spec
	// Point holds the swept values in SweepSpec.Params order; nil for comparisons.
	Point []float64
}

// Validate checks the sweep without running it.
func (s *SweepSpec) Validate() error {
	_, err := s.Arms()
	return err
}

// Arms expands the grid into one arm per point. The last parameter varies
// fastest.
func (s *SweepSpec) Arms() ([]Arm, error) {
	if !policy.ValidNames[s.Policy.Name] {
		return nil, fmt.Errorf("unknown policy %q; valid policies: [%s]", s.Policy.Name, strings.Join(policy.Names(), ", "))
	}
	if len(s.Params) == 0 {
		return nil, fmt.Errorf("at least one swept param required")
	}
	seen := make(map[string]bool, len(s.Params))
	axes := make([][]float64, len(s.Params))
	total := 1
	for i, p := range s.Params {
		if seen[p.Name] {
			return nil, fmt.Errorf("param %s is swept twice", p.Name)
		}
		seen[p.Name] = true
		if _, fixed := s.Policy.Params[p.Name]; fixed {
			return nil, fmt.Errorf("param %s is both fixed and swept", p.Name)
		}
		values, err := p.Expand()
		if err != nil {
			return nil, err
		}
		axes[i] = values
		total *= len(values)
		if total > maxGridPoints {
			return nil, fmt.Errorf("grid exceeds the limit of %d points", maxGridPoints)
		}
	}

	arms := make([]Arm, 0, total)
	idx := make([]int, len(axes))
	for {
		point := make([]float64, len(axes))
		spec := s.Policy
		for i, axis := range axes {
			point[i] = axis[idx[i]]
			spec = spec.With(s.Params[i].Name, point[i])
		}
		if _, err := policy.New(spec); err != nil {
			return nil, fmt.Errorf("point %s: %w", s.pointLabel(point), err)
		}
		arms = append(arms, Arm{ID: len(arms), Label: s.pointLabel(point), Policy: spec, Point: point})

		// odometer increment
		i := len(idx) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(axes[i]) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			return arms, nil
		}
	}
}

// ParamNames returns the swept parameter names in order.
func (s *SweepSpec) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// pointLabel renders a single value as the bare number and several as
// name=value pairs.
func (s *SweepSpec) pointLabel(point []float64) string {
	if len(point) == 1 {
		return strconv.FormatFloat(point[0], 'f', -1, 64)
	}
	parts := make([]string, len(point))
	for i, v := range point {
		parts[i] = s.Params[i].Name + "=" + strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}

// ComparisonArms returns one arm per policy, labelled by the policy spec.
func ComparisonArms(specs []policy.Spec) []Arm {
	arms := make([]Arm, len(specs))
	for i, spec := range specs {
		arms[i] = Arm{ID: i, Label: spec.Label(), Policy: spec}
	}
	return arms
}
