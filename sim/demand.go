package sim

import (
	"fmt"
	"math"
	"sort"
)

// DemandModel maps a uniform draw in [0, 1) to a daily demand.
type DemandModel interface {
	// Demand returns a non-negative unit count.
	Demand(r float64) int
}

// AffineDemand yields floor(Scale·r) + Offset, i.e. a discrete uniform
// demand on [Offset, Offset+Scale-1] for integral Scale.
type AffineDemand struct {
	Scale  float64
	Offset int
}

func (d AffineDemand) Demand(r float64) int {
	v := int(math.Floor(r*d.Scale)) + d.Offset
	if v < 0 {
		return 0
	}
	return v
}

// ConstantDemand ignores the draw.
type ConstantDemand struct {
	Value int
}

func (d ConstantDemand) Demand(_ float64) int {
	return max(d.Value, 0)
}

// EmpiricalDemand inverts a discrete demand distribution using binary search
// over its cumulative probabilities.
type EmpiricalDemand struct {
	values []int     // sorted demand values
	cdf    []float64 // cumulative probabilities (same length as values)
}

// NewEmpiricalDemand creates a model from a demand → probability map.
// Probabilities are normalized if they don't sum to 1.0.
func NewEmpiricalDemand(pmf map[int]float64) *EmpiricalDemand {
	keys := make([]int, 0, len(pmf))
	for k := range pmf {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	total := 0.0
	for _, k := range keys {
		if pmf[k] > 0 {
			total += pmf[k]
		}
	}

	values := make([]int, 0, len(keys))
	cdf := make([]float64, 0, len(keys))
	cumulative := 0.0
	for _, k := range keys {
		p := pmf[k]
		if p <= 0 {
			continue
		}
		cumulative += p / total
		values = append(values, k)
		cdf = append(cdf, cumulative)
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0
	}
	return &EmpiricalDemand{values: values, cdf: cdf}
}

// Demand returns the smallest value whose cumulative probability exceeds r.
func (d *EmpiricalDemand) Demand(r float64) int {
	if len(d.values) == 0 {
		return 0
	}
	idx := sort.Search(len(d.cdf), func(i int) bool { return d.cdf[i] > r })
	if idx >= len(d.values) {
		idx = len(d.values) - 1
	}
	return max(d.values[idx], 0)
}

// DemandSpec configures a demand model in a scenario file.
type DemandSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
	PMF    map[int]float64    `yaml:"pmf,omitempty"`
}

// ValidDemandTypes is the set of recognized demand model types.
var ValidDemandTypes = map[string]bool{"affine": true, "constant": true, "empirical": true}

// DefaultWeekdayDemand is uniform on 4..80 units.
func DefaultWeekdayDemand() DemandSpec {
	return DemandSpec{Type: "affine", Params: map[string]float64{"scale": 77, "offset": 4}}
}

// DefaultWeekendDemand is uniform on 18..107 units.
func DefaultWeekendDemand() DemandSpec {
	return DemandSpec{Type: "affine", Params: map[string]float64{"scale": 90, "offset": 18}}
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("demand model requires parameter %q", k)
		}
	}
	return nil
}

// NewDemandModel creates a DemandModel from a DemandSpec.
func NewDemandModel(spec DemandSpec) (DemandModel, error) {
	for name, val := range spec.Params {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("params.%s must be a finite number, got %f", name, val)
		}
	}
	switch spec.Type {
	case "affine":
		if err := requireParam(spec.Params, "scale", "offset"); err != nil {
			return nil, err
		}
		if spec.Params["scale"] < 0 || spec.Params["offset"] < 0 {
			return nil, fmt.Errorf("affine demand requires non-negative scale and offset")
		}
		return AffineDemand{Scale: spec.Params["scale"], Offset: int(spec.Params["offset"])}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		if spec.Params["value"] < 0 {
			return nil, fmt.Errorf("constant demand must be non-negative, got %f", spec.Params["value"])
		}
		return ConstantDemand{Value: int(spec.Params["value"])}, nil

	case "empirical":
		if len(spec.PMF) == 0 {
			return nil, fmt.Errorf("empirical demand requires a non-empty pmf")
		}
		positive := false
		for v, p := range spec.PMF {
			if v < 0 {
				return nil, fmt.Errorf("empirical demand values must be non-negative, got %d", v)
			}
			if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
				return nil, fmt.Errorf("empirical probability for %d must be a finite non-negative number, got %f", v, p)
			}
			positive = positive || p > 0
		}
		if !positive {
			return nil, fmt.Errorf("empirical demand requires at least one positive probability")
		}
		return NewEmpiricalDemand(spec.PMF), nil

	default:
		return nil, fmt.Errorf("unknown demand model type %q; valid: affine, constant, empirical", spec.Type)
	}
}

// DemandModels holds one model per day type.
type DemandModels struct {
	Weekday DemandModel
	Weekend DemandModel
}

// DefaultDemandModels returns the 4..80 weekday and 18..107 weekend models.
func DefaultDemandModels() DemandModels {
	return DemandModels{
		Weekday: AffineDemand{Scale: 77, Offset: 4},
		Weekend: AffineDemand{Scale: 90, Offset: 18},
	}
}

// For returns the model of day type t.
func (m DemandModels) For(t DayType) DemandModel {
	if t == Weekend {
		return m.Weekend
	}
	return m.Weekday
}
