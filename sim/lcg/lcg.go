// Package lcg implements the linear congruential generator that feeds the
// demand simulations, together with plain-text storage for its sequences.
package lcg

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

// Park–Miller "minimal standard" parameters.
const (
	ParkMillerA uint64 = 16807
	ParkMillerC uint64 = 0
	ParkMillerM uint64 = 1<<31 - 1
)

// Precision is the number of decimal places kept in every output value.
const Precision = 4

// MaxValue is the largest value a generator emits. Values that would round
// up to 1.0 are clamped here so every output stays in [0, 1).
const MaxValue = 0.9999

// ErrInvalidParams is returned (wrapped) for any unusable parameter set.
var ErrInvalidParams = errors.New("invalid generator parameters")

// Params configures the recurrence x(n+1) = (A*x(n) + C) mod M.
type Params struct {
	Seed uint64 `yaml:"seed"`
	A    uint64 `yaml:"a"`
	C    uint64 `yaml:"c"`
	M    uint64 `yaml:"m"`
}

// ParkMiller returns the recommended multiplicative parameters for seed.
func ParkMiller(seed uint64) Params {
	return Params{Seed: seed, A: ParkMillerA, C: ParkMillerC, M: ParkMillerM}
}

// WithSeed returns a copy of p using seed.
func (p Params) WithSeed(seed uint64) Params {
	p.Seed = seed
	return p
}

// Validate checks that the recurrence is well defined and does not collapse
// to a constant sequence.
func (p Params) Validate() error {
	if p.M == 0 {
		return fmt.Errorf("%w: modulus must be positive", ErrInvalidParams)
	}
	if p.A == 0 || p.A >= p.M {
		return fmt.Errorf("%w: multiplier must be in (0, %d), got %d", ErrInvalidParams, p.M, p.A)
	}
	if p.C >= p.M {
		return fmt.Errorf("%w: increment must be in [0, %d), got %d", ErrInvalidParams, p.M, p.C)
	}
	if p.Seed >= p.M {
		return fmt.Errorf("%w: seed must be in [0, %d), got %d", ErrInvalidParams, p.M, p.Seed)
	}
	if p.Seed == 0 && p.C == 0 {
		return fmt.Errorf("%w: seed 0 with increment 0 yields a constant sequence", ErrInvalidParams)
	}
	return nil
}

// Generator produces a deterministic stream of values in [0, 1).
// Not safe for concurrent use.
type Generator struct {
	params Params
	state  uint64
}

// New creates a Generator after validating p.
func New(p Params) (*Generator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Generator{params: p, state: p.Seed}, nil
}

// Params returns the parameters the generator was created with.
func (g *Generator) Params() Params {
	return g.params
}

// State returns the last raw value of the recurrence (the seed before the first draw).
func (g *Generator) State() uint64 {
	return g.state
}

// NextRaw advances the recurrence and returns the new raw state.
func (g *Generator) NextRaw() uint64 {
	g.state = step(g.state, g.params.A, g.params.C, g.params.M)
	return g.state
}

// Next advances the recurrence and returns the normalized value.
func (g *Generator) Next() float64 {
	return Normalize(g.NextRaw(), g.params.M)
}

// Generate returns the first n normalized values of the sequence defined by p.
func Generate(p Params, n int) ([]float64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: sequence length must be non-negative, got %d", ErrInvalidParams, n)
	}
	g, err := New(p)
	if err != nil {
		return nil, err
	}
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = g.Next()
	}
	return seq, nil
}

// Normalize maps a raw state x in [0, m) to x/m rounded to Precision decimals.
func Normalize(x, m uint64) float64 {
	scale := math.Pow10(Precision)
	v := math.Round(float64(x)/float64(m)*scale) / scale
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// step computes (a*x + c) mod m without overflow for any 64-bit modulus.
func step(x, a, c, m uint64) uint64 {
	hi, lo := bits.Mul64(a, x)
	lo, carry := bits.Add64(lo, c, 0)
	hi += carry
	_, rem := bits.Div64(hi%m, lo, m)
	return rem
}
