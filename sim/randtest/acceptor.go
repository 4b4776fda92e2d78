package randtest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/production-sim/production-sim/sim/lcg"
)

// ErrNoAcceptedSequence is returned when MaxAttempts candidates were all rejected.
var ErrNoAcceptedSequence = errors.New("no sequence passed the acceptance battery")

// Accepted is a sequence that passed the battery.
type Accepted struct {
	Values   []float64
	Seed     uint64
	Attempts int
}

// Acceptor draws candidate sequences with fresh seeds until one passes the
// battery. Seeds come from Seeds so the search is reproducible.
type Acceptor struct {
	Battery Battery
	// Generator supplies a, c and m; its seed is ignored.
	Generator lcg.Params
	// MaxAttempts bounds the search; 0 means unbounded.
	MaxAttempts int
	Seeds       *rand.Rand
	// OnAttempt, when set, is called after every candidate is evaluated.
	OnAttempt func(attempt int, seed uint64, accepted bool)
}

// Accept returns the first candidate of length n that passes the battery.
// The search stops early when ctx is cancelled.
func (a *Acceptor) Accept(ctx context.Context, n int) (*Accepted, error) {
	if a.Seeds == nil {
		return nil, errors.New("acceptor has no seed source")
	}
	for attempt := 1; a.MaxAttempts <= 0 || attempt <= a.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := DrawSeed(a.Seeds, a.Generator.M)
		seq, err := lcg.Generate(a.Generator.WithSeed(seed), n)
		if err != nil {
			return nil, fmt.Errorf("generating candidate: %w", err)
		}
		ok := a.Battery.Accepts(seq)
		if a.OnAttempt != nil {
			a.OnAttempt(attempt, seed, ok)
		}
		if ok {
			logrus.Debugf("sequence of %d values accepted on attempt %d (seed %d)", n, attempt, seed)
			return &Accepted{Values: seq, Seed: seed, Attempts: attempt}, nil
		}
		logrus.Debugf("attempt %d: seed %d rejected", attempt, seed)
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrNoAcceptedSequence, a.MaxAttempts)
}

// DrawSeed draws a generator seed in [1, m) from r.
func DrawSeed(r *rand.Rand, m uint64) uint64 {
	span := m - 1
	if span == 0 {
		return 0
	}
	if span <= math.MaxInt64 {
		return uint64(r.Int63n(int64(span))) + 1
	}
	return r.Uint64()%span + 1
}
