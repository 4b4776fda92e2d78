package lcg

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/production-sim/production-sim/sim/internal/testutil"
)

func TestGenerate_ParkMillerRegression(t *testing.T) {
	// GIVEN the recommended parameters and seed 12345
	seq, err := Generate(ParkMiller(12345), 1)

	// THEN the first value is 207482415/2147483647 rounded to four decimals
	require.NoError(t, err)
	assert.Equal(t, []float64{0.0966}, seq)
}

func TestGenerate_GoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			p := Params{Seed: tc.Seed, A: tc.A, C: tc.C, M: tc.M}

			g, err := New(p)
			require.NoError(t, err)
			for i, want := range tc.Raw {
				if got := g.NextRaw(); got != want {
					t.Fatalf("raw[%d]: got %d, want %d", i, got, want)
				}
			}

			seq, err := Generate(p, tc.N)
			require.NoError(t, err)
			require.Len(t, seq, len(tc.Values))
			for i := range seq {
				testutil.AssertFloat64Equal(t, "value", tc.Values[i], seq[i], 1e-12)
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	p := Params{Seed: 987, A: 69069, C: 1, M: 1 << 32}
	a, err := Generate(p, 500)
	require.NoError(t, err)
	b, err := Generate(p, 500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_ValuesInUnitInterval(t *testing.T) {
	seq, err := Generate(ParkMiller(1), 100000)
	require.NoError(t, err)
	for i, v := range seq {
		if v < 0 || v >= 1 {
			t.Fatalf("value %d out of [0,1): %v", i, v)
		}
	}
}

func TestGenerate_MomentsConverge(t *testing.T) {
	// GIVEN a long Park-Miller sequence
	seq, err := Generate(ParkMiller(12345), 200000)
	require.NoError(t, err)

	// WHEN its sample moments are computed
	mean, variance := stat.MeanVariance(seq, nil)

	// THEN they approach those of U(0,1)
	assert.InDelta(t, 0.5, mean, 0.005)
	assert.InDelta(t, 1.0/12, variance, 0.002)
}

func TestGenerate_ZeroLength(t *testing.T) {
	seq, err := Generate(ParkMiller(5), 0)
	require.NoError(t, err)
	assert.Empty(t, seq)
}

func TestGenerate_NegativeLength(t *testing.T) {
	_, err := Generate(ParkMiller(5), -1)
	assert.True(t, errors.Is(err, ErrInvalidParams))
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"park-miller", ParkMiller(42), false},
		{"mixed", Params{Seed: 0, A: 5, C: 3, M: 16}, false},
		{"zero modulus", Params{Seed: 1, A: 5, C: 3, M: 0}, true},
		{"zero multiplier", Params{Seed: 1, A: 0, C: 3, M: 16}, true},
		{"multiplier too large", Params{Seed: 1, A: 16, C: 3, M: 16}, true},
		{"increment too large", Params{Seed: 1, A: 5, C: 16, M: 16}, true},
		{"seed too large", Params{Seed: 16, A: 5, C: 3, M: 16}, true},
		{"constant zero sequence", Params{Seed: 0, A: 5, C: 0, M: 16}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalize_ClampsBelowOne(t *testing.T) {
	// GIVEN a raw state whose ratio rounds up to 1.0
	m := uint64(1_000_000)

	// THEN the normalized value stays strictly below 1
	assert.Equal(t, MaxValue, Normalize(m-1, m))
	assert.Equal(t, 0.5, Normalize(m/2, m))
	assert.Equal(t, 0.0, Normalize(0, m))
}

func TestStep_LargeModulusDoesNotOverflow(t *testing.T) {
	// (a*x + c) exceeds 64 bits here; the result must still equal the exact remainder.
	m := uint64(1<<63 + 25)
	a := m - 2
	x := m - 3
	// (m-2)(m-3) = m^2 - 5m + 6 ≡ 6 (mod m)
	assert.Equal(t, uint64(6), step(x, a, 0, m))
	assert.Equal(t, uint64(10), step(x, a, 4, m))
}

func TestGenerator_State(t *testing.T) {
	g, err := New(ParkMiller(12345))
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), g.State())
	g.Next()
	assert.Equal(t, uint64(207482415), g.State())
	assert.Equal(t, ParkMiller(12345), g.Params())
}

func TestSequence_SaveLoadFile(t *testing.T) {
	// GIVEN a generated sequence written to disk
	seq, err := Generate(ParkMiller(12345), 25)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "numbers.csv")
	require.NoError(t, SaveSequence(path, seq))

	// WHEN it is loaded back
	loaded, err := LoadSequence(path)

	// THEN the values are identical
	require.NoError(t, err)
	assert.Equal(t, seq, loaded)
}

func TestReadSequence_SkipsBlankLines(t *testing.T) {
	seq, err := ReadSequence(bytes.NewBufferString("0.1\n\n  0.25 \n0.9999\n\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.25, 0.9999}, seq)
}

func TestReadSequence_ReportsLineNumber(t *testing.T) {
	_, err := ReadSequence(bytes.NewBufferString("0.1\nabc\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadSequence_MissingFile(t *testing.T) {
	_, err := LoadSequence(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
