// Package testutil provides shared test infrastructure for the production
// simulator: the generator golden dataset, float assertions and small
// schedule builders used across sim/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldendataset.json.
type GoldenDataset struct {
	Tests []GoldenSequence `json:"tests"`
}

// GoldenSequence is a generator parameter set with its expected output.
type GoldenSequence struct {
	Name   string    `json:"name"`
	Seed   uint64    `json:"seed"`
	A      uint64    `json:"a"`
	C      uint64    `json:"c"`
	M      uint64    `json:"m"`
	N      int       `json:"n"`
	Raw    []uint64  `json:"raw"`    // successive recurrence states
	Values []float64 `json:"values"` // normalized, rounded outputs
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldendataset.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// UniformGrid returns n evenly spread values (i+0.5)/n rounded to four
// decimals. The grid passes the mean, variance and chi-square checks for any
// reasonably large n.
func UniformGrid(n int) []float64 {
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = math.Round((float64(i)+0.5)/float64(n)*1e4) / 1e4
	}
	return seq
}

// Repeat returns a slice holding v n times.
func Repeat(v float64, n int) []float64 {
	seq := make([]float64, n)
	for i := range seq {
		seq[i] = v
	}
	return seq
}
