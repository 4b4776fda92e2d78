package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/production-sim/production-sim/sim/experiment"
)

func newSweepFlagCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().StringVar(&sweepPolicy, "policy", "", "")
	c.Flags().StringArrayVar(&sweepRanges, "range", nil, "")
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestApplySweepFlags_NoFlagsKeepsScenarioSweep(t *testing.T) {
	sc := experiment.Default()
	before := sc.Sweep

	require.NoError(t, applySweepFlags(newSweepFlagCommand(t), sc))
	assert.Same(t, before, sc.Sweep)
}

func TestApplySweepFlags_ReplacesPolicyAndRanges(t *testing.T) {
	// GIVEN the default differentiated sweep
	sc := experiment.Default()

	// WHEN a max-last-n window list replaces it
	c := newSweepFlagCommand(t, "--policy", "max-last-n", "--range", "window=1;2;3")
	require.NoError(t, applySweepFlags(c, sc))

	// THEN the grid has one arm per window
	assert.Equal(t, "max-last-n", sc.Sweep.Policy.Name)
	arms, err := sc.Sweep.Arms()
	require.NoError(t, err)
	require.Len(t, arms, 3)
	assert.Equal(t, "1", arms[0].Label)
}

func TestApplySweepFlags_RangeWithoutScenarioSweep(t *testing.T) {
	sc := experiment.Default()
	sc.Sweep = nil

	// a range alone has no policy to apply it to
	c := newSweepFlagCommand(t, "--range", "production=30;60")
	assert.Error(t, applySweepFlags(c, sc))

	c = newSweepFlagCommand(t, "--policy", "constant", "--range", "production=30;60")
	require.NoError(t, applySweepFlags(c, sc))
	assert.Len(t, sc.Sweep.Params, 1)
}

func TestApplySweepFlags_InvalidRange(t *testing.T) {
	sc := experiment.Default()
	c := newSweepFlagCommand(t, "--range", "weekday=10:1:1")
	assert.Error(t, applySweepFlags(c, sc))
}
