package policy

import (
	"testing"
	"time"

	"github.com/production-sim/production-sim/sim"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(sim.DateLayout, s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
