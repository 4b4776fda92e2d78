package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/production-sim/production-sim/sim"
	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/policy"
	"github.com/production-sim/production-sim/sim/stats"
)

// Scenario override flags shared by the experiment commands.
var (
	seed         int64
	days         int
	startDate    string
	dayTypes     string
	replications int
	workers      int
	alpha        float64
	ciMethod     string
	shelfLife    int
	revenueBasis string
	noAccept     bool
	maxAttempts  int
	traceLevel   string
)

// registerScenarioFlags adds the override flags to c. Defaults mirror
// experiment.Default(); only flags the user sets override the scenario.
func registerScenarioFlags(c *cobra.Command) {
	d := experiment.Default()
	c.Flags().Int64Var(&seed, "seed", d.Seed, "Master seed for every random stream")
	c.Flags().IntVar(&days, "days", d.Days, "Days per simulated run")
	c.Flags().StringVar(&startDate, "start", d.StartDate, "First simulated date (YYYY-MM-DD)")
	c.Flags().StringVar(&dayTypes, "day-types", d.DayTypes, "Days to simulate (all, weekday, weekend)")
	c.Flags().IntVar(&replications, "replications", d.Replications, "Replications per policy or parameter value")
	c.Flags().IntVar(&workers, "workers", d.Workers, "Worker pool size")
	c.Flags().Float64Var(&alpha, "alpha", d.Confidence.Alpha, "Significance level of the confidence intervals")
	c.Flags().StringVar(&ciMethod, "ci-method", string(d.Confidence.Method), "Confidence interval method (t, chebyshev)")
	c.Flags().IntVar(&shelfLife, "shelf-life", d.ShelfLifeDays, "Days a unit can be sold (1 or 2)")
	c.Flags().StringVar(&revenueBasis, "revenue-basis", string(d.RevenueBasis), "Revenue from units sold or demanded (sold, demand)")
	c.Flags().BoolVar(&noAccept, "no-acceptance", false, "Use generated sequences without the acceptance battery")
	c.Flags().IntVar(&maxAttempts, "max-attempts", d.Acceptance.MaxAttempts, "Candidate sequences tried before giving up (0 = unbounded)")
	c.Flags().StringVar(&traceLevel, "trace", d.Trace, "Trace level (none, days)")
}

// loadScenario returns the configured scenario: defaults, replaced by the
// --config file when given, then overridden by explicitly set flags.
func loadScenario(c *cobra.Command) *experiment.Scenario {
	sc := experiment.Default()
	if configPath != "" {
		var err error
		sc, err = experiment.LoadScenario(configPath)
		if err != nil {
			logrus.Fatalf("Failed to load scenario: %v", err)
		}
		logrus.Infof("Loaded scenario %q from %s", sc.Name, configPath)
	}
	applyScenarioFlags(c, sc)
	if err := sc.Validate(); err != nil {
		logrus.Fatalf("Invalid scenario: %v", err)
	}
	return sc
}

// applyScenarioFlags copies every explicitly set flag into sc.
func applyScenarioFlags(c *cobra.Command, sc *experiment.Scenario) {
	changed := c.Flags().Changed
	if changed("seed") {
		sc.Seed = seed
	}
	if changed("days") {
		sc.Days = days
	}
	if changed("start") {
		sc.StartDate = startDate
	}
	if changed("day-types") {
		sc.DayTypes = dayTypes
	}
	if changed("replications") {
		sc.Replications = replications
	}
	if changed("workers") {
		sc.Workers = workers
	}
	if changed("alpha") {
		sc.Confidence.Alpha = alpha
	}
	if changed("ci-method") {
		sc.Confidence.Method = stats.Method(ciMethod)
	}
	if changed("shelf-life") {
		sc.ShelfLifeDays = shelfLife
	}
	if changed("revenue-basis") {
		sc.RevenueBasis = sim.RevenueBasis(revenueBasis)
	}
	if changed("no-acceptance") {
		sc.Acceptance.Enabled = !noAccept
	}
	if changed("max-attempts") {
		sc.Acceptance.MaxAttempts = maxAttempts
	}
	if changed("trace") {
		sc.Trace = traceLevel
	}
}

// parsePolicySpec parses "name" or "name:key=value,key=value".
func parsePolicySpec(s string) (policy.Spec, error) {
	name, params, hasParams := strings.Cut(strings.TrimSpace(s), ":")
	spec := policy.Spec{Name: name}
	if name == "" {
		return spec, fmt.Errorf("policy %q: missing name", s)
	}
	if !hasParams {
		return spec, nil
	}
	spec.Params = make(map[string]float64)
	for _, kv := range strings.Split(params, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return spec, fmt.Errorf("policy %q: parameter %q is not key=value", s, kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return spec, fmt.Errorf("policy %q: parameter %s: %w", s, k, err)
		}
		spec.Params[strings.TrimSpace(k)] = f
	}
	return spec, nil
}

// parseSweepParam parses "name=from:to:step" or "name=v1;v2;v3".
func parseSweepParam(s string) (experiment.SweepParam, error) {
	name, values, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return experiment.SweepParam{}, fmt.Errorf("range %q must be name=from:to:step or name=v1;v2", s)
	}
	p := experiment.SweepParam{Name: strings.TrimSpace(name)}
	if parts := strings.Split(values, ":"); len(parts) == 3 {
		bounds := make([]float64, 3)
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return p, fmt.Errorf("range %q: %w", s, err)
			}
			bounds[i] = f
		}
		p.From, p.To, p.Step = &bounds[0], &bounds[1], &bounds[2]
		return p, nil
	}
	for _, part := range strings.Split(values, ";") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return p, fmt.Errorf("range %q: %w", s, err)
		}
		p.Values = append(p.Values, f)
	}
	return p, nil
}
