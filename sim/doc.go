// Package sim provides the daily production simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - schedule.go: Day and Schedule (draw → demand per calendar day) and the demand History
//   - simulator.go: The day loop and the ledger (sales, shortage, waste, carry-over)
//   - result.go: Prices and the accumulated Result, with money kept in decimal
//
// # Architecture
//
// The sim package defines the engine types; everything else lives in
// sub-packages:
//   - sim/lcg/: Linear congruential generator and sequence files
//   - sim/randtest/: Mean, variance, chi-square and poker acceptance tests
//   - sim/policy/: Production policies and their factory
//   - sim/stats/: Confidence intervals and descriptive statistics
//   - sim/experiment/: Scenario files, schedule sources, sweep and comparison runners
//   - sim/report/: CSV, tables and plots
//   - sim/recorder/: Optional persistence of experiment results
//   - sim/trace/: Per-day decision recording
//
// # Key Interfaces
//
//   - Policy: production for a day given the demand history
//   - DemandModel: demand for a uniform draw
//
// Randomness enters only through PartitionedRNG streams that seed the
// generator, so a fixed SimulationKey reproduces every schedule.
package sim
