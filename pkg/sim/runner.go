package sim

import (
	"math/rand"
	"time"
)

// DefaultCheckpoints is the number of cycle-count checkpoints a sweep
// evaluates unless overridden.
const DefaultCheckpoints = 200

// Result is the outcome of one architecture simulation: the configuration
// it ran with, the BER curve handed to reporting, and the seed that
// reproduces it.
type Result struct {
	Config  ArchConfig
	Curve   Curve
	Seed    int64
	Elapsed time.Duration
}

// Run simulates a single architecture: generate the endurance population
// from a per-run generator seeded with seed, then evaluate the BER curve
// over the cycle sweep.
func Run(cfg ArchConfig, seed int64, numCheckpoints int) (Result, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if numCheckpoints == 0 {
		numCheckpoints = DefaultCheckpoints
	}

	start := time.Now()
	pop, err := Generate(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		return Result{}, err
	}

	curve, err := Evaluate(pop, cfg.MaxCycles, numCheckpoints, cfg.Spacing)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:  cfg,
		Curve:   curve,
		Seed:    seed,
		Elapsed: time.Since(start),
	}, nil
}

// RunAll simulates every configuration in order. Runs share no state: each
// gets its own generator, seeded with the base seed offset by its index, so
// results are independent of execution order and safe to parallelize later.
func RunAll(configs []ArchConfig, seed int64, numCheckpoints int) ([]Result, error) {
	results := make([]Result, 0, len(configs))
	for i, cfg := range configs {
		res, err := Run(cfg, seed+int64(i), numCheckpoints)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
