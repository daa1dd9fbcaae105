package sim

import (
	"math/rand"
	"time"
)

// Population holds the endurance threshold of every simulated cell: the P/E
// cycle count at which that cell transitions to failed. It is created once
// per architecture and read-only afterwards.
type Population []float64

// Max returns the largest endurance value in the population, or 0 for an
// empty population.
func (p Population) Max() float64 {
	max := 0.0
	for _, v := range p {
		if v > max {
			max = v
		}
	}
	return max
}

// Generate draws a population of per-cell endurance thresholds from a
// Normal(MeanEndurance, StdDev) distribution using the supplied generator.
// Negative draws are clamped to zero (immediate failure) rather than
// resampled, so the returned population always has exactly
// cfg.PopulationSize elements. A nil rng uses a time-seeded private
// generator, which makes the draw non-reproducible.
func Generate(cfg ArchConfig, rng *rand.Rand) (Population, error) {
	if cfg.PopulationSize <= 0 {
		return nil, configErrorf(cfg.Name, "population_size", "must be > 0, got %d", cfg.PopulationSize)
	}
	if cfg.StdDev < 0 {
		return nil, configErrorf(cfg.Name, "std_dev", "must be >= 0, got %g", cfg.StdDev)
	}
	if cfg.MeanEndurance <= 0 {
		return nil, configErrorf(cfg.Name, "mean_endurance", "must be > 0, got %g", cfg.MeanEndurance)
	}

	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	pop := make(Population, cfg.PopulationSize)
	for i := range pop {
		v := rng.NormFloat64()*cfg.StdDev + cfg.MeanEndurance
		if v < 0 {
			v = 0
		}
		pop[i] = v
	}
	return pop, nil
}

// GenerateSeeded draws a population from a generator seeded with seed.
// Repeated calls with equal cfg and seed produce bit-identical populations.
func GenerateSeeded(cfg ArchConfig, seed int64) (Population, error) {
	return Generate(cfg, rand.New(rand.NewSource(seed)))
}
