// Package sim implements the NAND flash endurance Monte Carlo simulation:
// population-level cell endurance modeling and cumulative BER evaluation
// over a P/E cycle sweep.
package sim

import (
	"fmt"
)

// Spacing selects how cycle-count checkpoints are distributed across the sweep.
type Spacing string

const (
	// SpacingLog spaces checkpoints logarithmically between 1 and max cycles.
	// This samples the rapid early rise of the BER S-curve much better than
	// linear spacing, which wastes most checkpoints on the saturated tail.
	SpacingLog Spacing = "log"

	// SpacingLinear spaces checkpoints evenly between 1 and max cycles.
	SpacingLinear Spacing = "linear"
)

// Valid reports whether s is a known spacing mode.
func (s Spacing) Valid() bool {
	return s == SpacingLog || s == SpacingLinear
}

// ArchConfig describes one NAND architecture to simulate. Values are fixed
// at construction and never mutated by the simulation.
type ArchConfig struct {
	// Name is the display name of the architecture, e.g. "SLC (Single-Level Cell)".
	Name string `yaml:"name"`

	// MeanEndurance is the mean of the Normal endurance distribution, in P/E cycles.
	MeanEndurance float64 `yaml:"mean_endurance"`

	// StdDev is the standard deviation of the endurance distribution,
	// representing manufacturing variation between cells.
	StdDev float64 `yaml:"std_dev"`

	// MaxCycles is the highest P/E cycle count the sweep evaluates.
	// Zero means derive it from the distribution (mean + 4 sigma).
	MaxCycles int `yaml:"max_cycles"`

	// PopulationSize is the number of simulated cells.
	PopulationSize int `yaml:"population_size"`

	// Spacing selects checkpoint distribution. Empty means SpacingLog.
	Spacing Spacing `yaml:"spacing"`
}

// ConfigError reports a structurally invalid simulation input. It indicates
// a programming or configuration mistake, never a transient condition, and
// is not retried.
type ConfigError struct {
	Arch   string // architecture name, if known
	Field  string // offending parameter
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Arch != "" {
		return fmt.Sprintf("invalid config for %s: %s: %s", e.Arch, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// configErrorf builds a ConfigError for the named field.
func configErrorf(arch, field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Arch: arch, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Normalize fills derived defaults: MaxCycles from mean + 4 sigma when unset,
// log spacing when unset. It does not validate.
func (c ArchConfig) Normalize() ArchConfig {
	if c.MaxCycles == 0 && c.MeanEndurance > 0 {
		c.MaxCycles = int(c.MeanEndurance + 4*c.StdDev)
	}
	if c.Spacing == "" {
		c.Spacing = SpacingLog
	}
	return c
}

// Validate checks the configuration and returns a *ConfigError describing
// the first invalid field found.
func (c ArchConfig) Validate() error {
	if c.Name == "" {
		return configErrorf("", "name", "must not be empty")
	}
	if c.MeanEndurance <= 0 {
		return configErrorf(c.Name, "mean_endurance", "must be > 0, got %g", c.MeanEndurance)
	}
	if c.StdDev < 0 {
		return configErrorf(c.Name, "std_dev", "must be >= 0, got %g", c.StdDev)
	}
	if c.MaxCycles <= 0 {
		return configErrorf(c.Name, "max_cycles", "must be > 0, got %d", c.MaxCycles)
	}
	if c.PopulationSize <= 0 {
		return configErrorf(c.Name, "population_size", "must be > 0, got %d", c.PopulationSize)
	}
	if c.Spacing != "" && !c.Spacing.Valid() {
		return configErrorf(c.Name, "spacing", "must be %q or %q, got %q", SpacingLog, SpacingLinear, c.Spacing)
	}
	return nil
}
