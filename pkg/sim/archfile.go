package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// archFile is the YAML layout of a user-supplied architecture table.
type archFile struct {
	Architectures []ArchConfig `yaml:"architectures"`
}

// LoadArchFile reads an architecture table from a YAML file and merges it
// into the registry, replacing built-ins with the same key. Every entry is
// normalized and validated before any is applied.
func LoadArchFile(r *Registry, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a user-specified config file from a command line flag
	if err != nil {
		return fmt.Errorf("failed to read architecture file: %w", err)
	}

	var file archFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse architecture file: %w", err)
	}
	if len(file.Architectures) == 0 {
		return fmt.Errorf("architecture file %s defines no architectures", path)
	}

	normalized := make([]ArchConfig, len(file.Architectures))
	for i, cfg := range file.Architectures {
		cfg = cfg.Normalize()
		if cfg.PopulationSize == 0 {
			cfg.PopulationSize = DefaultPopulationSize
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		normalized[i] = cfg
	}

	for _, cfg := range normalized {
		if err := r.Put(cfg); err != nil {
			return err
		}
	}
	return nil
}
