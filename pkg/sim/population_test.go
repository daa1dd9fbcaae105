package sim

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func testConfig(mean, stdDev float64, size int) ArchConfig {
	return ArchConfig{
		Name:           "test",
		MeanEndurance:  mean,
		StdDev:         stdDev,
		MaxCycles:      int(mean + 4*stdDev),
		PopulationSize: size,
	}
}

func TestGenerateSizeAndBounds(t *testing.T) {
	cfg := testConfig(3000, 300, 25000)

	pop, err := Generate(cfg, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Generate() returned error: %v", err)
	}

	if len(pop) != cfg.PopulationSize {
		t.Fatalf("Generate() returned %d cells, want %d", len(pop), cfg.PopulationSize)
	}
	for i, v := range pop {
		if v < 0 {
			t.Fatalf("cell %d has negative endurance %g", i, v)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("cell %d has non-finite endurance %g", i, v)
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := testConfig(10000, 1000, 10000)

	a, err := GenerateSeeded(cfg, 42)
	if err != nil {
		t.Fatalf("GenerateSeeded() returned error: %v", err)
	}
	b, err := GenerateSeeded(cfg, 42)
	if err != nil {
		t.Fatalf("GenerateSeeded() returned error: %v", err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("populations diverge at cell %d: %g vs %g", i, a[i], b[i])
		}
	}

	c, err := GenerateSeeded(cfg, 43)
	if err != nil {
		t.Fatalf("GenerateSeeded() returned error: %v", err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical populations")
	}
}

func TestGenerateClampsNegativeDraws(t *testing.T) {
	// Mean well below the spread: a large share of draws land negative and
	// must be clamped to zero, not discarded.
	cfg := testConfig(10, 1000, 20000)

	pop, err := GenerateSeeded(cfg, 7)
	if err != nil {
		t.Fatalf("GenerateSeeded() returned error: %v", err)
	}

	if len(pop) != cfg.PopulationSize {
		t.Fatalf("clamping changed population size: got %d, want %d", len(pop), cfg.PopulationSize)
	}

	zeros := 0
	for _, v := range pop {
		if v < 0 {
			t.Fatalf("found negative endurance %g after clamping", v)
		}
		if v == 0 {
			zeros++
		}
	}
	// Roughly half the distribution sits below zero here.
	if zeros < cfg.PopulationSize/4 {
		t.Errorf("expected a large clamped-to-zero share, got %d of %d", zeros, cfg.PopulationSize)
	}
}

func TestGenerateNilRand(t *testing.T) {
	cfg := testConfig(3000, 300, 1000)

	pop, err := Generate(cfg, nil)
	if err != nil {
		t.Fatalf("Generate(nil) returned error: %v", err)
	}
	if len(pop) != cfg.PopulationSize {
		t.Fatalf("Generate(nil) returned %d cells, want %d", len(pop), cfg.PopulationSize)
	}
}

func TestGenerateInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   ArchConfig
		field string
	}{
		{
			name:  "non-positive population",
			cfg:   testConfig(3000, 300, 0),
			field: "population_size",
		},
		{
			name:  "negative std dev",
			cfg:   testConfig(3000, -1, 1000),
			field: "std_dev",
		},
		{
			name:  "non-positive mean",
			cfg:   testConfig(-100, 300, 1000),
			field: "mean_endurance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Generate(tt.cfg, rand.New(rand.NewSource(1)))
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("Generate() = %v, want *ConfigError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("ConfigError.Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestPopulationMax(t *testing.T) {
	if got := (Population{}).Max(); got != 0 {
		t.Errorf("empty Max() = %g, want 0", got)
	}
	if got := (Population{3, 7, 5}).Max(); got != 7 {
		t.Errorf("Max() = %g, want 7", got)
	}
}
