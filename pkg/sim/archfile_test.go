package sim

import (
	"os"
	"path/filepath"
	"testing"
)

func writeArchFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "archs.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write architecture file: %v", err)
	}
	return path
}

func TestLoadArchFile(t *testing.T) {
	path := writeArchFile(t, `
architectures:
  - name: QLC (Quad-Level Cell)
    mean_endurance: 1000
    std_dev: 150
  - name: TLC (Triple-Level Cell)
    mean_endurance: 2500
    std_dev: 250
    max_cycles: 4000
    population_size: 20000
    spacing: linear
`)

	registry := NewRegistry()
	if err := registry.Register(ArchConfig{
		Name:           "TLC (Triple-Level Cell)",
		MeanEndurance:  3000,
		StdDev:         300,
		PopulationSize: DefaultPopulationSize,
	}); err != nil {
		t.Fatalf("failed to register builtin: %v", err)
	}

	if err := LoadArchFile(registry, path); err != nil {
		t.Fatalf("LoadArchFile() returned error: %v", err)
	}

	// New architecture added with defaults filled in.
	qlc, err := registry.Get("qlc")
	if err != nil {
		t.Fatalf("qlc not loaded: %v", err)
	}
	if qlc.MaxCycles != 1600 {
		t.Errorf("qlc MaxCycles = %d, want 1600 (mean + 4 sigma)", qlc.MaxCycles)
	}
	if qlc.PopulationSize != DefaultPopulationSize {
		t.Errorf("qlc PopulationSize = %d, want default %d", qlc.PopulationSize, DefaultPopulationSize)
	}
	if qlc.Spacing != SpacingLog {
		t.Errorf("qlc Spacing = %q, want log default", qlc.Spacing)
	}

	// Existing entry replaced by the file.
	tlc, err := registry.Get("tlc")
	if err != nil {
		t.Fatalf("tlc missing after merge: %v", err)
	}
	if tlc.MeanEndurance != 2500 || tlc.MaxCycles != 4000 || tlc.Spacing != SpacingLinear {
		t.Errorf("tlc not replaced by file entry: %+v", tlc)
	}
}

func TestLoadArchFileErrors(t *testing.T) {
	registry := NewRegistry()

	if err := LoadArchFile(registry, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	path := writeArchFile(t, "architectures: [not a mapping")
	if err := LoadArchFile(registry, path); err == nil {
		t.Error("Expected error for malformed YAML")
	}

	path = writeArchFile(t, "architectures: []")
	if err := LoadArchFile(registry, path); err == nil {
		t.Error("Expected error for empty table")
	}

	path = writeArchFile(t, `
architectures:
  - name: BAD
    mean_endurance: -5
    std_dev: 10
`)
	if err := LoadArchFile(registry, path); err == nil {
		t.Error("Expected error for invalid architecture")
	}
	if len(registry.List()) != 0 {
		t.Error("Invalid file must not partially apply")
	}
}
