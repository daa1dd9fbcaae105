package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cellwear/nandsim/pkg/db"
)

func seedTestRun(t *testing.T, database *db.DB, arch string, curve []db.CurvePoint) *db.Run {
	t.Helper()

	run, err := database.CreateRun(arch, db.JSONData{"std_dev": 300.0}, 42)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	now := time.Now()
	run.EndTime = &now
	run.Success = true
	if err := database.UpdateRun(run); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}
	if len(curve) > 0 {
		if err := database.SaveCurve(run.ID, curve); err != nil {
			t.Fatalf("Failed to save curve: %v", err)
		}
	}
	return run
}

func TestGenerateHTML(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "nandsim.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	slc := seedTestRun(t, database, "SLC (Single-Level Cell)", []db.CurvePoint{
		{Cycle: 1, BER: 0}, {Cycle: 100000, BER: 0.5}, {Cycle: 140000, BER: 1},
	})
	tlc := seedTestRun(t, database, "TLC (Triple-Level Cell)", []db.CurvePoint{
		{Cycle: 1, BER: 0}, {Cycle: 3000, BER: 0.5}, {Cycle: 4200, BER: 1},
	})

	html, err := NewGenerator(database).GenerateHTML([]int64{slc.ID, tlc.ID})
	if err != nil {
		t.Fatalf("GenerateHTML() returned error: %v", err)
	}

	for _, want := range []string{
		"NAND Flash Endurance Report",
		"SLC (Single-Level Cell)",
		"TLC (Triple-Level Cell)",
		"<svg",
		"COMPLETE",
		"std_dev",
		"Endurance Distributions",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}

	// One per-run distribution histogram per entry, plus the comparison chart.
	if got := strings.Count(html, "Endurance Threshold Distribution"); got != 2 {
		t.Errorf("report has %d distribution histograms, want 2", got)
	}

	// Final BER column reflects the last stored checkpoint.
	if !strings.Contains(html, "1.000000") {
		t.Error("report missing final BER value")
	}
}

func TestGenerateSVG(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "nandsim.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	run := seedTestRun(t, database, "MLC (Multi-Level Cell)", []db.CurvePoint{
		{Cycle: 1, BER: 0}, {Cycle: 14000, BER: 1},
	})

	svg, err := NewGenerator(database).GenerateSVG([]int64{run.ID})
	if err != nil {
		t.Fatalf("GenerateSVG() returned error: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg") {
		t.Error("GenerateSVG() did not return an SVG document")
	}
	if !strings.Contains(svg, "MLC (Multi-Level Cell)") {
		t.Error("GenerateSVG() missing series legend")
	}
}

func TestGenerateHTMLErrors(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "nandsim.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	gen := NewGenerator(database)

	if _, err := gen.GenerateHTML(nil); err == nil {
		t.Error("Expected error for empty run list")
	}

	if _, err := gen.GenerateHTML([]int64{404}); err == nil {
		t.Error("Expected error for unknown run")
	}

	bare := seedTestRun(t, database, "SLC", nil)
	if _, err := gen.GenerateHTML([]int64{bare.ID}); err == nil {
		t.Error("Expected error for run without a stored curve")
	}
}
