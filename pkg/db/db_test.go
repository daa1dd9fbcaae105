package db

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(filepath.Join(t.TempDir(), "nandsim.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func finishRun(t *testing.T, database *DB, run *Run) {
	t.Helper()
	now := time.Now()
	run.EndTime = &now
	run.Success = true
	if err := database.UpdateRun(run); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}
}

func TestRunRoundTrip(t *testing.T) {
	database := openTestDB(t)

	params := JSONData{
		"mean_endurance":  3000.0,
		"std_dev":         300.0,
		"population_size": 50000.0,
	}

	run, err := database.CreateRun("TLC (Triple-Level Cell)", params, 42)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("CreateRun() did not assign an ID")
	}

	finishRun(t, database, run)

	got, err := database.GetRun(run.ID)
	if err != nil {
		t.Fatalf("Failed to get run: %v", err)
	}
	if got.Architecture != "TLC (Triple-Level Cell)" {
		t.Errorf("Architecture = %q", got.Architecture)
	}
	if got.Seed != 42 {
		t.Errorf("Seed = %d, want 42", got.Seed)
	}
	if got.Params["mean_endurance"] != 3000.0 {
		t.Errorf("Params round trip failed: %v", got.Params)
	}
	if got.GetStatus() != RunStatusComplete {
		t.Errorf("GetStatus() = %s, want %s", got.GetStatus(), RunStatusComplete)
	}

	if _, err := database.GetRun(9999); err == nil {
		t.Error("Expected error for unknown run ID")
	}
}

func TestGetRunInProgress(t *testing.T) {
	database := openTestDB(t)

	// A run that never reached UpdateRun leaves its error column NULL;
	// reads must still work for the whole table.
	run, err := database.CreateRun("SLC (Single-Level Cell)", nil, 3)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}

	got, err := database.GetRun(run.ID)
	if err != nil {
		t.Fatalf("GetRun() failed for in-progress run: %v", err)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
	if got.GetStatus() != RunStatusRunning {
		t.Errorf("GetStatus() = %s, want %s", got.GetStatus(), RunStatusRunning)
	}

	runs, err := database.ListRuns(RunFilter{})
	if err != nil {
		t.Fatalf("ListRuns() failed with an in-progress run present: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("ListRuns() returned %d runs, want 1", len(runs))
	}

	// A successful run whose error was never written is still readable
	// through LatestRun.
	if _, err := database.Conn().Exec(
		`UPDATE runs SET end_time = ?, success = 1 WHERE id = ?`,
		time.Now(), run.ID,
	); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}
	latest, err := database.LatestRun("SLC (Single-Level Cell)")
	if err != nil {
		t.Fatalf("LatestRun() failed for run with NULL error: %v", err)
	}
	if latest.ID != run.ID || latest.Error != "" {
		t.Errorf("LatestRun() = run %d error %q", latest.ID, latest.Error)
	}
}

func TestCurveRoundTrip(t *testing.T) {
	database := openTestDB(t)

	run, err := database.CreateRun("MLC (Multi-Level Cell)", nil, 1)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}

	curve := []CurvePoint{
		{Cycle: 1, BER: 0},
		{Cycle: 100, BER: 0.0002},
		{Cycle: 10000, BER: 0.5},
		{Cycle: 14000, BER: 1.0},
	}
	if err := database.SaveCurve(run.ID, curve); err != nil {
		t.Fatalf("Failed to save curve: %v", err)
	}

	got, err := database.GetCurve(run.ID)
	if err != nil {
		t.Fatalf("Failed to get curve: %v", err)
	}
	if len(got) != len(curve) {
		t.Fatalf("GetCurve() returned %d points, want %d", len(got), len(curve))
	}
	for i, pt := range got {
		if pt.Cycle != curve[i].Cycle || pt.BER != curve[i].BER {
			t.Errorf("point %d = (%d, %g), want (%d, %g)", i, pt.Cycle, pt.BER, curve[i].Cycle, curve[i].BER)
		}
		if pt.RunID != run.ID {
			t.Errorf("point %d RunID = %d, want %d", i, pt.RunID, run.ID)
		}
	}
}

func TestListRunsFilters(t *testing.T) {
	database := openTestDB(t)

	for _, arch := range []string{"SLC", "SLC", "TLC"} {
		run, err := database.CreateRun(arch, nil, 1)
		if err != nil {
			t.Fatalf("Failed to create run: %v", err)
		}
		finishRun(t, database, run)
	}
	// One failed run.
	run, err := database.CreateRun("TLC", nil, 1)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	now := time.Now()
	run.EndTime = &now
	run.Success = false
	run.Error = "invalid config: std_dev: must be >= 0, got -1"
	if err := database.UpdateRun(run); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}

	runs, err := database.ListRuns(RunFilter{})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 4 {
		t.Errorf("ListRuns() returned %d runs, want 4", len(runs))
	}

	runs, err = database.ListRuns(RunFilter{Architecture: "SLC"})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("ListRuns(SLC) returned %d runs, want 2", len(runs))
	}

	success := false
	runs, err = database.ListRuns(RunFilter{Success: &success})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Error == "" {
		t.Errorf("ListRuns(failed) returned %d runs", len(runs))
	}

	runs, err = database.ListRuns(RunFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Failed to list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("ListRuns(limit 2) returned %d runs", len(runs))
	}
}

func TestLatestRun(t *testing.T) {
	database := openTestDB(t)

	first, err := database.CreateRun("SLC", nil, 1)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	finishRun(t, database, first)

	// Push the second run later than the first.
	second, err := database.CreateRun("SLC", nil, 2)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	second.StartTime = first.StartTime.Add(time.Second)
	end := second.StartTime.Add(time.Second)
	second.EndTime = &end
	second.Success = true
	if _, err := database.Conn().Exec(
		`UPDATE runs SET start_time = ?, end_time = ?, success = 1 WHERE id = ?`,
		second.StartTime, second.EndTime, second.ID,
	); err != nil {
		t.Fatalf("Failed to update run: %v", err)
	}

	got, err := database.LatestRun("SLC")
	if err != nil {
		t.Fatalf("Failed to get latest run: %v", err)
	}
	if got.ID != second.ID {
		t.Errorf("LatestRun() = run %d, want %d", got.ID, second.ID)
	}

	if _, err := database.LatestRun("QLC"); err == nil {
		t.Error("Expected error for architecture with no runs")
	}
}

func TestExportCSV(t *testing.T) {
	database := openTestDB(t)

	run, err := database.CreateRun("TLC", nil, 9)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	finishRun(t, database, run)
	if err := database.SaveCurve(run.ID, []CurvePoint{
		{Cycle: 1, BER: 0},
		{Cycle: 4200, BER: 1},
	}); err != nil {
		t.Fatalf("Failed to save curve: %v", err)
	}

	var buf bytes.Buffer
	if err := database.ExportCSV(&buf, run.ID); err != nil {
		t.Fatalf("ExportCSV() returned error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse exported CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Exported %d CSV records, want header + 2 rows", len(records))
	}
	if records[0][4] != "Cycle" || records[0][5] != "BER" {
		t.Errorf("Unexpected headers: %v", records[0])
	}
	if records[1][4] != "1" || records[1][5] != "0.000000" {
		t.Errorf("Unexpected first row: %v", records[1])
	}
	if records[2][4] != "4200" || records[2][5] != "1.000000" {
		t.Errorf("Unexpected last row: %v", records[2])
	}
}

func TestExportJSON(t *testing.T) {
	database := openTestDB(t)

	run, err := database.CreateRun("MLC", JSONData{"std_dev": 1000.0}, 5)
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	finishRun(t, database, run)
	if err := database.SaveCurve(run.ID, []CurvePoint{{Cycle: 10, BER: 0.1}}); err != nil {
		t.Fatalf("Failed to save curve: %v", err)
	}

	var buf bytes.Buffer
	if err := database.ExportJSON(&buf, run.ID); err != nil {
		t.Fatalf("ExportJSON() returned error: %v", err)
	}

	var export struct {
		Run   *Run          `json:"run"`
		Curve []*CurvePoint `json:"curve"`
	}
	if err := json.Unmarshal(buf.Bytes(), &export); err != nil {
		t.Fatalf("Failed to parse exported JSON: %v", err)
	}
	if export.Run == nil || export.Run.ID != run.ID {
		t.Errorf("Exported run mismatch: %+v", export.Run)
	}
	if len(export.Curve) != 1 || export.Curve[0].Cycle != 10 {
		t.Errorf("Exported curve mismatch: %+v", export.Curve)
	}
}
