package db

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// curveCSVHeaders is the column layout shared by the CSV exporters.
var curveCSVHeaders = []string{
	"Run ID", "Architecture", "Seed", "Start Time", "Cycle", "BER",
}

// ExportCSV exports a run's BER curve to CSV format
func (db *DB) ExportCSV(w io.Writer, runID int64) error {
	// Get run information
	run, err := db.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	// Get curve points
	points, err := db.GetCurve(runID)
	if err != nil {
		return fmt.Errorf("failed to get curve: %w", err)
	}

	// Create CSV writer
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(curveCSVHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	if err := writeCurveRows(csvWriter, run, points); err != nil {
		return err
	}

	return nil
}

// ExportJSON exports a run and its BER curve to JSON format
func (db *DB) ExportJSON(w io.Writer, runID int64) error {
	// Get run information
	run, err := db.GetRun(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	// Get curve points
	points, err := db.GetCurve(runID)
	if err != nil {
		return fmt.Errorf("failed to get curve: %w", err)
	}

	// Create export structure
	export := struct {
		Run   *Run          `json:"run"`
		Curve []*CurvePoint `json:"curve"`
	}{
		Run:   run,
		Curve: points,
	}

	// Encode to JSON
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ExportAllCSV exports every run's BER curve to CSV format
func (db *DB) ExportAllCSV(w io.Writer) error {
	// Get all runs
	runs, err := db.ListRuns(RunFilter{})
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	// Create CSV writer
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(curveCSVHeaders); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for _, run := range runs {
		points, err := db.GetCurve(run.ID)
		if err != nil {
			return fmt.Errorf("failed to get curve for run %d: %w", run.ID, err)
		}

		if err := writeCurveRows(csvWriter, run, points); err != nil {
			return err
		}
	}

	return nil
}

// writeCurveRows emits one CSV row per curve point.
func writeCurveRows(csvWriter *csv.Writer, run *Run, points []*CurvePoint) error {
	for _, pt := range points {
		row := []string{
			strconv.FormatInt(run.ID, 10),
			run.Architecture,
			strconv.FormatInt(run.Seed, 10),
			run.StartTime.Format("2006-01-02 15:04:05"),
			strconv.Itoa(pt.Cycle),
			fmt.Sprintf("%.6f", pt.BER),
		}

		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
