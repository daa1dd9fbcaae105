package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Run represents one stored simulation execution.
type Run struct {
	ID           int64      `json:"id"`
	Architecture string     `json:"architecture"`
	Params       JSONData   `json:"params"`
	Seed         int64      `json:"seed"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Success      bool       `json:"success"`
	Error        string     `json:"error,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CurvePoint is one stored checkpoint of a run's BER curve.
type CurvePoint struct {
	ID    int64   `json:"id"`
	RunID int64   `json:"run_id"`
	Cycle int     `json:"cycle"`
	BER   float64 `json:"ber"`
}

// JSONData is a custom type for storing JSON in SQLite
type JSONData map[string]interface{}

// Value implements the driver.Valuer interface
func (j JSONData) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface
func (j *JSONData) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan type %T into JSONData", value)
	}

	return json.Unmarshal(data, j)
}

// RunStatus represents the status of a simulation run
type RunStatus string

const (
	RunStatusPending  RunStatus = "pending"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// GetStatus returns the status of a run
func (r *Run) GetStatus() RunStatus {
	if r.EndTime == nil {
		if r.StartTime.IsZero() {
			return RunStatusPending
		}
		return RunStatusRunning
	}

	if r.Success {
		return RunStatusComplete
	}
	return RunStatusFailed
}

// Duration returns the duration of the run
func (r *Run) Duration() time.Duration {
	if r.EndTime == nil {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// RunFilter represents filters for querying runs
type RunFilter struct {
	Architecture string
	StartTime    *time.Time
	EndTime      *time.Time
	Success      *bool
	Limit        int
	Offset       int
}

// ExportFormat represents the format for exporting data
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
)
