package model

import "time"

// RunStatus tracks the lifecycle of an analysis run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one recorded analysis invocation.
type Run struct {
	ID        string          `json:"id"`
	Ticker    string          `json:"ticker"`
	Status    RunStatus       `json:"status"`
	Result    *AnalysisResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AnalysisResult is the full outcome of one pipeline invocation.
type AnalysisResult struct {
	Ticker       string       `json:"ticker"`
	SecCode      string       `json:"sec_code"`
	DocID        string       `json:"doc_id"`
	DocDesc      string       `json:"doc_desc,omitempty"`
	CurrentDate  *time.Time   `json:"current_date,omitempty"`
	PreviousDate *time.Time   `json:"previous_date,omitempty"`
	Current      Snapshot     `json:"current"`
	Previous     Snapshot     `json:"previous"`
	Tables       MetricTables `json:"tables"`
	DaysScanned  int          `json:"days_scanned"`
}
