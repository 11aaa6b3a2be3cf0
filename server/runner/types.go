package runner

import (
	"time"

	"github.com/repovault/repovault/logging"
	"github.com/repovault/repovault/orchestrator"
)

// RunState represents the runner's execution state.
type RunState int

const (
	// RunStateIdle indicates no run is in progress.
	RunStateIdle RunState = iota
	// RunStateRunning indicates a run is in progress.
	RunStateRunning
)

// String returns the string representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler.
func (s RunState) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// RunSummary identifies one run and its outcome.
type RunSummary struct {
	// ID uniquely identifies the run, derived from its start time.
	ID string `json:"id"`

	// Operation is the run direction, save or restore.
	Operation orchestrator.Operation `json:"operation"`

	// StartedAt is when the run started. Nil if no run has occurred.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// EndedAt is when the run ended. Nil while the run is in progress.
	EndedAt *time.Time `json:"ended_at,omitempty"`

	// Success reports whether the run completed with no failed entities.
	Success bool `json:"success"`

	// Error holds the fatal error message when the run aborted before
	// producing a report. Empty otherwise.
	Error string `json:"error,omitempty"`
}

// CalculateID derives the run ID from the start time and operation.
func (s RunSummary) CalculateID() string {
	if s.StartedAt == nil {
		return ""
	}
	return s.StartedAt.UTC().Format("2006-01-02T15-04-05") + "-" + string(s.Operation)
}

// RunRecord is the full persisted form of a completed run: the summary,
// the per-entity results, and the captured per-entity logs.
type RunRecord struct {
	RunSummary
	Results []orchestrator.ExecutionResult     `json:"results,omitempty"`
	Logs    map[string][]logging.LogEntry      `json:"logs,omitempty"`
}

// RunStatus is the live view served by the status endpoint.
type RunStatus struct {
	State RunState `json:"state"`
	RunSummary
	Results []orchestrator.ExecutionResult `json:"results,omitempty"`
	Logs    map[string][]logging.LogEntry  `json:"logs,omitempty"`
}
