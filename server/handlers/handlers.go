// Package handlers provides the HTTP handlers for the server API.
//
// Each handler implements http.Handler and reaches its dependencies
// through small interfaces, avoiding circular imports.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/repovault/repovault/orchestrator"
	"github.com/repovault/repovault/server/runner"
)

// RunStarter can start runs in the background.
type RunStarter interface {
	Run(op orchestrator.Operation) error
}

// StatusProvider provides the live run status.
type StatusProvider interface {
	Status() runner.RunStatus
}

// NextRunProvider reports the next scheduled run, nil when unscheduled.
type NextRunProvider interface {
	NextRun() *time.Time
}

// HistoryProvider provides access to completed runs.
type HistoryProvider interface {
	History() []runner.RunSummary
	Record(id string) (runner.RunRecord, bool)
}

// ResultsProvider provides the per-entity results of the last run.
type ResultsProvider interface {
	Results() []orchestrator.ExecutionResult
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}
