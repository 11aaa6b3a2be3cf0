package handlers

import (
	"net/http"
	"time"

	"github.com/repovault/repovault/server/runner"
)

// NextRunResponse describes the next scheduled run, if any.
type NextRunResponse struct {
	Scheduled bool       `json:"scheduled"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

// StatusResponse is the consolidated response for GET /api/status.
type StatusResponse struct {
	Run     runner.RunStatus `json:"run"`
	NextRun NextRunResponse  `json:"next_run"`
}

// StatusProviders aggregates what the status endpoint needs.
type StatusProviders interface {
	StatusProvider
	NextRunProvider
}

// StatusHandler serves the consolidated status endpoint.
type StatusHandler struct {
	provider StatusProviders
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(provider StatusProviders) *StatusHandler {
	return &StatusHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	next := h.provider.NextRun()
	writeJSON(w, http.StatusOK, StatusResponse{
		Run: h.provider.Status(),
		NextRun: NextRunResponse{
			Scheduled: next != nil,
			NextRun:   next,
		},
	})
}
