package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/repovault/repovault/orchestrator"
	"github.com/repovault/repovault/server/runner"
)

// RunRequest is the request body for POST /api/run. Operation defaults to
// "save" when the body is empty.
type RunRequest struct {
	Operation string `json:"operation"`
}

// RunHandler starts a run in the background.
type RunHandler struct {
	starter RunStarter
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(starter RunStarter) *RunHandler {
	return &RunHandler{starter: starter}
}

// ServeHTTP implements http.Handler.
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("invalid JSON: %v", err),
		})
		return
	}

	op := orchestrator.OperationSave
	switch req.Operation {
	case "", "save":
	case "restore":
		op = orchestrator.OperationRestore
	default:
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: fmt.Sprintf("unknown operation %q", req.Operation),
		})
		return
	}

	if err := h.starter.Run(op); err != nil {
		if errors.Is(err, runner.ErrRunInProgress) {
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
