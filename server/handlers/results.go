package handlers

import (
	"net/http"

	"github.com/repovault/repovault/orchestrator"
)

// ResultsHandler serves the per-entity results of the last completed run.
type ResultsHandler struct {
	provider ResultsProvider
}

// NewResultsHandler creates a new ResultsHandler.
func NewResultsHandler(provider ResultsProvider) *ResultsHandler {
	return &ResultsHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	results := h.provider.Results()
	if results == nil {
		results = []orchestrator.ExecutionResult{}
	}
	writeJSON(w, http.StatusOK, results)
}
