package handlers

import "net/http"

// HistoryHandler serves summaries of completed runs.
type HistoryHandler struct {
	provider HistoryProvider
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(provider HistoryProvider) *HistoryHandler {
	return &HistoryHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.provider.History())
}

// HistoryRecordHandler serves the full record of one run, including the
// per-entity results and captured logs.
type HistoryRecordHandler struct {
	provider HistoryProvider
}

// NewHistoryRecordHandler creates a new HistoryRecordHandler.
func NewHistoryRecordHandler(provider HistoryProvider) *HistoryRecordHandler {
	return &HistoryRecordHandler{provider: provider}
}

// ServeHTTP implements http.Handler.
func (h *HistoryRecordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing run id"})
		return
	}

	record, ok := h.provider.Record(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "no run with id " + id})
		return
	}

	writeJSON(w, http.StatusOK, record)
}
