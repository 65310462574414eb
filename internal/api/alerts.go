package api

import (
	"net/http"

	"github.com/wastewatch/wastewatch-core/internal/alert"
)

// handleListAlerts returns alerts filtered by status.
//
// Query parameters:
//   - status: "open" (default) or "resolved"
func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	status := alert.StatusOpen
	switch r.URL.Query().Get("status") {
	case "", string(alert.StatusOpen):
	case string(alert.StatusResolved):
		status = alert.StatusResolved
	default:
		writeBadRequest(w, "status must be open or resolved")
		return
	}

	alerts, err := s.alerts.ListByStatus(r.Context(), status)
	if err != nil {
		writeInternalError(w, "failed to list alerts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
