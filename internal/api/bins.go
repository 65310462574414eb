package api

import (
	"net/http"

	"github.com/wastewatch/wastewatch-core/internal/container"
	"github.com/wastewatch/wastewatch-core/internal/reading"
)

// binView is a container with its most recent reading, if any.
type binView struct {
	container.Container
	LatestReading *reading.Reading `json:"latest_reading,omitempty"`
}

// handleListBins returns all containers with their latest reading.
func (s *Server) handleListBins(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	containers, err := s.containers.List(ctx)
	if err != nil {
		writeInternalError(w, "failed to list bins")
		return
	}

	bins := make([]binView, 0, len(containers))
	for _, c := range containers {
		view := binView{Container: c}
		if s.readings != nil {
			recent, err := s.readings.ListRecentByContainer(ctx, c.ID, 1)
			if err != nil {
				writeInternalError(w, "failed to load readings")
				return
			}
			if len(recent) > 0 {
				view.LatestReading = &recent[0]
			}
		}
		bins = append(bins, view)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"bins":  bins,
		"count": len(bins),
	})
}
