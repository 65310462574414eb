package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// componentCheckTimeout bounds each dependency check on /health.
const componentCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Device endpoints
		r.Route("/devices", func(r chi.Router) {
			// Lookup is called by sensors at boot, before they hold any
			// credentials, so it is deliberately unauthenticated.
			r.Get("/lookup", s.handleLookupDevice)

			// Provisioning mutations
			r.Group(func(r chi.Router) {
				r.Use(s.authMiddleware)

				r.Post("/register", s.handleRegisterDevices)
				r.Put("/{id}", s.handleUpdateDevice)
				r.Delete("/{id}", s.handleDeregisterDevice)
			})
		})

		// Fleet views (read-only)
		r.Get("/bins", s.handleListBins)
		r.Get("/alerts", s.handleListAlerts)
	})

	return r
}

// handleHealth returns the server health status, including the state of
// optional dependencies (MQTT, InfluxDB) when they are wired in.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":  "ok",
		"version": s.version,
	}

	if len(s.components) > 0 {
		checks := make(map[string]string, len(s.components))
		for name, component := range s.components {
			ctx, cancel := context.WithTimeout(r.Context(), componentCheckTimeout)
			if err := component.HealthCheck(ctx); err != nil {
				checks[name] = err.Error()
			} else {
				checks[name] = "ok"
			}
			cancel()
		}
		resp["components"] = checks
	}

	writeJSON(w, http.StatusOK, resp)
}
