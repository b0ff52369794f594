/*
server.go - HTTP router and middleware configuration

ROUTER: chi
  Lightweight, context-based, RESTful patterns.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique ID per request for tracing
  4. CORS:       the dashboard frontend runs on a separate dev origin

ROUTES:
  POST /api/imports/{source}       JSON rows import
  POST /api/imports/{source}/csv   raw CSV import
  GET  /api/imports/log            audit log, newest first
  POST /api/checkin                manual daily check-in
  GET  /api/history                per-day XP for charts
  GET  /api/totals                 cumulative stat totals
  POST /api/admin/reset            wipe all ledger data
  GET  /api/health

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/imports", func(r chi.Router) {
			r.Get("/log", h.ImportLog)
			r.Post("/{source}", h.Import)
			r.Post("/{source}/csv", h.ImportCSV)
		})

		r.Post("/checkin", h.Checkin)
		r.Get("/history", h.History)
		r.Get("/totals", h.Totals)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/reset", h.Reset)
		})

		r.Get("/health", h.Health)
	})

	return r
}
