package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/hansu/dayledger/internal/adapter/http/handler"
	"github.com/hansu/dayledger/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	JournalHandler    *handler.JournalHandler
	AttendanceHandler *handler.AttendanceHandler
	PolicyHandler     *handler.PolicyHandler
	HealthHandler     *handler.HealthHandler
	Logger            zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Journal
		r.Route("/journal", func(r chi.Router) {
			r.Get("/", cfg.JournalHandler.Get)
			r.Post("/entries", cfg.JournalHandler.CreateEntry)
			r.Put("/entries/{id}", cfg.JournalHandler.SaveEntry)
			r.Delete("/entries/{id}", cfg.JournalHandler.DeleteEntry)
			r.Post("/reorder", cfg.JournalHandler.Reorder)
			r.Post("/slots/swap", cfg.JournalHandler.SwapSlots)
		})

		// Attendance
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/toggle", cfg.AttendanceHandler.Toggle)
			r.Post("/stats", cfg.AttendanceHandler.BatchStats)
		})

		// Policies
		r.Route("/policies", func(r chi.Router) {
			r.Get("/", cfg.PolicyHandler.Get)
			r.Put("/", cfg.PolicyHandler.Put)
		})
	})

	return r
}
