package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/user/perf-insights/internal/delivery/http/handler"
	"github.com/user/perf-insights/internal/delivery/http/middleware"
)

func New(h *handler.Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)

		r.Post("/analyze", h.HandleAnalyze)
		r.Post("/analyze/batch", h.HandleAnalyzeBatch)

		r.Post("/collect", h.HandleSubmitCollection)
		r.Get("/status", h.HandleGetCollectionStatus)

		r.Get("/reports", h.HandleListReports)
		r.Get("/reports/{id}", h.HandleGetReport)

		r.Route("/sessions/{key}", func(r chi.Router) {
			r.Get("/snapshot", h.HandleGetSnapshot)
			r.Delete("/snapshot", h.HandleClearSnapshot)
			r.Get("/export", h.HandleExport)
		})

		r.Get("/settings", h.HandleGetSettings)
		r.Put("/settings", h.HandleUpdateSettings)
		r.Delete("/settings", h.HandleResetSettings)
	})

	return r
}
