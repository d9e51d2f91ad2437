// Package server implements the corpus HTTP API consumed by browsers.
//
// Endpoints:
//
//	GET /search?term=          search across all modules
//	GET /module/{name}         full module: identity, imports, node forest
//	GET /module/{name}?oid=    single node detail
//	GET /modules               module names plus corpus generation
//	GET /health/live,/ready    liveness probes
package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the chi router with all corpus routes mounted.
func NewRouter(h *Handler, logger *log.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", handleHealth)
	r.Get("/health/ready", handleHealth)

	r.Get("/modules", h.ListModules)
	r.Get("/module/{name}", h.GetModule)
	r.Get("/search", h.Search)

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requestLogger logs one debug line per request through the application
// logger.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
