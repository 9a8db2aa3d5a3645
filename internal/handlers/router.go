package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter mounts every route with the standard middleware stack
func NewRouter(h *Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Link"},
		MaxAge:         300,
	}))

	r.Get("/health", h.HealthCheck)
	r.Get("/metrics", h.GetMetrics)

	// The websocket route is outside the timeout group; the connection is long-lived
	r.Get("/ws", h.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(120 * time.Second))

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/sports", h.GetSports)
			r.Get("/picks", h.GetPicks)

			r.Post("/strategy", h.BuildStrategy)
			r.Get("/strategy", h.GetStrategy)

			r.Get("/strategies", h.ListStrategies)
			r.Get("/strategies/{id}", h.GetStrategyByID)
		})
	})

	return r
}

// RequestLogger logs one structured line per request
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.WithFields(logrus.Fields{
				"request_id": chimiddleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     ww.Status(),
				"bytes":      ww.BytesWritten(),
				"duration":   time.Since(start).String(),
			}).Info("request")
		})
	}
}
