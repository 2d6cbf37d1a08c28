package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

// NewRouter wires the generation handlers into a chi router with the
// standard middleware stack. allowedOrigins feeds the CORS policy for the
// browser front end; an empty list keeps the API same-origin.
func NewRouter(h *GenerationHandler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}).Handler)
	}

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/words/builtin", h.BuiltinWords)
		r.Post("/generate", h.Generate)
		r.Get("/progress", h.Progress)
		r.Get("/report", h.Report)
		r.Post("/export", h.Export)
		r.Post("/cancel", h.Cancel)
	})

	return r
}
