// Package server assembles the HTTP surface.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stashkeep/stash-api/internal/auth"
	"github.com/stashkeep/stash-api/internal/handlers"
	"github.com/stashkeep/stash-api/internal/store"
)

// Deps carries the constructed collaborators the router wires together.
type Deps struct {
	AuthMiddleware *auth.Middleware
	Store          store.Store
	Logger         *zap.Logger
	ServeMetrics   bool
}

// New builds the router. Writes require authentication; reads work
// anonymously but pick up a principal when one is presented.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Use(requestLogger(d.Logger))

	r.Get("/health", handlers.Health)
	if d.ServeMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	items := handlers.NewItemsHandler(d.Store, d.Logger)

	r.Route("/items", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(d.AuthMiddleware.OptionalAuth)
			r.Get("/", items.List)
			r.Get("/{id}", items.Get)
		})
		r.Group(func(r chi.Router) {
			r.Use(d.AuthMiddleware.RequireAuth)
			r.Post("/", items.Create)
			r.Delete("/{id}", items.Delete)
		})
	})

	return r
}
