package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/learnforge/identity-service/internal/application"
)

// Handler is the HTTP adapter entrypoint for auth use-cases.
// Keeping only the application dependency here preserves clean adapter boundaries.
type Handler struct {
	service     *application.Service
	publicPaths []string
}

// NewHandler constructs an HTTP handler bound to the application service and
// the configured public-path allow-list.
func NewHandler(service *application.Service, publicPaths []string) *Handler {
	return &Handler{service: service, publicPaths: publicPaths}
}

// NewRouter registers routes and the middleware stack. The identity filter
// runs after request-id/recovery/logging and before every handler, so
// filter-before-handler ordering holds for the whole surface.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(handler.identityFilter)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/auth/v1", func(r chi.Router) {
		r.Post("/register", handler.register)
		r.Post("/login", handler.login)
		r.Post("/refresh", handler.refresh)
		r.Post("/validate", handler.validate)
	})

	r.Get("/users/me", handler.me)

	return r
}
