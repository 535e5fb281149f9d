package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cybershield-it/backend/internal/middleware"
)

// Routes exposes the catalog read-only to everyone and mutations to admins.
func (h *Handler) Routes(fetcher middleware.SessionFetcher) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(fetcher))
		r.Use(middleware.AdminMiddleware)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
