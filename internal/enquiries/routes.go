package enquiries

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cybershield-it/backend/internal/middleware"
)

// Routes: creation is the public contact form, everything else is the admin
// console.
func (h *Handler) Routes(fetcher middleware.SessionFetcher) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(fetcher))
		r.Use(middleware.AdminMiddleware)
		r.Get("/", h.List)
		r.Get("/export", h.Export)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.UpdateStatus)
		r.Delete("/{id}", h.Delete)
	})

	return r
}
