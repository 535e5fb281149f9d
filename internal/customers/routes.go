package customers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cybershield-it/backend/internal/middleware"
)

// Routes are admin-only: the console manages customers, customers never reach
// these endpoints themselves.
func (h *Handler) Routes(fetcher middleware.SessionFetcher) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.SessionMiddleware(fetcher))
	r.Use(middleware.AdminMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/services", h.AddService)
	r.Delete("/{id}/services/{assignmentID}", h.RemoveService)

	return r
}
