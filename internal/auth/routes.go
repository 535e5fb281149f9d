package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Get("/user", h.CurrentUser)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Post("/reset-password/{token}", h.ResetPassword)

	return r
}
