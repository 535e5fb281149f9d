package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cybershield-it/backend/internal/web"
)

// SessionCookie is the transport-level credential carrier.
const SessionCookie = "session"

// Handler owns the HTTP surface of the auth service.
type Handler struct {
	Svc *Service

	// SecureCookies marks the session cookie Secure; on in production.
	SecureCookies bool

	// ExposeResetToken returns reset tokens in the forgot-password response
	// instead of delivering them out of band. Demo-only.
	ExposeResetToken bool
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	web.Fail(w, HTTPStatus(err), Message(err))
}

func (h *Handler) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Company  string `json:"company"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Public registration always produces customers; admins come from the
	// seeder or another admin.
	id, err := h.Svc.Register(r.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Company:  req.Company,
		Phone:    req.Phone,
		Role:     RoleCustomer,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.OK(w, web.Envelope{"id": id})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, result.ExpiresAt))
	web.OK(w, web.Envelope{
		"user":         result.User,
		"sessionToken": result.Token,
		"expiresAt":    result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout clears the cookie regardless of whether a session existed.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := h.Svc.Logout(r.Context(), cookie.Value); err != nil {
			h.writeError(w, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	web.OK(w, nil)
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		web.Fail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.Svc.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	web.OK(w, web.Envelope{"user": user})
}

const resetRequestedMessage = "If your email exists in our system, you will receive a password reset link shortly."

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if req.Email == "" {
		web.Fail(w, http.StatusBadRequest, "Email is required")
		return
	}

	issue, err := h.Svc.RequestReset(r.Context(), req.Email)
	if err != nil {
		// Storage failures still report success so the response can't be
		// used to probe for registered addresses.
		web.OK(w, web.Envelope{"message": resetRequestedMessage})
		return
	}

	payload := web.Envelope{"message": resetRequestedMessage}
	if issue != nil && h.ExposeResetToken {
		payload["resetToken"] = issue.Token
		payload["resetUrl"] = "/reset-password/" + issue.Token
	}
	web.OK(w, payload)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		web.Fail(w, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.Svc.ConsumeReset(r.Context(), token, req.Password); err != nil {
		h.writeError(w, err)
		return
	}
	web.OK(w, nil)
}
