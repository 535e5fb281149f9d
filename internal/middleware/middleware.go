package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cybershield-it/backend/internal/auth"
	"github.com/cybershield-it/backend/internal/utils"
	"github.com/cybershield-it/backend/internal/web"
)

// SessionFetcher resolves a session token to the identity it proves.
type SessionFetcher interface {
	FindSessionUser(ctx context.Context, token string) (utils.SessionUser, error)
}

// wantsHTML distinguishes browser navigation from API calls so rejections can
// redirect instead of returning JSON.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// denyUnauthenticated rejects without revealing anything about the session:
// browsers get a generic redirect to the login page, API callers a generic 401.
func denyUnauthenticated(w http.ResponseWriter, r *http.Request) {
	if wantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	web.Fail(w, http.StatusUnauthorized, "Not authenticated")
}

// SessionMiddleware requires a live session and stores the resolved identity
// in the request context.
func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil {
				denyUnauthenticated(w, r)
				return
			}

			su, err := fetcher.FindSessionUser(r.Context(), cookie.Value)
			if err != nil {
				denyUnauthenticated(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, su.UserID)
			ctx = context.WithValue(ctx, utils.ContextRoleKey, su.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware runs after SessionMiddleware and requires the admin role.
// This is the authoritative gate; any client-side check is advisory only.
func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := utils.GetRoleFromContext(r.Context())
		if !ok {
			denyUnauthenticated(w, r)
			return
		}
		if role != auth.RoleAdmin {
			if wantsHTML(r) {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			web.Fail(w, http.StatusForbidden, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware echoes the origin back only when it is on the allow-list.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods",
					"GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers",
					"Content-Type, Authorization")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
