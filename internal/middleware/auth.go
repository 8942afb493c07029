package middleware

import (
	"net/http"

	"github.com/villageveggies/backend/internal/apperr"
	"github.com/villageveggies/backend/internal/auth"
	"github.com/villageveggies/backend/internal/respond"
)

// RequireAuth is middleware that validates the session cookie, re-issues it
// so the browser expiry slides with the server one, and attaches the session
// to the request context.
func RequireAuth(sessions auth.SessionStore, cookies auth.Cookies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.SessionCookie)
			if err != nil || cookie.Value == "" {
				respond.Error(w, r, apperr.Unauthenticated("not authenticated"))
				return
			}

			sess, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				respond.Error(w, r, apperr.Internal("session lookup failed", err))
				return
			}
			if sess == nil {
				cookies.Clear(w)
				respond.Error(w, r, apperr.Unauthenticated("session expired"))
				return
			}

			cookies.Set(w, cookie.Value)
			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}
