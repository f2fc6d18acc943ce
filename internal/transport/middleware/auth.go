package middleware

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

// SessionContext tags the request logger with the signed-in email.
func SessionContext(session func() auth.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session()
			ctx := logger.With(r.Context(), "email", s.Email(), "role", s.Role())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
