package middleware

import (
	"net/http"

	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/transport"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

// RequireAuthenticated rejects anonymous callers before the handler runs.
func RequireAuthenticated(base *transport.BaseHandler, session func() auth.Session) func(http.Handler) http.Handler {
	return guard(base, session, auth.RequireAuthenticated)
}

// RequireAdmin rejects callers that are not signed in as an admin. The
// services check again, so this only saves a round trip through them.
func RequireAdmin(base *transport.BaseHandler, session func() auth.Session) func(http.Handler) http.Handler {
	return guard(base, session, auth.RequireAdmin)
}

func guard(base *transport.BaseHandler, session func() auth.Session, check func(auth.Session) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := session()
			if err := check(s); err != nil {
				logger.From(r.Context()).Warn("access denied",
					"path", r.URL.Path,
					"email", s.Email(),
					"role", s.Role())
				base.WriteAppError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
