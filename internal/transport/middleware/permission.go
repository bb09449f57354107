package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hrplatform/employee-directory/internal/auth"
	"github.com/hrplatform/employee-directory/internal/transport"
)

// RequireAdmin creates a middleware that only lets admin identities through.
// It must run after the auth middleware has put the identity in the context.
func RequireAdmin() func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := auth.IdentityFromContext(r.Context())
			if !ok || identity == nil {
				base.WriteError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !identity.IsAdmin {
				slog.Warn("access denied: admin privilege required",
					"username", identity.Username,
					"path", r.URL.Path)
				base.WriteError(w, http.StatusForbidden, "admin privilege required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
