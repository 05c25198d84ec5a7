package middleware

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/frahmantamala/navguard/internal"
)

// RequirePermissions lets a request through when its token carries any of
// the given scopes.
func RequirePermissions(scopes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := internal.SessionIDFromContext(r.Context())
			if sessionID == "" {
				writeAppError(w, internal.ErrMissingToken)
				return
			}

			granted := internal.ScopesFromContext(r.Context())
			for _, required := range scopes {
				if slices.Contains(granted, required) {
					next.ServeHTTP(w, r)
					return
				}
			}

			slog.WarnContext(r.Context(), "access denied: token lacks required scope",
				"session_id", sessionID,
				"required_scopes", scopes,
				"token_scopes", granted)
			writeAppError(w, internal.ErrInsufficientScope)
		})
	}
}
