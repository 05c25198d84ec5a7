package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/transport"
	"github.com/frahmantamala/navguard/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// ExtractTokenFromHeader returns the bearer token of the request, if any.
func (h *Handler) ExtractTokenFromHeader(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthMiddleware resolves the session id and scopes from the bearer token and
// stores them in the request context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteAppError(w, internal.ErrMissingToken)
			return
		}

		claims, err := h.Service.ValidateSessionToken(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				h.WriteAppError(w, internal.ErrTokenExpired)
				return
			}
			h.Logger.Warn("auth middleware: token validation failed", "error", err)
			h.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		ctx := internal.ContextWithSessionID(r.Context(), claims.SessionID)
		ctx = internal.ContextWithScopes(ctx, claims.Scopes)
		ctx = logger.With(ctx, "session_id", claims.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
