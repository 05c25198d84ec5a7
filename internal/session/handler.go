package session

import (
	"errors"
	"io"
	"net/http"

	"github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/transport"
)

const maxGrantSetBytes = 1 << 20

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetGrants(w http.ResponseWriter, r *http.Request) {
	sessionID := internal.SessionIDFromContext(r.Context())
	if sessionID == "" {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	grants, err := h.Service.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.WriteAppError(w, internal.ErrSessionNotFound)
			return
		}
		h.Logger.Error("GetGrants: failed to read grant set", "session_id", sessionID, "error", err)
		h.HandleError(w, err, "failed to read grant set")
		return
	}

	h.WriteJSON(w, http.StatusOK, grants)
}

func (h *Handler) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	sessionID := internal.SessionIDFromContext(r.Context())
	if sessionID == "" {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxGrantSetBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.WriteAppError(w, internal.NewValidationError("grant set is too large", internal.ErrCodeRequestTooLarge))
			return
		}
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.Service.Replace(r.Context(), sessionID, body); err != nil {
		if errors.Is(err, ErrMalformedGrantSet) {
			h.WriteAppError(w, internal.ErrMalformedGrantSet)
			return
		}
		h.Logger.Error("ReplaceGrants: failed to store grant set", "session_id", sessionID, "error", err)
		h.HandleError(w, err, "failed to store grant set")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) InvalidateGrants(w http.ResponseWriter, r *http.Request) {
	sessionID := internal.SessionIDFromContext(r.Context())
	if sessionID == "" {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	if err := h.Service.Invalidate(r.Context(), sessionID); err != nil {
		h.Logger.Error("InvalidateGrants: failed to drop grant set", "session_id", sessionID, "error", err)
		h.HandleError(w, err, "failed to drop grant set")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
