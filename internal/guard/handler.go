package guard

import (
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/core/common/validation"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/frahmantamala/navguard/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Catalog  []access.Node
	Options  Options
	Registry *Registry
}

func NewHandler(baseHandler *transport.BaseHandler, catalog []access.Node, opts Options, registry *Registry) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Catalog:     catalog,
		Options:     opts,
		Registry:    registry,
	}
}

// Evaluate answers what the guard would do at a path, without remembering
// anything about the session.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePath(w, r)
	if !ok {
		return
	}

	snap := session.FromContext(r.Context())
	decision := Evaluate(h.Catalog, req.Path, snap.Grants, h.Options)
	h.WriteJSON(w, http.StatusOK, DecisionResponse{Loaded: snap.Loaded(), Decision: decision})
}

// Navigate feeds a location change to the session's guard. Identical
// consecutive inputs are answered as repeated.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	sessionID := internal.SessionIDFromContext(r.Context())
	if sessionID == "" {
		h.WriteAppError(w, internal.ErrMissingToken)
		return
	}

	req, ok := h.decodePath(w, r)
	if !ok {
		return
	}

	snap := session.FromContext(r.Context())
	g := h.Registry.Guard(r.Context(), sessionID, snap)

	decision, err := g.Navigate(r.Context(), req.Path)
	if err != nil {
		h.HandleError(w, err, "failed to apply guard decision")
		return
	}

	h.WriteJSON(w, http.StatusOK, DecisionResponse{Loaded: g.Snapshot().Loaded(), Decision: decision})
}

func (h *Handler) decodePath(w http.ResponseWriter, r *http.Request) (PathRequest, bool) {
	var req PathRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		h.WriteAppError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed))
		return req, false
	}
	if appErr := validation.Struct(req, internal.ErrCodeInvalidPath); appErr != nil {
		h.WriteAppError(w, appErr)
		return req, false
	}
	return req, true
}
