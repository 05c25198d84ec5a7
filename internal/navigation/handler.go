package navigation

import (
	"net/http"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/frahmantamala/navguard/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Catalog []access.Node
}

func NewHandler(baseHandler *transport.BaseHandler, catalog []access.Node) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Catalog:     catalog,
	}
}

// GetMenu returns the menu the renderer should draw. Without a loaded grant
// set the response is an empty, unloaded menu.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	if !snap.Loaded() {
		h.WriteJSON(w, http.StatusOK, MenuResponse{Loaded: false, Items: []access.Node{}})
		return
	}

	h.WriteJSON(w, http.StatusOK, MenuResponse{
		Loaded: true,
		Items:  access.VisibleTree(h.Catalog, *snap.Grants),
	})
}

func (h *Handler) GetFirstPath(w http.ResponseWriter, r *http.Request) {
	snap := session.FromContext(r.Context())
	if !snap.Loaded() {
		h.WriteJSON(w, http.StatusOK, FirstPathResponse{Loaded: false})
		return
	}

	path, found := access.FirstPermittedPath(h.Catalog, *snap.Grants)
	h.WriteJSON(w, http.StatusOK, FirstPathResponse{Loaded: true, Path: path, Found: found})
}
