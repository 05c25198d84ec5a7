package navigation

import "github.com/frahmantamala/navguard/internal/access"

type MenuResponse struct {
	Loaded bool          `json:"loaded"`
	Items  []access.Node `json:"items"`
}

type FirstPathResponse struct {
	Loaded bool   `json:"loaded"`
	Path   string `json:"path,omitempty"`
	Found  bool   `json:"found"`
}
