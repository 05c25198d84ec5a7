package guard

type PathRequest struct {
	Path string `json:"path" validate:"required,startswith=/,max=2048"`
}

type DecisionResponse struct {
	Loaded   bool `json:"loaded"`
	Decision `json:"decision"`
}
