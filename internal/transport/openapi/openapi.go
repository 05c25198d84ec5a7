package openapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/navguard/internal"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yml
var document []byte

// Document returns the raw OpenAPI document.
func Document() []byte {
	return document
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// Validator rejects requests that do not match the document. Requests to
// routes the document does not describe pass through untouched.
type Validator struct {
	router routers.Router
	logger *slog.Logger
}

func NewValidator(doc *openapi3.T, logger *slog.Logger) (*Validator, error) {
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{router: router, logger: logger}, nil
}

func (v *Validator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				// bearer tokens are checked by the auth middleware
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.logger.WarnContext(r.Context(), "request rejected by openapi validation",
				"method", r.Method, "path", r.URL.Path, "error", err)
			writeError(w, requestError(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Serve writes the document.
func Serve(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(document)
}

func requestError(err error) *internal.AppError {
	message := "request does not match the API description"
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			message = fmt.Sprintf("invalid parameter %q", reqErr.Parameter.Name)
		} else if reqErr.RequestBody != nil {
			message = "invalid request body"
		}
	}
	return internal.NewValidationError(message, internal.ErrCodeValidationFailed).WithCause(err)
}

func writeError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
