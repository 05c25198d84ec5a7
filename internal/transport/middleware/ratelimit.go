package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/frahmantamala/navguard/internal"
	"github.com/go-chi/httprate"
)

// RateLimit limits requests per session, or per client address for
// requests that carry no session.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			appErr := &internal.AppError{
				Type:       internal.ErrorTypeTooManyRequests,
				Code:       internal.ErrCodeRateLimited,
				Message:    "too many requests",
				StatusCode: http.StatusTooManyRequests,
			}
			writeAppError(w, appErr)
		}),
	)
}

func rateLimitKey(r *http.Request) (string, error) {
	if sessionID := internal.SessionIDFromContext(r.Context()); sessionID != "" {
		return "session:" + sessionID, nil
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr, nil
	}
	return "ip:" + host, nil
}
