package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeGrantsWrite lets a token replace or drop its session's grant set.
// Tokens handed to end users do not carry it; only the grant issuer does.
const ScopeGrantsWrite = "grants:write"

// Claims are carried by a session token. The sid claim names the session
// whose grant set the request is evaluated against.
type Claims struct {
	SessionID string   `json:"sid"`
	Scopes    []string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// TokenGenerator issues and validates session tokens.
type TokenGenerator interface {
	GenerateSessionToken(sessionID, subject string, scopes ...string) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type SessionToken struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type JWTTokenGenerator struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrMissingSession = errors.New("token carries no session id")
)
