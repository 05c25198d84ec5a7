package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultTokenTTL = 12 * time.Hour

type ServiceAPI interface {
	IssueSession(subject string, scopes ...string) (SessionToken, error)
	ValidateSessionToken(tokenString string) (*Claims, error)
}

type Service struct {
	tokenGenerator TokenGenerator
}

func NewService(tokenGen TokenGenerator) *Service {
	return &Service{tokenGenerator: tokenGen}
}

// NewJWTTokenGenerator creates an HS256 token generator. A zero ttl falls
// back to twelve hours.
func NewJWTTokenGenerator(secret, issuer string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		Issuer: issuer,
		TTL:    ttl,
	}
}

// IssueSession opens a new session for subject and returns its token.
func (s *Service) IssueSession(subject string, scopes ...string) (SessionToken, error) {
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokenGenerator.GenerateSessionToken(sessionID, subject, scopes...)
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{SessionID: sessionID, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) ValidateSessionToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

func (j *JWTTokenGenerator) GenerateSessionToken(sessionID, subject string, scopes ...string) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, ErrMissingSession
	}

	now := time.Now()
	expiresAt := now.Add(j.TTL)
	claims := &Claims{
		SessionID: sessionID,
		Scopes:    scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ValidateToken validates a session token and returns its claims.
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == "" {
		return nil, ErrMissingSession
	}
	return claims, nil
}
