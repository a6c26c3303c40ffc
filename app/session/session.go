// Package session carries the caller's bearer credential explicitly through
// every request-issuing call. A Session is created when a request is
// authenticated and cleared on logout; a cleared session issues no requests.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
)

var (
	ErrNoCredential   = errors.New("session: no credential")
	ErrSessionCleared = errors.New("session: cleared")
	ErrInvalidToken   = errors.New("session: invalid token")
)

type Session struct {
	mu      sync.RWMutex
	token   string
	claims  entities.Claims
	cleared bool
}

// New wraps an already verified token and its claims.
func New(token string, claims entities.Claims) *Session {
	return &Session{token: token, claims: claims}
}

// Parse verifies an HS256 token with secret and builds a session from it.
// A "Bearer " prefix is accepted.
func Parse(tokenString string, secret []byte) (*Session, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tokenString), "Bearer "))
	if tokenString == "" {
		return nil, ErrNoCredential
	}

	claims := &entities.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return New(tokenString, *claims), nil
}

// Token implements oauth2.TokenSource so outgoing clients attach the
// credential as a bearer header.
func (s *Session) Token() (*oauth2.Token, error) {
	if s == nil {
		return nil, ErrNoCredential
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cleared {
		return nil, ErrSessionCleared
	}
	if s.token == "" {
		return nil, ErrNoCredential
	}
	tok := &oauth2.Token{AccessToken: s.token, TokenType: "Bearer"}
	if s.claims.ExpiresAt != nil {
		tok.Expiry = s.claims.ExpiresAt.Time
	}
	return tok, nil
}

// Active reports whether the session can still issue requests.
func (s *Session) Active() bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.cleared && s.token != ""
}

// Clear drops the credential. It is safe to call more than once.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = true
	s.token = ""
}

func (s *Session) Username() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.Username
}

func (s *Session) Role() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.Role
}

// HasRole reports whether the session's role is one of roles.
func (s *Session) HasRole(roles ...string) bool {
	role := s.Role()
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Session) Info() entities.SessionInfo {
	if s == nil {
		return entities.SessionInfo{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := entities.SessionInfo{
		UserID:   s.claims.ID,
		Username: s.claims.Username,
		Role:     s.claims.Role,
	}
	if s.claims.ExpiresAt != nil {
		info.ExpiresAt = s.claims.ExpiresAt.Time.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return info
}

type contextKey struct{}

func WithContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
