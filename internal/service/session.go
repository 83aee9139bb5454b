package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hmtc-its/hmtc-portal/internal/models"
)

// ErrNoSession is returned when an operation needs a signed-in user.
var ErrNoSession = errors.New("not signed in")

// Session holds the bearer token of the signed-in user. Claims are read
// without verifying the signature: the backend remains the authority, the
// client only needs expiry and role for presentation. Session implements
// apiclient.TokenSource.
type Session struct {
	mu     sync.RWMutex
	token  string
	claims *models.JWTClaims
	now    func() time.Time
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{now: time.Now}
}

// Set replaces the token after checking that it parses as a JWT.
func (s *Session) Set(token string) error {
	claims := &models.JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("parse session token: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.claims = claims
	s.mu.Unlock()
	return nil
}

// Token returns the bearer token, or "" when absent or expired.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" || s.expiredLocked() {
		return ""
	}
	return s.token
}

// Claims returns the parsed claims of a live token.
func (s *Session) Claims() (*models.JWTClaims, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil || s.expiredLocked() {
		return nil, false
	}
	claims := *s.claims
	return &claims, true
}

// IsAdmin reports whether the live token carries an admin role.
func (s *Session) IsAdmin() bool {
	claims, ok := s.Claims()
	return ok && claims.Role.IsAdmin()
}

// ExpiresAt returns the token expiry, if the token carries one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil || s.claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return s.claims.ExpiresAt.Time, true
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.mu.Lock()
	s.token = ""
	s.claims = nil
	s.mu.Unlock()
}

func (s *Session) expiredLocked() bool {
	if s.claims == nil || s.claims.ExpiresAt == nil {
		return false
	}
	return !s.now().Before(s.claims.ExpiresAt.Time)
}
