// Package session holds the bearer token of the logged-in user.
//
// A Session is created once per process and handed to everything that needs
// to know whether the user is logged in. The token is read from durable
// storage on first use and written through on every change. Storage failures
// never reach the caller: the session keeps working from memory and logs a
// warning.
package session

import (
	"log/slog"
	"sync"

	"fintrack/internal/storage"
)

// TokenKey is the durable storage key holding the raw token.
const TokenKey = "token"

// Session is the process-wide authentication state.
type Session struct {
	store  storage.Store
	logger *slog.Logger

	mu     sync.Mutex
	loaded bool
	token  string
	has    bool
}

// New creates a session backed by store. Nothing is read until first use.
func New(store storage.Store, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{store: store, logger: logger}
}

// Token returns the current token and whether one is present.
func (s *Session) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked()
	return s.token, s.has
}

// IsAuthenticated reports whether a token is present.
func (s *Session) IsAuthenticated() bool {
	_, ok := s.Token()
	return ok
}

// SetToken replaces the current token. The value is not validated; an empty
// token leaves the session unauthenticated.
func (s *Session) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.token = token
	s.has = token != ""

	if err := s.store.Set(TokenKey, token); err != nil {
		s.logger.Warn("token not persisted, keeping it in memory only", "error", err)
	}
}

// Logout forgets the token in memory and in durable storage.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = true
	s.token = ""
	s.has = false

	if err := s.store.Remove(TokenKey); err != nil {
		s.logger.Warn("stored token not removed", "error", err)
	}
}

func (s *Session) loadLocked() {
	if s.loaded {
		return
	}
	s.loaded = true

	token, ok, err := s.store.Get(TokenKey)
	if err != nil {
		s.logger.Warn("stored token unreadable, starting without session", "error", err)
		return
	}
	// An empty value is treated like a missing key.
	s.token, s.has = token, ok && token != ""
}
