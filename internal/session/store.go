package session

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"digiassistant-client-V1.0/internal/model"
	"digiassistant-client-V1.0/utilities"
)

// Store holds the signed-in identity. Only the bearer token survives a
// restart (written to a local file); the user record is re-fetched from the
// backend. Identity changes are announced on the event bus so dependent state
// (the chat transcript) can reset itself.
type Store struct {
	mu        sync.RWMutex
	tokenFile string
	token     string
	user      *model.User
	bus       *utilities.EventBus
}

func NewStore(tokenFile string, bus *utilities.EventBus) *Store {
	s := &Store{
		tokenFile: tokenFile,
		bus:       bus,
	}
	s.restoreToken()
	return s
}

func (s *Store) restoreToken() {
	if s.tokenFile == "" {
		return
	}
	data, err := os.ReadFile(s.tokenFile)
	if err != nil {
		return
	}
	s.token = strings.TrimSpace(string(data))
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// SetCredentials installs a fresh identity after login or registration and
// persists the token.
func (s *Store) SetCredentials(user *model.User, token string) {
	s.mu.Lock()
	s.user = user
	s.token = token
	s.persistToken(token)
	s.mu.Unlock()
}

// SetUser refreshes the cached user record without touching the token.
func (s *Store) SetUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
}

func (s *Store) persistToken(token string) {
	if s.tokenFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.tokenFile), 0700); err != nil {
		utilities.Warn("failed to create token directory: %v", err)
		return
	}
	if err := os.WriteFile(s.tokenFile, []byte(token), 0600); err != nil {
		utilities.Warn("failed to persist token: %v", err)
	}
}

// Invalidate tears the session down. Used for explicit logout and for the
// global 401 handler; publishes "user_logged_out" so the chat state clears.
func (s *Store) Invalidate() {
	s.mu.Lock()
	wasAuthenticated := s.token != ""
	s.token = ""
	s.user = nil
	if s.tokenFile != "" {
		os.Remove(s.tokenFile)
	}
	s.mu.Unlock()

	if wasAuthenticated && s.bus != nil {
		s.bus.PublishSync("user_logged_out", nil)
	}
}
