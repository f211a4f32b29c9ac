package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sitrus/server/internal/models"
)

// ErrNotLoggedIn is returned by admin calls made without a session token
var ErrNotLoggedIn = errors.New("not logged in")

// Session holds the admin credentials of a client. It is loaded once from
// its file, updated on login and wiped on logout.
type Session struct {
	mu    sync.RWMutex
	path  string
	token string
	admin *models.Admin
}

type sessionFile struct {
	Token string        `json:"token"`
	Admin *models.Admin `json:"admin,omitempty"`
}

// NewSession creates a session persisted at path. An empty path keeps the
// session in memory only.
func NewSession(path string) *Session {
	return &Session{path: path}
}

// Load restores the session from disk. A missing or unreadable file leaves
// the session logged out.
func (s *Session) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.admin = "", nil
	if s.path == "" {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		// A corrupt file is treated as logged out
		return nil
	}
	s.token, s.admin = f.Token, f.Admin
	return nil
}

// Save stores the credentials returned by a login
func (s *Session) Save(token string, admin *models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	if admin != nil {
		s.admin = admin
	}
	if s.path == "" {
		return nil
	}

	data, err := json.Marshal(sessionFile{Token: s.token, Admin: s.admin})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

// Clear logs the session out and removes its file
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token, s.admin = "", nil
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Admin returns a copy of the logged in admin, or nil
func (s *Session) Admin() *models.Admin {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return nil
	}
	admin := *s.admin
	return &admin
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}
