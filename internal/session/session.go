// Package session persists the single logged-in session: a bearer token and
// the user snapshot returned at login.
package session

import (
	"sync"

	"github.com/edvin/mitra-admin/internal/model"
)

// Store holds at most one session. It is written by the login and logout
// flows and read by every authenticated request.
type Store interface {
	// Token returns the current bearer token, or "" when logged out.
	Token() string
	// User returns the cached user snapshot, or nil when logged out.
	User() *model.User
	Set(token string, user model.User) error
	Clear() error
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
	user  *model.User
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *MemoryStore) Set(token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = &user
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	return nil
}
