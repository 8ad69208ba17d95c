package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/edvin/mitra-admin/internal/model"
)

const (
	configDirName = "mitra-admin"
	tokenFile     = "userToken"
	userFile      = "userData.json"
)

// DefaultDir returns the session directory (~/.config/mitra-admin/).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return filepath.Join(xdgConfig, configDirName), nil
}

// FileStore keeps the session in two files under dir: the raw token and the
// JSON-encoded user. Both are cached in memory after Open.
type FileStore struct {
	dir string

	mu    sync.RWMutex
	token string
	user  *model.User
}

// OpenFileStore loads any existing session from dir. A missing directory or
// missing files mean "logged out", not an error.
func OpenFileStore(dir string) (*FileStore, error) {
	s := &FileStore{dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, tokenFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session token: %w", err)
	}
	s.token = strings.TrimSpace(string(data))

	data, err = os.ReadFile(filepath.Join(dir, userFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read session user: %w", err)
	}
	var u model.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("parse session user: %w", err)
	}
	s.user = &u

	return s, nil
}

func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *FileStore) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Set writes both files, replacing any previous session.
func (s *FileStore) Set(token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	userData, err := json.MarshalIndent(user, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(token), 0600); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), userData, 0600); err != nil {
		return fmt.Errorf("write session user: %w", err)
	}

	s.token = token
	s.user = &user
	return nil
}

// Clear removes both files. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", name, err)
		}
	}
	return nil
}
