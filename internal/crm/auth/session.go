package auth

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	e "github.com/epicevents/crm/internal/crm/errors"
)

// Session is the part of a login that survives between runs.
type Session struct {
	Token string `json:"token"`
}

// SessionStore persists the session token in the user's config
// directory so a still-valid login is resumed instead of re-prompting.
type SessionStore struct {
	path string
}

// NewSessionStore places the session file under the OS config
// directory, e.g. ~/.config/epicrm/session.json.
func NewSessionStore() (*SessionStore, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &SessionStore{path: filepath.Join(base, "epicrm", "session.json")}, nil
}

// NewSessionStoreAt uses an explicit file path.
func NewSessionStoreAt(path string) *SessionStore {
	return &SessionStore{path: path}
}

// Load returns the stored token or ErrNoSession.
func (s *SessionStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", e.ErrNoSession
		}
		return "", err
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return "", err
	}
	if session.Token == "" {
		return "", e.ErrNoSession
	}
	return session.Token, nil
}

// Save writes the token, readable by the owner only.
func (s *SessionStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(Session{Token: token}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

// Clear drops the stored session. A missing file is not an error.
func (s *SessionStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
