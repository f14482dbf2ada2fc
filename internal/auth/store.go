package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var ErrStorePathRequired = errors.New("token store path not provided")

// Store keeps the signed-in user's bearer token on disk. How the token is
// obtained (login, refresh) is outside this module; screens hand the token
// to Save after the auth flow completes and the API client reads it through
// the TokenSource interface.
type Store struct {
	mu   sync.RWMutex
	path string
	tok  storedToken
}

type storedToken struct {
	AccessToken string    `json:"access_token"`
	SavedAt     time.Time `json:"saved_at"`
}

// NewStore opens (or initialises) a token store at path.
func NewStore(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrStorePathRequired
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create token dir: %w", err)
	}

	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Token implements api.TokenSource. An empty string means signed out.
func (s *Store) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tok.AccessToken, nil
}

// Save persists a new token, replacing any previous one.
func (s *Store) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tok = storedToken{AccessToken: strings.TrimSpace(token), SavedAt: time.Now().UTC()}
	return s.saveLocked()
}

// Clear removes the stored token (sign-out).
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tok = storedToken{}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read token file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &s.tok); err != nil {
		return fmt.Errorf("decode token file: %w", err)
	}
	return nil
}

func (s *Store) saveLocked() error {
	tmp := s.path + ".tmp"
	data, err := json.MarshalIndent(s.tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}
