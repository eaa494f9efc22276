package client

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

const tokenKey = "authToken"

// TokenStore holds the bearer token between requests. An empty token means
// logged out.
type TokenStore interface {
	Token() string
	SetToken(token string) error
	Clear() error
}

type MemTokenStore struct {
	mu    sync.Mutex
	token string
}

func (s *MemTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemTokenStore) Clear() error {
	return s.SetToken("")
}

// FileTokenStore persists the token as a small JSON document so a login
// survives restarts.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	stored := map[string]string{}
	if json.Unmarshal(data, &stored) != nil {
		return ""
	}
	return stored[tokenKey]
}

func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
