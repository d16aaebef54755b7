package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrStateNotFound  = errors.New("session memory not found")
	ErrNilMemory      = errors.New("session memory is nil")
	ErrInvalidSession = errors.New("session id is empty")
)

// Store is the persistence contract for session memory. Load returns
// ErrStateNotFound when the session has never been saved; callers substitute
// empty defaults.
type Store interface {
	Load(ctx context.Context, sessionID string) (*SessionMemory, error)
	Save(ctx context.Context, mem *SessionMemory) error
	Delete(ctx context.Context, sessionID string) error
}

// FileStore persists one JSON document per session under a directory.
type FileStore struct {
	dir string
}

type FileStoreConfig struct {
	Dir string `envconfig:"DIR" split_words:"true" default:"./sessions"`
}

func NewFileStore(cfg FileStoreConfig) (*FileStore, error) {
	dir := strings.TrimSpace(cfg.Dir)
	if dir == "" {
		return nil, errors.New("session store dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Load(_ context.Context, sessionID string) (*SessionMemory, error) {
	path, err := s.memoryPath(sessionID)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("read session memory: %w", err)
	}

	var mem SessionMemory
	if err := json.Unmarshal(raw, &mem); err != nil {
		return nil, fmt.Errorf("unmarshal session memory: %w", err)
	}
	if mem.SessionID == "" {
		mem.SessionID = sessionID
	}
	return &mem, nil
}

func (s *FileStore) Save(_ context.Context, mem *SessionMemory) error {
	if mem == nil {
		return ErrNilMemory
	}
	if strings.TrimSpace(mem.SessionID) == "" {
		return ErrInvalidSession
	}
	if mem.UpdatedAt.IsZero() {
		mem.UpdatedAt = time.Now().UTC()
	}

	path, err := s.memoryPath(mem.SessionID)
	if err != nil {
		return err
	}

	payload, err := json.MarshalIndent(mem, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session memory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write session memory: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session memory: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, sessionID string) error {
	path, err := s.memoryPath(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete session memory: %w", err)
	}
	return nil
}

func (s *FileStore) memoryPath(sessionID string) (string, error) {
	trimmed := strings.TrimSpace(sessionID)
	if trimmed == "" {
		return "", ErrInvalidSession
	}
	safe := strings.ReplaceAll(trimmed, "/", "_")
	return filepath.Join(s.dir, fmt.Sprintf("agent_memory_%s.json", safe)), nil
}
