package wizard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StateKey is the single slot the form data is persisted under.
const StateKey = "applicationFormData"

// Store is the durable local slot for in-progress form data.
// Load returns nil without error when nothing is saved.
type Store interface {
	Load() (*FormData, error)
	Save(data FormData) error
	Clear() error
}

// FileStore keeps the form data in a JSON document on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*FormData, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode state file: %w", err)
	}
	slot, ok := doc[StateKey]
	if !ok || string(slot) == "null" {
		return nil, nil
	}

	data := NewFormData()
	if err := json.Unmarshal(slot, &data); err != nil {
		return nil, fmt.Errorf("failed to decode form data: %w", err)
	}
	return &data, nil
}

// Save writes through a temp file so a crash never leaves a torn document.
func (s *FileStore) Save(data FormData) error {
	raw, err := json.MarshalIndent(map[string]FormData{StateKey: data}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode form data: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear state file: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu   sync.Mutex
	data *FormData
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*FormData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	data := s.data.clone()
	return &data, nil
}

func (s *MemoryStore) Save(data FormData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data = data.clone()
	s.data = &data
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
