package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/parley/pkg/domain"
	"github.com/google/uuid"
)

// Store implements ports.HistoryStore with a single JSON file holding the
// history of every dialogue, keyed by dialogue GUID.
type Store struct {
	Path string
	mu   sync.Mutex
}

// New creates a Store writing to path.
// If path is empty, it defaults to ".parley/history.json".
func New(path string) *Store {
	if path == "" {
		path = filepath.Join(".parley", "history.json")
	}
	return &Store{Path: path}
}

// Save replaces the history of one dialogue and rewrites the file atomically.
func (s *Store) Save(ctx context.Context, dialogue uuid.UUID, h domain.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	all[dialogue] = h.Clone()
	return s.write(all)
}

// Load returns the history of one dialogue.
func (s *Store) Load(ctx context.Context, dialogue uuid.UUID) (domain.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return domain.History{}, err
	}
	h, ok := all[dialogue]
	if !ok {
		return domain.History{}, fmt.Errorf("%w: %s", domain.ErrHistoryNotFound, dialogue)
	}
	return h, nil
}

func (s *Store) LoadAll(ctx context.Context) (map[uuid.UUID]domain.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Delete removes the history of one dialogue.
func (s *Store) Delete(ctx context.Context, dialogue uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := all[dialogue]; !ok {
		return nil
	}
	delete(all, dialogue)
	return s.write(all)
}

// Clear removes the history file.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete history file: %w", err)
	}
	return nil
}

// read returns an empty map when the file does not exist yet.
func (s *Store) read() (map[uuid.UUID]domain.History, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[uuid.UUID]domain.History{}, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	all := map[uuid.UUID]domain.History{}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("failed to unmarshal history file: %w", err)
	}
	return all, nil
}

// write replaces the file atomically: it writes a temporary file in the same
// directory, syncs it, and renames it over the destination.
func (s *Store) write(all map[uuid.UUID]domain.History) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure history directory: %w", err)
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-history-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing history file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to history file: %w", err)
	}
	return nil
}
