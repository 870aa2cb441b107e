package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// StateStore persists the migration flag. Load reports found=false when no flag
// has been written yet.
type StateStore interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, st State) error
}

// FileStateStore keeps the flag as an indented JSON file.
type FileStateStore struct {
	path string
}

func NewFileStateStore(path string) *FileStateStore {
	return &FileStateStore{path: path}
}

func (s *FileStateStore) Path() string {
	return s.path
}

func (s *FileStateStore) Load(_ context.Context) (State, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}

		return State{}, true, fmt.Errorf("reading migration flag: %w", err)
	}

	return decodeState(data), true, nil
}

// decodeState accepts the JSON record and the older plain-timestamp flag. JSON
// without a status yields StatusUnknown.
func decodeState(data []byte) State {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{Status: StatusCompleted, Timestamp: strings.TrimSpace(string(data))}
	}

	if st.Status == "" {
		st.Status = StatusUnknown
		st.Error = "migration flag has no status"
	}

	return st
}

func (s *FileStateStore) Save(_ context.Context, st State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating flag directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding migration flag: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing migration flag: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("writing migration flag: %w", err)
	}

	return nil
}

// Remove deletes the flag so the next startup attempts the import again.
func (s *FileStateStore) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing migration flag: %w", err)
	}

	return nil
}

type MemoryStateStore struct {
	mu    sync.Mutex
	state *State
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{}
}

func (s *MemoryStateStore) Load(_ context.Context) (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return State{}, false, nil
	}

	return *s.state, true, nil
}

func (s *MemoryStateStore) Save(_ context.Context, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = &st

	return nil
}
