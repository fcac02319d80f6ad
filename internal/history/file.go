package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend stores the snapshot as one JSON object on disk.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Load reads the snapshot. A missing file is an empty store; a corrupted
// file is moved aside to path+".backup" and the store starts empty.
func (f *FileBackend) Load() (map[string]json.RawMessage, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	entries := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &entries); err != nil {
		if err := os.Rename(f.path, f.path+".backup"); err != nil {
			return nil, fmt.Errorf("failed to back up corrupted store: %w", err)
		}
		return map[string]json.RawMessage{}, nil
	}
	return entries, nil
}

// Save writes the snapshot atomically.
func (f *FileBackend) Save(entries map[string]json.RawMessage) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, f.path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
