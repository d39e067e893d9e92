package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenFile is the file name FileRepo uses inside its folder.
const TokenFile = "tokens.json"

// FileRepo is an InMemoryRepo that rewrites a JSON file after every change,
// so tokens survive a restart.
type FileRepo struct {
	mem  *InMemoryRepo
	path string
	mu   sync.Mutex // serialises file writes
}

var _ Repo = (*FileRepo)(nil)

// OpenFileRepo loads folder/tokens.json, creating the folder (0700) if needed.
func OpenFileRepo(folder string) (*FileRepo, error) {
	if err := os.MkdirAll(folder, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data folder: %w", err)
	}
	fr := &FileRepo{
		mem:  NewInMemoryRepo(),
		path: filepath.Join(folder, TokenFile),
	}

	data, err := os.ReadFile(fr.path)
	if errors.Is(err, fs.ErrNotExist) {
		return fr, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", fr.path, err)
	}
	if len(data) > 0 {
		var records map[string]Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", fr.path, err)
		}
		// A file holding null decodes to a nil map.
		if records != nil {
			fr.mem.records = records
		}
	}
	return fr, nil
}

func (f *FileRepo) Path() string {
	return f.path
}

func (f *FileRepo) Get(deviceID string) (Record, error) {
	return f.mem.Get(deviceID)
}

func (f *FileRepo) Upsert(deviceID string, rec Record) error {
	if err := f.mem.Upsert(deviceID, rec); err != nil {
		return err
	}
	return f.flush()
}

func (f *FileRepo) Delete(deviceID string) error {
	if err := f.mem.Delete(deviceID); err != nil {
		return err
	}
	return f.flush()
}

// flush writes the records to a temp file (0600) and renames it into place.
func (f *FileRepo) flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mem.mu.RLock()
	data, err := json.MarshalIndent(f.mem.records, "", "  ")
	f.mem.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode token records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".tokens-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}
