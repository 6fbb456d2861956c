// ABOUTME: Plain file storage backend, one JSON file per slot
// ABOUTME: Writes go through a temp file and rename so a slot is never half-written

package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileBackend stores each slot as <dir>/<slot>.json.
type FileBackend struct {
	dir string
}

// Compile-time check that FileBackend implements Backend.
var _ Backend = (*FileBackend)(nil)

// NewFileBackend creates the directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) slotPath(slot string) (string, error) {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(f.dir, slot+".json"), nil
}

// Read returns the slot file contents, or nil if the file does not exist.
func (f *FileBackend) Read(slot string) ([]byte, error) {
	path, err := f.slotPath(slot)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // path is built from a validated slot name
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot file: %w", err)
	}
	return data, nil
}

// Write atomically replaces the slot file.
func (f *FileBackend) Write(slot string, data []byte) error {
	path, err := f.slotPath(slot)
	if err != nil {
		return err
	}
	return AtomicWrite(path, data)
}

// Close is a no-op for the file backend.
func (f *FileBackend) Close() error {
	return nil
}

// AtomicWrite writes data to a temp file in the target directory and renames it into place.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
