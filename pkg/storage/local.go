package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LocalStore persists recording blobs on the local filesystem. Every write
// targets a freshly generated name, so concurrent writers never contend on
// the same path.
type LocalStore struct {
	dir    string
	logger *zap.Logger
}

// NewLocalStore creates the recordings directory if absent and returns a
// store rooted there.
func NewLocalStore(dir string, logger *zap.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalStore{dir: abs, logger: logger}, nil
}

// Dir returns the absolute recordings directory.
func (s *LocalStore) Dir() string { return s.dir }

// Save writes the full byte stream to the store under name and returns the
// absolute path. The file is written to completion before Save returns; a
// partial file left by a failed write is removed.
func (s *LocalStore) Save(r io.Reader, name string) (string, error) {
	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write blob: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close blob: %w", err)
	}
	return path, nil
}

// Delete removes the blob at path. Returns false with no error when the file
// is already absent; delete is idempotent.
func (s *LocalStore) Delete(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("delete blob: %w", err)
}
