package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Dir is a durable Adapter storing one file per key under a directory.
// Writes go through a temp file and rename, so a value is never partially
// visible under its key.
type Dir struct {
	dir string
}

// NewDir creates a directory-backed adapter, creating the directory if needed.
func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Dir{dir: dir}, nil
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.dir, key+".json")
}

// Read returns the value stored for key, or found=false when the key is absent.
func (d *Dir) Read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, apperrors.Persistence("read", key, err)
	}
	return data, true, nil
}

// Write atomically replaces the value stored for key.
func (d *Dir) Write(key string, value []byte) error {
	tmp, err := os.CreateTemp(d.dir, key+".*.tmp")
	if err != nil {
		return apperrors.Persistence("write", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.Persistence("write", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.Persistence("write", key, err)
	}

	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return apperrors.Persistence("write", key, err)
	}
	return nil
}

// Remove deletes the key's file. Removing an absent key is a no-op.
func (d *Dir) Remove(key string) error {
	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.Persistence("remove", key, err)
	}
	return nil
}
