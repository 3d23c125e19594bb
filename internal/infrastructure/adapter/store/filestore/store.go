// Package filestore keeps each key in its own file under a directory.
// It has no multi-key atomicity; commits go through the journal of the store package.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
)

const fileExt = ".json"

// Store is a directory of key files
type Store struct {
	dir    string
	logger coreport.Logger
}

// NewStore creates dir if needed and returns a Store rooted at it
func NewStore(dir string, logger coreport.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create store directory %s: %v", errs.ErrStore, dir, err)
	}
	logger.Info("File store opened", map[string]any{
		"dir": dir,
	})
	return &Store{dir: dir, logger: logger}, nil
}

// Get returns the blob stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errs.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: read %s: %v", errs.ErrStore, key, err)
	}
	return value, nil
}

// Put replaces the file of key through a temporary file and a rename
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: write %s: %v", errs.ErrStore, key, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(value)
	syncErr := tmp.Sync()
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, syncErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", errs.ErrStore, key, err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", errs.ErrStore, key, err)
	}
	return nil
}

// Delete removes the file of key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: delete %s: %v", errs.ErrStore, key, err)
	}
	return nil
}

// path maps a key to a flat file name; separators in keys are escaped
func (s *Store) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileExt)
}
