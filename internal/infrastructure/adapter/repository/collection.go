package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// loadCollection decodes the JSON array stored under key.
// found is false when the key was never written.
func loadCollection[M any](ctx context.Context, store persistence.Store, key string) ([]M, bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var records []M
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, true, fmt.Errorf("%w: malformed %s: %v", errs.ErrStore, key, err)
	}
	return records, true, nil
}

// stageCollection encodes records as a JSON array and stages it under key
func stageCollection[M any](cs *persistence.ChangeSet, key string, records []M) error {
	if records == nil {
		records = []M{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %v", errs.ErrInternal, key, err)
	}
	cs.Put(key, raw)
	return nil
}

// keyExists reports whether key was ever written
func keyExists(ctx context.Context, store persistence.Store, key string) (bool, error) {
	if _, err := store.Get(ctx, key); err != nil {
		if errors.Is(err, errs.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return true, nil
}
