package database

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore is a BatchStore kept in the kv_entries table
type KVStore struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *ErrorMapper
	retryConfig  RetryConfig
	observer     *QueryObserver
}

// NewKVStore creates a new KVStore; observer may be nil
func NewKVStore(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, observer *QueryObserver) *KVStore {
	return &KVStore{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  NewErrorMapper(),
		retryConfig:  DefaultRetryConfig(),
		observer:     observer,
	}
}

// Get returns the blob stored under key
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry model.KVEntry
	err := s.observe("get", func() error {
		return s.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrKeyNotFound
		}
		return nil, s.errorMapper.MapError(err, "get "+key)
	}
	return entry.Value, nil
}

// Put overwrites the blob stored under key
func (s *KVStore) Put(ctx context.Context, key string, value []byte) error {
	err := s.observe("put", func() error {
		return RetryOnTransientError(ctx, s.retryConfig, func() error {
			return upsert(s.db.WithContext(ctx), s.entry(key, value))
		}, s.errorMapper, s.logger)
	})
	return s.errorMapper.MapError(err, "put "+key)
}

// Delete removes key; deleting a missing key is not an error
func (s *KVStore) Delete(ctx context.Context, key string) error {
	err := s.observe("delete", func() error {
		return RetryOnTransientError(ctx, s.retryConfig, func() error {
			return s.db.WithContext(ctx).Where("key = ?", key).Delete(&model.KVEntry{}).Error
		}, s.errorMapper, s.logger)
	})
	return s.errorMapper.MapError(err, "delete "+key)
}

// ApplyBatch applies writes in one serializable transaction, retried as a whole on contention
func (s *KVStore) ApplyBatch(ctx context.Context, writes []persistence.Write) error {
	if len(writes) == 0 {
		return nil
	}

	err := s.observe("batch", func() error {
		return RetryOnTransientError(ctx, s.retryConfig, func() error {
			return WithSerializableTx(ctx, s.db, func(tx *gorm.DB) error {
				for _, w := range writes {
					if w.Delete {
						if err := tx.Where("key = ?", w.Key).Delete(&model.KVEntry{}).Error; err != nil {
							return fmt.Errorf("delete %s: %w", w.Key, err)
						}
						continue
					}
					if err := upsert(tx, s.entry(w.Key, w.Value)); err != nil {
						return fmt.Errorf("put %s: %w", w.Key, err)
					}
				}
				return nil
			})
		}, s.errorMapper, s.logger)
	})
	return s.errorMapper.MapError(err, "apply batch")
}

// Keys lists every stored key in order
func (s *KVStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&model.KVEntry{}).Order("key").Pluck("key", &keys).Error; err != nil {
		return nil, s.errorMapper.MapError(err, "list keys")
	}
	return keys, nil
}

func (s *KVStore) entry(key string, value []byte) *model.KVEntry {
	now := s.timeProvider.Now()
	return &model.KVEntry{
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *KVStore) observe(operation string, fn func() error) error {
	if s.observer == nil {
		return fn()
	}
	return s.observer.Measure(operation, fn)
}

func upsert(db *gorm.DB, entry *model.KVEntry) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(entry).Error
}
