// Package redisstore keeps the key-value store in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// Config holds the Redis connection settings
type Config struct {
	Addr        string
	Password    string
	DB          int
	Prefix      string
	DialTimeout time.Duration
}

// Store is a BatchStore over a Redis client; batches run in MULTI/EXEC
type Store struct {
	client redis.UniversalClient
	prefix string
	logger coreport.Logger
}

// Connect opens a client and checks the server answers
func Connect(ctx context.Context, cfg Config, logger coreport.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: failed to reach redis at %s: %v", errs.ErrStore, cfg.Addr, err)
	}

	logger.Info("Connected to redis", map[string]any{
		"addr": cfg.Addr,
		"db":   cfg.DB,
	})
	return client, nil
}

// NewStore creates a Store whose keys are namespaced by prefix
func NewStore(client redis.UniversalClient, prefix string, logger coreport.Logger) *Store {
	return &Store{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

// Get returns the blob stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errs.ErrKeyNotFound
		}
		return nil, fmt.Errorf("%w: get %s: %v", errs.ErrStore, key, err)
	}
	return value, nil
}

// Put overwrites the blob stored under key
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", errs.ErrStore, key, err)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", errs.ErrStore, key, err)
	}
	return nil
}

// ApplyBatch applies writes in a single MULTI/EXEC transaction
func (s *Store) ApplyBatch(ctx context.Context, writes []persistence.Write) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, w := range writes {
			if w.Delete {
				pipe.Del(ctx, s.key(w.Key))
				continue
			}
			pipe.Set(ctx, s.key(w.Key), w.Value, 0)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Redis batch failed", map[string]any{
			"writes": len(writes),
			"error":  err.Error(),
		})
		return fmt.Errorf("%w: batch of %d writes: %v", errs.ErrStore, len(writes), err)
	}
	return nil
}

func (s *Store) key(key string) string {
	return s.prefix + key
}
