package main

import (
	"context"
	"fmt"
	"time"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store/filestore"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store/memory"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store/redisstore"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
)

// backend is the selected key-value store with its matching write lock
type backend struct {
	store  persistence.Store
	lock   persistence.WriteLock
	health func(ctx context.Context) error
	close  func() error
}

// openBackend connects the store driver named in the configuration
func openBackend(
	ctx context.Context,
	cfg *config.Config,
	logger coreport.Logger,
	tp coreport.TimeProvider,
	ids coreport.IDGenerator,
	reg prometheus.Registerer,
) (*backend, error) {
	lockTTL := time.Duration(cfg.Transaction.LockTTLMs) * time.Millisecond

	switch cfg.Store.Driver {
	case config.DriverMemory:
		return &backend{
			store: memory.NewStore(),
			lock:  store.NewLocalWriteLock(),
			close: func() error { return nil },
		}, nil

	case config.DriverFile:
		fs, err := filestore.NewStore(cfg.Store.Dir, logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			store: fs,
			lock:  store.NewLocalWriteLock(),
			close: func() error { return nil },
		}, nil

	case config.DriverPostgres:
		manager := database.NewManager(database.CreateConfigFromViperConfig(cfg), logger, tp, reg)
		if _, err := manager.Connect(ctx); err != nil {
			return nil, err
		}
		if err := manager.Migrate(ctx); err != nil {
			_ = manager.Close()
			return nil, err
		}
		return &backend{
			store:  manager.Store(),
			lock:   manager.WriteLock(lockTTL, ids),
			health: manager.Ping,
			close:  manager.Close,
		}, nil

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			Prefix:      cfg.Redis.Prefix,
			DialTimeout: cfg.Redis.DialTimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &backend{
			store: redisstore.NewStore(client, cfg.Redis.Prefix, logger),
			lock:  redisstore.NewWriteLock(client, cfg.Redis.Prefix, lockTTL, ids, logger),
			health: func(ctx context.Context) error {
				return client.Ping(ctx).Err()
			},
			close: client.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
