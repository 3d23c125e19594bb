package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/time"
)

// setupManager starts PostgreSQL in a container and returns a migrated Manager.
// The test is skipped when no container runtime is reachable.
func setupManager(t *testing.T) *Manager {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("arena"),
		postgres.WithUsername("arena"),
		postgres.WithPassword("arena"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &Config{
		Driver:        "postgres",
		Host:          host,
		Port:          ParsePort(port.Port()),
		Username:      "arena",
		Password:      "arena",
		Database:      "arena",
		SSLMode:       "disable",
		MaxOpenConns:  10,
		MaxIdleConns:  2,
		QueryTimeout:  5 * time.Second,
		LogLevel:      "silent",
		RetryAttempts: 1,
	}
	manager := NewManager(cfg, logger.NewNoopLogger(), timeProvider.NewRealTimeProvider(), prometheus.NewRegistry())
	_, err = manager.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	require.NoError(t, manager.Migrate(ctx))
	return manager
}

func TestKVStore_Postgres(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()
	kv := manager.Store()

	var _ persistence.BatchStore = kv

	t.Run("should report a missing key", func(t *testing.T) {
		_, err := kv.Get(ctx, "absent")
		assert.ErrorIs(t, err, errs.ErrKeyNotFound)
	})

	t.Run("should overwrite and delete", func(t *testing.T) {
		require.NoError(t, kv.Put(ctx, "k", []byte("v1")))
		require.NoError(t, kv.Put(ctx, "k", []byte("v2")))

		got, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))

		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, kv.Delete(ctx, "k"))
		_, err = kv.Get(ctx, "k")
		assert.ErrorIs(t, err, errs.ErrKeyNotFound)
	})

	t.Run("should apply a batch in one transaction", func(t *testing.T) {
		// Arrange
		require.NoError(t, kv.Put(ctx, "stale", []byte("x")))

		// Act
		err := kv.ApplyBatch(ctx, []persistence.Write{
			{Key: "arena_users_registry", Value: []byte(`[]`)},
			{Key: "arena_transactions/u-1", Value: []byte(`[]`)},
			{Key: "stale", Delete: true},
		})

		// Assert
		require.NoError(t, err)
		keys, err := kv.Keys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"arena_transactions/u-1", "arena_users_registry"}, keys)
	})

	t.Run("should answer a ping", func(t *testing.T) {
		assert.NoError(t, manager.Ping(ctx))
	})
}

func TestLedgerWriteLock_Postgres(t *testing.T) {
	manager := setupManager(t)
	ctx := context.Background()

	t.Run("should exclude a second holder until release", func(t *testing.T) {
		// Arrange
		lock := manager.WriteLock(time.Minute, idgen.NewUUIDGenerator())
		release, err := lock.Acquire(ctx)
		require.NoError(t, err)

		// Act
		waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_, err = lock.Acquire(waitCtx)

		// Assert
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		release()

		again, err := lock.Acquire(ctx)
		require.NoError(t, err)
		again()
	})

	t.Run("should take over an expired holder", func(t *testing.T) {
		short := manager.WriteLock(50*time.Millisecond, idgen.NewUUIDGenerator())
		_, err := short.Acquire(ctx)
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		release, err := short.Acquire(waitCtx)
		require.NoError(t, err)
		release()
	})

	t.Run("should serialize concurrent writers", func(t *testing.T) {
		// Arrange
		lock := manager.WriteLock(time.Minute, idgen.NewUUIDGenerator())
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			holders int
			maxSeen int
		)

		// Act
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				release, err := lock.Acquire(ctx)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				holders++
				maxSeen = max(maxSeen, holders)
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				holders--
				mu.Unlock()
				release()
			}()
		}
		wg.Wait()

		// Assert
		assert.Equal(t, 1, maxSeen)
	})
}
