package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store/memory"
)

var errWriteFailed = errors.New("write failed")

// plainStore hides ApplyBatch so commits take the journal path
type plainStore struct {
	inner   *memory.Store
	failKey string
	puts    []string
}

func (s *plainStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, key)
}

func (s *plainStore) Put(ctx context.Context, key string, value []byte) error {
	if key == s.failKey {
		return errWriteFailed
	}
	s.puts = append(s.puts, key)
	return s.inner.Put(ctx, key, value)
}

func (s *plainStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// failingBatchStore rejects every batch
type failingBatchStore struct {
	*memory.Store
}

func (s failingBatchStore) ApplyBatch(context.Context, []persistence.Write) error {
	return errWriteFailed
}

func changeSet() *persistence.ChangeSet {
	cs := persistence.NewChangeSet()
	cs.Put("a", []byte("1"))
	cs.Put("b", []byte("2"))
	cs.Delete("stale")
	return cs
}

func TestUnitOfWork_Commit(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply every write through a batch store", func(t *testing.T) {
		// Arrange
		kv := memory.NewStore()
		require.NoError(t, kv.Put(ctx, "stale", []byte("x")))
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		// Act
		err := uow.Commit(ctx, changeSet())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, kv.Keys())
	})

	t.Run("should report a rejected batch without touching the store", func(t *testing.T) {
		// Arrange
		kv := failingBatchStore{memory.NewStore()}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		// Act
		err := uow.Commit(ctx, changeSet())

		// Assert
		var commitErr *errs.CommitError
		require.ErrorAs(t, err, &commitErr)
		assert.Equal(t, StageBatch, commitErr.Stage)
		assert.False(t, commitErr.Journaled)
		assert.ErrorIs(t, err, errs.ErrStore)
		assert.ErrorIs(t, err, errWriteFailed)
		assert.Empty(t, kv.Keys())
	})

	t.Run("should journal first and clear the journal on a plain store", func(t *testing.T) {
		// Arrange
		kv := &plainStore{inner: memory.NewStore()}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		// Act
		err := uow.Commit(ctx, changeSet())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{JournalKey, "a", "b"}, kv.puts)
		assert.Equal(t, []string{"a", "b"}, kv.inner.Keys())
	})

	t.Run("should leave the store untouched when the journal cannot be written", func(t *testing.T) {
		// Arrange
		kv := &plainStore{inner: memory.NewStore(), failKey: JournalKey}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		// Act
		err := uow.Commit(ctx, changeSet())

		// Assert
		var commitErr *errs.CommitError
		require.ErrorAs(t, err, &commitErr)
		assert.Equal(t, StageJournal, commitErr.Stage)
		assert.False(t, commitErr.Journaled)
		assert.Empty(t, kv.inner.Keys())
	})

	t.Run("should keep the journal when applying fails midway", func(t *testing.T) {
		// Arrange
		kv := &plainStore{inner: memory.NewStore(), failKey: "b"}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		// Act
		err := uow.Commit(ctx, changeSet())

		// Assert
		var commitErr *errs.CommitError
		require.ErrorAs(t, err, &commitErr)
		assert.Equal(t, StageApply, commitErr.Stage)
		assert.True(t, commitErr.Journaled)
		assert.Equal(t, []string{"a", "b", "stale"}, commitErr.Keys)
		assert.Equal(t, []string{"a", JournalKey}, kv.inner.Keys())
	})

	t.Run("should do nothing for an empty change set", func(t *testing.T) {
		kv := &plainStore{inner: memory.NewStore()}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		require.NoError(t, uow.Commit(ctx, persistence.NewChangeSet()))
		assert.Empty(t, kv.puts)
	})
}

func TestUnitOfWork_Recover(t *testing.T) {
	ctx := context.Background()

	t.Run("should roll a journaled commit forward", func(t *testing.T) {
		// Arrange
		kv := &plainStore{inner: memory.NewStore(), failKey: "b"}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())
		require.Error(t, uow.Commit(ctx, changeSet()))
		kv.failKey = ""

		// Act
		err := uow.Recover(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, kv.inner.Keys())
		value, err := kv.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "2", string(value))
	})

	t.Run("should report a replay that fails again and keep the journal", func(t *testing.T) {
		// Arrange
		kv := &plainStore{inner: memory.NewStore(), failKey: "b"}
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())
		require.Error(t, uow.Commit(ctx, changeSet()))

		// Act
		err := uow.Recover(ctx)

		// Assert
		var commitErr *errs.CommitError
		require.ErrorAs(t, err, &commitErr)
		assert.True(t, commitErr.Journaled)
		_, err = kv.Get(ctx, JournalKey)
		assert.NoError(t, err)
	})

	t.Run("should reject a corrupt journal", func(t *testing.T) {
		kv := &plainStore{inner: memory.NewStore()}
		require.NoError(t, kv.Put(ctx, JournalKey, []byte("{not json")))
		uow := NewUnitOfWork(kv, logger.NewNoopLogger())

		err := uow.Recover(ctx)
		assert.ErrorIs(t, err, errs.ErrStore)
	})

	t.Run("should be a no-op without a journal", func(t *testing.T) {
		uow := NewUnitOfWork(&plainStore{inner: memory.NewStore()}, logger.NewNoopLogger())
		assert.NoError(t, uow.Recover(ctx))
	})
}

func TestLocalWriteLock(t *testing.T) {
	t.Run("should block a second holder until released", func(t *testing.T) {
		// Arrange
		lock := NewLocalWriteLock()
		release, err := lock.Acquire(context.Background())
		require.NoError(t, err)

		// Act
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = lock.Acquire(ctx)

		// Assert
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		release()
		release()
		again, err := lock.Acquire(context.Background())
		require.NoError(t, err)
		again()
	})
}
