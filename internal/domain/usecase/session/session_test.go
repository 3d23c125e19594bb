package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store/memory"
	timeProvider "github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/time"
)

func newUser(t *testing.T, id, name string) *entity.User {
	t.Helper()
	clock := timeProvider.NewManualTimeProvider(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	user, err := entity.NewUser(id, name, name, "01711111111", "", "", entity.RoleUser, entity.WholeUnits(100), clock)
	require.NoError(t, err)
	return user
}

func TestContext(t *testing.T) {
	ctx := context.Background()

	commit := func(t *testing.T, kv *memory.Store, cs *persistence.ChangeSet) {
		t.Helper()
		require.NoError(t, kv.ApplyBatch(ctx, cs.Writes()))
	}

	t.Run("should start signed out", func(t *testing.T) {
		c := NewContext(repository.NewSessionRepository(memory.NewStore(), logger.NewNoopLogger()))
		require.NoError(t, c.Load(ctx))

		_, ok := c.Current()
		assert.False(t, ok)
		assert.Empty(t, c.UserID())
		_, err := c.Require()
		assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	})

	t.Run("should publish a sign-in only when applied", func(t *testing.T) {
		// Arrange
		kv := memory.NewStore()
		c := NewContext(repository.NewSessionRepository(kv, logger.NewNoopLogger()))
		cs := persistence.NewChangeSet()

		// Act
		pending, err := c.StageSignIn(cs, newUser(t, "u-1", "tarek"))
		require.NoError(t, err)

		// Assert
		assert.Empty(t, c.UserID())
		commit(t, kv, cs)
		c.Apply(pending)
		assert.Equal(t, "u-1", c.UserID())

		reloaded := NewContext(repository.NewSessionRepository(kv, logger.NewNoopLogger()))
		require.NoError(t, reloaded.Load(ctx))
		assert.Equal(t, "u-1", reloaded.UserID())
	})

	t.Run("should refresh only the session's own user", func(t *testing.T) {
		// Arrange
		kv := memory.NewStore()
		c := NewContext(repository.NewSessionRepository(kv, logger.NewNoopLogger()))
		signIn := persistence.NewChangeSet()
		pending, err := c.StageSignIn(signIn, newUser(t, "u-1", "tarek"))
		require.NoError(t, err)
		c.Apply(pending)

		// Act
		other := persistence.NewChangeSet()
		ignored, err := c.StageRefresh(other, newUser(t, "u-2", "sakib"))
		require.NoError(t, err)

		self := newUser(t, "u-1", "tarek")
		self.Credit(entity.WholeUnits(50), timeProvider.NewManualTimeProvider(time.Now()))
		own := persistence.NewChangeSet()
		refreshed, err := c.StageRefresh(own, self)
		require.NoError(t, err)

		// Assert
		assert.True(t, ignored.IsZero())
		assert.Zero(t, other.Len())
		assert.False(t, refreshed.IsZero())
		assert.Equal(t, []string{repository.KeySessionUser}, own.Keys())

		c.Apply(refreshed)
		current, err := c.Require()
		require.NoError(t, err)
		assert.Equal(t, "150.00", current.GetWallet())
	})

	t.Run("should hand out copies", func(t *testing.T) {
		c := NewContext(repository.NewSessionRepository(memory.NewStore(), logger.NewNoopLogger()))
		pending, err := c.StageSignIn(persistence.NewChangeSet(), newUser(t, "u-1", "tarek"))
		require.NoError(t, err)
		c.Apply(pending)

		first, _ := c.Current()
		first.Name = "mallory"

		second, _ := c.Current()
		assert.Equal(t, "tarek", second.Name)
	})

	t.Run("should clear on sign-out", func(t *testing.T) {
		kv := memory.NewStore()
		c := NewContext(repository.NewSessionRepository(kv, logger.NewNoopLogger()))
		cs := persistence.NewChangeSet()
		pending, err := c.StageSignIn(cs, newUser(t, "u-1", "tarek"))
		require.NoError(t, err)
		commit(t, kv, cs)
		c.Apply(pending)

		out := persistence.NewChangeSet()
		c.Apply(c.StageSignOut(out))
		commit(t, kv, out)

		assert.Empty(t, c.UserID())
		_, err = kv.Get(ctx, repository.KeySessionUser)
		assert.ErrorIs(t, err, errs.ErrKeyNotFound)
	})
}
