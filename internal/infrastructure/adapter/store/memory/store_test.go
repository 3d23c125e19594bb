package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should report a missing key", func(t *testing.T) {
		_, err := NewStore().Get(ctx, "nope")
		assert.ErrorIs(t, err, errs.ErrKeyNotFound)
	})

	t.Run("should copy values in and out", func(t *testing.T) {
		// Arrange
		s := NewStore()
		value := []byte("hello")
		require.NoError(t, s.Put(ctx, "k", value))

		// Act
		value[0] = 'j'
		got, err := s.Get(ctx, "k")
		require.NoError(t, err)
		got[1] = 'a'

		// Assert
		again, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "hello", string(again))
	})

	t.Run("should delete idempotently", func(t *testing.T) {
		s := NewStore()
		require.NoError(t, s.Put(ctx, "k", []byte("v")))

		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))

		_, err := s.Get(ctx, "k")
		assert.ErrorIs(t, err, errs.ErrKeyNotFound)
	})

	t.Run("should apply a batch of puts and deletes", func(t *testing.T) {
		// Arrange
		s := NewStore()
		require.NoError(t, s.Put(ctx, "old", []byte("x")))

		// Act
		err := s.ApplyBatch(ctx, []persistence.Write{
			{Key: "b", Value: []byte("2")},
			{Key: "old", Delete: true},
			{Key: "a", Value: []byte("1")},
		})

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, s.Keys())
	})
}
