package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

func TestErrorClassifier_Classify(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ""},
		{name: "unique violation", err: errors.New(`ERROR: duplicate key value violates unique constraint "kv_entries_pkey"`), want: DuplicateKeyError},
		{name: "serialization failure", err: errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"), want: LockError},
		{name: "deadlock", err: errors.New("ERROR: deadlock detected"), want: LockError},
		{name: "reset connection", err: errors.New("read tcp: connection reset by peer"), want: TransientError},
		{name: "unexpected eof", err: errors.New("unexpected EOF"), want: TransientError},
		{name: "dial failure", err: errors.New("dial tcp 10.0.0.1:5432: no route to host"), want: ConnectionError},
		{name: "not null", err: errors.New(`null value in column "value" violates not-null constraint`), want: ConstraintError},
		{name: "unrelated", err: errors.New("syntax error at or near SELECT"), want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifier.Classify(tc.err))
		})
	}
}

func TestErrorClassifier_IsRetryable(t *testing.T) {
	classifier := NewErrorClassifier()

	assert.True(t, classifier.IsRetryable(errors.New("could not serialize access")))
	assert.True(t, classifier.IsRetryable(errors.New("i/o timeout")))
	assert.False(t, classifier.IsRetryable(errors.New("duplicate key value")))
	assert.False(t, classifier.IsRetryable(nil))
}

func TestErrorMapper_MapError(t *testing.T) {
	mapper := NewErrorMapper()

	t.Run("should pass nil through", func(t *testing.T) {
		assert.NoError(t, mapper.MapError(nil, "get"))
	})

	t.Run("should map a missing record to a missing key", func(t *testing.T) {
		err := mapper.MapError(fmt.Errorf("take: %w", gorm.ErrRecordNotFound), "get k")
		assert.ErrorIs(t, err, errs.ErrKeyNotFound)
	})

	t.Run("should keep context errors", func(t *testing.T) {
		err := mapper.MapError(context.DeadlineExceeded, "put k")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, errs.ErrStore)
	})

	t.Run("should report contention as busy", func(t *testing.T) {
		err := mapper.MapError(errors.New("deadlock detected"), "apply batch")
		assert.ErrorIs(t, err, errs.ErrBusy)
		assert.Equal(t, errs.KindBusy, errs.KindOf(err))
	})

	t.Run("should report anything else as a store failure", func(t *testing.T) {
		err := mapper.MapError(errors.New("connection refused"), "put k")
		assert.ErrorIs(t, err, errs.ErrStore)
		assert.Contains(t, err.Error(), "unreachable")

		err = mapper.MapError(errors.New("permission denied for table kv_entries"), "put k")
		assert.ErrorIs(t, err, errs.ErrStore)
	})
}
