package database

import (
	"context"
	"time"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LedgerLockName names the single row that guards ledger writes
const LedgerLockName = "ledger"

// LedgerWriteLock is a store-wide write lock held as a row with an expiry
type LedgerWriteLock struct {
	db           *gorm.DB
	ttl          time.Duration
	pollInterval time.Duration
	ids          coreport.IDGenerator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	errorMapper  *ErrorMapper
}

// NewLedgerWriteLock creates a LedgerWriteLock; ttl bounds how long a crashed holder blocks others
func NewLedgerWriteLock(
	db *gorm.DB,
	ttl time.Duration,
	ids coreport.IDGenerator,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *LedgerWriteLock {
	return &LedgerWriteLock{
		db:           db,
		ttl:          ttl,
		pollInterval: 10 * time.Millisecond,
		ids:          ids,
		timeProvider: timeProvider,
		logger:       logger,
		errorMapper:  NewErrorMapper(),
	}
}

// Acquire polls until the lock row is free or expired, or ctx is done
func (l *LedgerWriteLock) Acquire(ctx context.Context) (persistence.Release, error) {
	owner := l.ids.NewID()
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		acquired, err := l.tryAcquire(ctx, owner)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, l.errorMapper.MapError(err, "acquire ledger lock")
		}
		if acquired {
			return l.releaser(owner), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *LedgerWriteLock) tryAcquire(ctx context.Context, owner string) (bool, error) {
	now := l.timeProvider.Now()
	expiresAt := now.Add(l.ttl)

	// The conflict update only fires when the current holder has expired
	result := l.db.WithContext(ctx).Exec(`
		INSERT INTO ledger_locks (name, owner, locked_at, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE
		SET owner = EXCLUDED.owner,
		    locked_at = EXCLUDED.locked_at,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = EXCLUDED.updated_at
		WHERE ledger_locks.expires_at <= ?`,
		LedgerLockName, owner, now, expiresAt, now, now,
		now,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (l *LedgerWriteLock) releaser(owner string) persistence.Release {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := l.db.WithContext(ctx).
			Where("name = ? AND owner = ?", LedgerLockName, owner).
			Delete(&model.LedgerLock{}).Error
		if err != nil {
			l.logger.Warn("Failed to release ledger lock, it will expire", map[string]any{
				"owner": owner,
				"error": err.Error(),
			})
		}
	}
}
