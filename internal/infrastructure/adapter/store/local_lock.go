package store

import (
	"context"
	"sync"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// LocalWriteLock serializes writers inside one process
type LocalWriteLock struct {
	sem chan struct{}
}

// NewLocalWriteLock creates an unlocked LocalWriteLock
func NewLocalWriteLock() *LocalWriteLock {
	return &LocalWriteLock{sem: make(chan struct{}, 1)}
}

// Acquire blocks until the lock is held or ctx is done
func (l *LocalWriteLock) Acquire(ctx context.Context) (persistence.Release, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-l.sem })
	}, nil
}
