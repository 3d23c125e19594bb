package persistence

import "context"

// Release gives a held write lock back; calling it more than once is harmless
type Release func()

// WriteLock serializes compound ledger operations
type WriteLock interface {
	// Acquire blocks until the lock is held or ctx is done
	//
	// Possible errors:
	// - context.DeadlineExceeded / context.Canceled: If ctx ends first
	// - ErrStore: If a store-backed lock cannot reach its backend
	Acquire(ctx context.Context) (Release, error)
}
