package persistence

import "context"

// Store is a key-value store of opaque blobs with no multi-key transactions.
// Implementations are safe for concurrent use.
type Store interface {
	// Get returns the blob stored under key
	//
	// Possible errors:
	// - ErrKeyNotFound: If key was never written or has been deleted
	// - ErrStore: If the backend fails
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the blob stored under key
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// Write is one staged key mutation
type Write struct {
	Key    string `json:"key"`
	Value  []byte `json:"value,omitempty"`
	Delete bool   `json:"delete,omitempty"`
}

// BatchStore is a Store that can apply several writes all-or-nothing
type BatchStore interface {
	Store

	// ApplyBatch applies writes atomically: either all become visible or none do
	ApplyBatch(ctx context.Context, writes []Write) error
}
