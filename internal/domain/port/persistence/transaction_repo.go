package persistence

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// TransactionRepository reads and stages per-user transaction ledgers
type TransactionRepository interface {
	// Load returns the ledger of userID in append order; missing ledgers are empty
	Load(ctx context.Context, userID string) ([]*entity.Transaction, error)

	// Stage encodes entries into cs as the ledger of userID
	Stage(cs *ChangeSet, userID string, entries []*entity.Transaction) error

	// StageDelete removes the ledger of userID
	StageDelete(cs *ChangeSet, userID string)
}

// MatchHistoryRepository reads and stages per-user match history
type MatchHistoryRepository interface {
	Load(ctx context.Context, userID string) ([]*entity.MatchHistory, error)
	Stage(cs *ChangeSet, userID string, history []*entity.MatchHistory) error
	StageDelete(cs *ChangeSet, userID string)
}
