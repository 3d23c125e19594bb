package repository

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/model"
)

// TransactionRepository stores each user's ledger as one JSON array under its own key
type TransactionRepository struct {
	store  persistence.Store
	logger coreport.Logger
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(store persistence.Store, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		store:  store,
		logger: logger,
	}
}

// Load returns the ledger of userID in append order; missing ledgers are empty
func (r *TransactionRepository) Load(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	records, _, err := loadCollection[model.Transaction](ctx, r.store, TransactionsKey(userID))
	if err != nil {
		return nil, err
	}

	entries := make([]*entity.Transaction, 0, len(records))
	for _, rec := range records {
		entry, err := rec.ToEntity()
		if err != nil {
			r.logger.Error("Failed to decode transaction record", map[string]any{
				"user_id":        userID,
				"transaction_id": rec.ID,
				"error":          err.Error(),
			})
			return nil, fmt.Errorf("%w: transaction %s: %v", errs.ErrStore, rec.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Stage encodes entries into cs as the ledger of userID
func (r *TransactionRepository) Stage(cs *persistence.ChangeSet, userID string, entries []*entity.Transaction) error {
	records := make([]model.Transaction, 0, len(entries))
	for _, e := range entries {
		records = append(records, model.TransactionFromEntity(e))
	}
	return stageCollection(cs, TransactionsKey(userID), records)
}

// StageDelete removes the ledger of userID
func (r *TransactionRepository) StageDelete(cs *persistence.ChangeSet, userID string) {
	cs.Delete(TransactionsKey(userID))
}

// MatchHistoryRepository stores each user's game history under its own key
type MatchHistoryRepository struct {
	store  persistence.Store
	logger coreport.Logger
}

// NewMatchHistoryRepository creates a new MatchHistoryRepository instance
func NewMatchHistoryRepository(store persistence.Store, logger coreport.Logger) *MatchHistoryRepository {
	return &MatchHistoryRepository{
		store:  store,
		logger: logger,
	}
}

// Load returns the history of userID in append order
func (r *MatchHistoryRepository) Load(ctx context.Context, userID string) ([]*entity.MatchHistory, error) {
	records, _, err := loadCollection[model.MatchHistory](ctx, r.store, GameHistoryKey(userID))
	if err != nil {
		return nil, err
	}

	history := make([]*entity.MatchHistory, 0, len(records))
	for _, rec := range records {
		h, err := rec.ToEntity()
		if err != nil {
			return nil, fmt.Errorf("%w: history %s: %v", errs.ErrStore, rec.ID, err)
		}
		history = append(history, h)
	}
	return history, nil
}

// Stage encodes history into cs for userID
func (r *MatchHistoryRepository) Stage(cs *persistence.ChangeSet, userID string, history []*entity.MatchHistory) error {
	records := make([]model.MatchHistory, 0, len(history))
	for _, h := range history {
		records = append(records, model.MatchHistoryFromEntity(h))
	}
	return stageCollection(cs, GameHistoryKey(userID), records)
}

// StageDelete removes the history of userID
func (r *MatchHistoryRepository) StageDelete(cs *persistence.ChangeSet, userID string) {
	cs.Delete(GameHistoryKey(userID))
}
