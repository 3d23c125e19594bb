package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// JournalKey holds the intent record of a commit that has not finished applying
const JournalKey = "arena_commit_intent"

// Commit stages reported in CommitError
const (
	StageBatch   = "batch"
	StageJournal = "journal"
	StageApply   = "apply"
)

type journal struct {
	Writes []persistence.Write `json:"writes"`
}

// UnitOfWork commits change sets to a key-value store.
// Batch-capable stores apply the set atomically. Plain stores get a write-ahead journal:
// once the journal is written the commit is decided and Recover rolls it forward.
type UnitOfWork struct {
	store  persistence.Store
	logger coreport.Logger
}

// NewUnitOfWork creates a new UnitOfWork over store
func NewUnitOfWork(store persistence.Store, logger coreport.Logger) *UnitOfWork {
	return &UnitOfWork{
		store:  store,
		logger: logger,
	}
}

// Commit makes every write in cs durable, or reports a CommitError
func (u *UnitOfWork) Commit(ctx context.Context, cs *persistence.ChangeSet) error {
	if cs.Len() == 0 {
		return nil
	}
	writes := cs.Writes()

	if batch, ok := u.store.(persistence.BatchStore); ok {
		if err := batch.ApplyBatch(ctx, writes); err != nil {
			return &errs.CommitError{Stage: StageBatch, Keys: cs.Keys(), Err: err}
		}
		u.logger.Debug("Change set committed", map[string]any{
			"keys": cs.Keys(),
		})
		return nil
	}

	raw, err := json.Marshal(journal{Writes: writes})
	if err != nil {
		return &errs.CommitError{Stage: StageJournal, Keys: cs.Keys(), Err: err}
	}
	if err := u.store.Put(ctx, JournalKey, raw); err != nil {
		return &errs.CommitError{Stage: StageJournal, Keys: cs.Keys(), Err: err}
	}

	if err := u.apply(ctx, writes); err != nil {
		u.logger.Error("Change set partially applied, will roll forward", map[string]any{
			"keys":  cs.Keys(),
			"error": err.Error(),
		})
		return &errs.CommitError{Stage: StageApply, Keys: cs.Keys(), Journaled: true, Err: err}
	}

	u.clearJournal(ctx)
	u.logger.Debug("Change set committed through journal", map[string]any{
		"keys": cs.Keys(),
	})
	return nil
}

// Recover replays a journal left behind by an interrupted commit
func (u *UnitOfWork) Recover(ctx context.Context) error {
	if _, ok := u.store.(persistence.BatchStore); ok {
		return nil
	}

	raw, err := u.store.Get(ctx, JournalKey)
	if err != nil {
		if errors.Is(err, errs.ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("failed to read commit journal: %w", err)
	}

	var j journal
	if err := json.Unmarshal(raw, &j); err != nil {
		return fmt.Errorf("%w: malformed commit journal: %v", errs.ErrStore, err)
	}

	u.logger.Warn("Replaying interrupted commit", map[string]any{
		"writes": len(j.Writes),
	})
	if err := u.apply(ctx, j.Writes); err != nil {
		return &errs.CommitError{Stage: StageApply, Keys: journalKeys(j.Writes), Journaled: true, Err: err}
	}

	u.clearJournal(ctx)
	return nil
}

func (u *UnitOfWork) apply(ctx context.Context, writes []persistence.Write) error {
	for _, w := range writes {
		var err error
		if w.Delete {
			err = u.store.Delete(ctx, w.Key)
		} else {
			err = u.store.Put(ctx, w.Key, w.Value)
		}
		if err != nil {
			return fmt.Errorf("key %s: %w", w.Key, err)
		}
	}
	return nil
}

// clearJournal drops the journal; a leftover journal is replayed harmlessly by Recover
func (u *UnitOfWork) clearJournal(ctx context.Context) {
	if err := u.store.Delete(ctx, JournalKey); err != nil {
		u.logger.Warn("Failed to clear commit journal", map[string]any{
			"error": err.Error(),
		})
	}
}

func journalKeys(writes []persistence.Write) []string {
	keys := make([]string, len(writes))
	for i, w := range writes {
		keys[i] = w.Key
	}
	return keys
}
