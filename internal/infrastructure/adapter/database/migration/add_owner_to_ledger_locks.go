package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// AddOwnerToLedgerLocks adds the owner column to ledger_locks
type AddOwnerToLedgerLocks struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAddOwnerToLedgerLocks creates a new migration instance
func NewAddOwnerToLedgerLocks(db *gorm.DB, logger coreport.Logger) *AddOwnerToLedgerLocks {
	return &AddOwnerToLedgerLocks{
		db:     db,
		logger: logger,
	}
}

// Run executes the migration
func (m *AddOwnerToLedgerLocks) Run(ctx context.Context) error {
	m.logger.Info("Adding owner column to ledger_locks table", nil)

	hasOwner, err := m.columnExists(ctx)
	if err != nil {
		return err
	}
	if hasOwner {
		return nil
	}

	// Existing rows predate owners; they are stale once their expiry passes
	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE ledger_locks ADD COLUMN owner VARCHAR(64) NOT NULL DEFAULT ''`).Error; err != nil {
		m.logger.Error("Failed to add owner column", map[string]any{"error": err.Error()})
		return err
	}

	m.logger.Info("Successfully added owner column to ledger_locks table", nil)
	return nil
}

func (m *AddOwnerToLedgerLocks) columnExists(ctx context.Context) (bool, error) {
	var count int64
	err := m.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_name = 'ledger_locks' AND column_name = 'owner'
	`).Scan(&count).Error
	if err != nil {
		m.logger.Error("Failed to check column existence", map[string]any{"error": err.Error()})
		return false, err
	}
	return count > 0, nil
}
