package migration

import (
	"context"

	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes and table settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates the indexes the store and lock queries rely on
func (m *AdvancedIndexManager) CreateAdvancedIndexes(ctx context.Context) error {
	m.logger.Info("Creating PostgreSQL indexes", nil)

	statements := []struct {
		name string
		sql  string
	}{
		{
			// Prefix scans over per-user partitions such as arena_transactions/<id>
			name: "idx_kv_entries_key_pattern",
			sql:  `CREATE INDEX IF NOT EXISTS idx_kv_entries_key_pattern ON kv_entries (key text_pattern_ops)`,
		},
		{
			name: "idx_ledger_locks_expires_at",
			sql:  `CREATE INDEX IF NOT EXISTS idx_ledger_locks_expires_at ON ledger_locks (expires_at)`,
		},
	}

	for _, stmt := range statements {
		if err := m.db.WithContext(ctx).Exec(stmt.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": stmt.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL table settings; failures are logged only
func (m *AdvancedIndexManager) CreatePerformanceTweaks(ctx context.Context) {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// Whole-collection overwrites update rows in place; leave room for HOT updates
	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE kv_entries SET (fillfactor = 70)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for kv_entries table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := m.db.WithContext(ctx).Exec(`ALTER TABLE ledger_locks SET (fillfactor = 50)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for ledger_locks table", map[string]any{
			"error": err.Error(),
		})
	}
}
