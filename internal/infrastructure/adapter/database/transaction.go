package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithSerializableTx runs fn in a SERIALIZABLE transaction; fn's error rolls it back
func WithSerializableTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL SERIALIZABLE").Error; err != nil {
			return fmt.Errorf("failed to set transaction isolation level: %w", err)
		}
		return fn(tx)
	})
}
