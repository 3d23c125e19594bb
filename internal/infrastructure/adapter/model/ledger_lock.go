package model

import (
	"time"
)

// LedgerLock is the row behind the store-wide write lock
type LedgerLock struct {
	Name      string    `gorm:"primaryKey;size:64"`
	Owner     string    `gorm:"not null;size:64"`
	LockedAt  time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName specifies the table name for LedgerLock
func (LedgerLock) TableName() string {
	return "ledger_locks"
}
