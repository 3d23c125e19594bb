package persistence

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// NotificationRepository reads and stages the shared notification log
type NotificationRepository interface {
	Load(ctx context.Context) ([]*entity.Notification, error)
	Stage(cs *ChangeSet, notifications []*entity.Notification) error
}

// SettingsRepository holds the single-value collections
type SettingsRepository interface {
	// Notice returns the global ticker text; empty when unset
	Notice(ctx context.Context) (string, error)
	StageNotice(cs *ChangeSet, text string) error

	// Theme returns the saved theme or the default
	Theme(ctx context.Context) (entity.Theme, error)
	StageTheme(cs *ChangeSet, theme entity.Theme) error
}
