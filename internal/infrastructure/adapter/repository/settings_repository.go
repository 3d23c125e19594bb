package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/model"
)

// NotificationRepository stores the shared notification log as one JSON array
type NotificationRepository struct {
	store persistence.Store
}

// NewNotificationRepository creates a new NotificationRepository instance
func NewNotificationRepository(store persistence.Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// Load returns the log, newest first
func (r *NotificationRepository) Load(ctx context.Context) ([]*entity.Notification, error) {
	records, _, err := loadCollection[model.Notification](ctx, r.store, KeyNotifications)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Notification, 0, len(records))
	for _, rec := range records {
		list = append(list, rec.ToEntity())
	}
	return list, nil
}

// Stage encodes the log into cs
func (r *NotificationRepository) Stage(cs *persistence.ChangeSet, notifications []*entity.Notification) error {
	records := make([]model.Notification, 0, len(notifications))
	for _, n := range notifications {
		records = append(records, model.NotificationFromEntity(n))
	}
	return stageCollection(cs, KeyNotifications, records)
}

// SettingsRepository stores the global notice and the theme as plain strings
type SettingsRepository struct {
	store persistence.Store
}

// NewSettingsRepository creates a new SettingsRepository instance
func NewSettingsRepository(store persistence.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Notice returns the ticker text, empty when never set
func (r *SettingsRepository) Notice(ctx context.Context) (string, error) {
	return r.getString(ctx, KeyNotice)
}

// StageNotice stages the ticker text; an empty text removes the key
func (r *SettingsRepository) StageNotice(cs *persistence.ChangeSet, text string) error {
	if text == "" {
		cs.Delete(KeyNotice)
		return nil
	}
	cs.Put(KeyNotice, []byte(text))
	return nil
}

// Theme returns the saved theme, or the default when absent or unknown
func (r *SettingsRepository) Theme(ctx context.Context) (entity.Theme, error) {
	value, err := r.getString(ctx, KeyTheme)
	if err != nil {
		return "", err
	}
	if !entity.IsValidTheme(value) {
		return entity.DefaultTheme, nil
	}
	return entity.Theme(value), nil
}

// StageTheme stages the theme preference
func (r *SettingsRepository) StageTheme(cs *persistence.ChangeSet, theme entity.Theme) error {
	if !entity.IsValidTheme(string(theme)) {
		return errs.NewValidationError("theme", string(theme))
	}
	cs.Put(KeyTheme, []byte(theme))
	return nil
}

func (r *SettingsRepository) getString(ctx context.Context, key string) (string, error) {
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, errs.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(raw), nil
}
