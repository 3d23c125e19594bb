package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/model"
)

// UserRepository stores the user registry as one JSON array
type UserRepository struct {
	store  persistence.Store
	seeder *Seeder
	logger coreport.Logger
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(store persistence.Store, seeder *Seeder, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		store:  store,
		seeder: seeder,
		logger: logger,
	}
}

// Load returns the registry; a never-written registry loads as the seed
func (r *UserRepository) Load(ctx context.Context) (entity.UserList, error) {
	records, found, err := loadCollection[model.User](ctx, r.store, KeyUsersRegistry)
	if err != nil {
		return nil, err
	}
	if !found {
		r.logger.Debug("User registry absent, using seed", nil)
		return r.seeder.Users()
	}

	users := make(entity.UserList, 0, len(records))
	for _, rec := range records {
		user, err := rec.ToEntity()
		if err != nil {
			return nil, r.decodeError(rec.ID, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// Stage encodes users into cs as the new registry
func (r *UserRepository) Stage(cs *persistence.ChangeSet, users entity.UserList) error {
	return stageCollection(cs, KeyUsersRegistry, usersToModels(users))
}

func (r *UserRepository) decodeError(userID string, err error) error {
	r.logger.Error("Failed to decode user record", map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})
	return fmt.Errorf("%w: user %s: %v", errs.ErrStore, userID, err)
}

func usersToModels(users entity.UserList) []model.User {
	records := make([]model.User, 0, len(users))
	for _, u := range users {
		records = append(records, model.UserFromEntity(u))
	}
	return records
}

// SessionRepository stores the signed-in user as one JSON object
type SessionRepository struct {
	store  persistence.Store
	logger coreport.Logger
}

// NewSessionRepository creates a new SessionRepository instance
func NewSessionRepository(store persistence.Store, logger coreport.Logger) *SessionRepository {
	return &SessionRepository{
		store:  store,
		logger: logger,
	}
}

// Load returns the session user, or nil when nobody is signed in
func (r *SessionRepository) Load(ctx context.Context) (*entity.User, error) {
	raw, err := r.store.Get(ctx, KeySessionUser)
	if err != nil {
		if errors.Is(err, errs.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", KeySessionUser, err)
	}

	var rec *model.User
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: malformed %s: %v", errs.ErrStore, KeySessionUser, err)
	}
	if rec == nil {
		return nil, nil
	}

	user, err := rec.ToEntity()
	if err != nil {
		return nil, fmt.Errorf("%w: session user: %v", errs.ErrStore, err)
	}
	r.logger.Debug("Session restored", map[string]any{
		"user_id": user.ID,
	})
	return user, nil
}

// Stage writes user as the session user
func (r *SessionRepository) Stage(cs *persistence.ChangeSet, user *entity.User) error {
	raw, err := json.Marshal(model.UserFromEntity(user))
	if err != nil {
		return fmt.Errorf("%w: failed to encode session user: %v", errs.ErrInternal, err)
	}
	cs.Put(KeySessionUser, raw)
	return nil
}

// StageClear removes the session user
func (r *SessionRepository) StageClear(cs *persistence.ChangeSet) {
	cs.Delete(KeySessionUser)
}
