package persistence

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// UserRepository reads and stages the whole user registry
type UserRepository interface {
	// Load returns the registry; a never-written registry loads as the seed
	//
	// Possible errors:
	// - ErrStore: If the store fails or the blob cannot be decoded
	Load(ctx context.Context) (entity.UserList, error)

	// Stage encodes users into cs as the new registry
	Stage(cs *ChangeSet, users entity.UserList) error
}

// SessionRepository persists the single signed-in user
type SessionRepository interface {
	// Load returns the session user, or nil when nobody is signed in
	Load(ctx context.Context) (*entity.User, error)

	// Stage writes user as the session user
	Stage(cs *ChangeSet, user *entity.User) error

	// StageClear removes the session user
	StageClear(cs *ChangeSet)
}
