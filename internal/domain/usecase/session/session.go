package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// Context caches the signed-in user of the single active session.
// The cache is only ever overwritten from a registry record, never merged field by field.
type Context struct {
	repo persistence.SessionRepository
	mu   sync.RWMutex
	user *entity.User
}

// NewContext creates an empty session context backed by repo
func NewContext(repo persistence.SessionRepository) *Context {
	return &Context{repo: repo}
}

// Load restores the persisted session user into the cache
func (c *Context) Load(ctx context.Context) error {
	user, err := c.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	c.mu.Lock()
	c.user = user
	c.mu.Unlock()
	return nil
}

// Current returns a copy of the session user
func (c *Context) Current() (*entity.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return nil, false
	}
	return c.user.Clone(), true
}

// Require returns the session user or ErrUnauthenticated
func (c *Context) Require() (*entity.User, error) {
	user, ok := c.Current()
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	return user, nil
}

// UserID returns the id of the session user, or "" when signed out
func (c *Context) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.user == nil {
		return ""
	}
	return c.user.ID
}

// Pending is a session change staged alongside a commit and applied once it succeeds
type Pending struct {
	user    *entity.User
	cleared bool
}

// IsZero reports whether nothing was staged
func (p Pending) IsZero() bool {
	return p.user == nil && !p.cleared
}

// StageRefresh stages user as the new session copy if it is the session's own user
func (c *Context) StageRefresh(cs *persistence.ChangeSet, user *entity.User) (Pending, error) {
	if user == nil || user.ID != c.UserID() {
		return Pending{}, nil
	}
	return c.StageSignIn(cs, user)
}

// StageSignIn stages user as the session user regardless of who is signed in
func (c *Context) StageSignIn(cs *persistence.ChangeSet, user *entity.User) (Pending, error) {
	snapshot := user.Clone()
	if err := c.repo.Stage(cs, snapshot); err != nil {
		return Pending{}, err
	}
	return Pending{user: snapshot}, nil
}

// StageSignOut stages the removal of the session user
func (c *Context) StageSignOut(cs *persistence.ChangeSet) Pending {
	c.repo.StageClear(cs)
	return Pending{cleared: true}
}

// Apply publishes a staged change to the cache after its commit succeeded
func (c *Context) Apply(p Pending) {
	if p.IsZero() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if p.cleared {
		c.user = nil
		return
	}
	c.user = p.user
}
