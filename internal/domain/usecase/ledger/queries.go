package ledger

import (
	"context"
	"slices"
	"strings"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// Read operations load committed state without taking the write lock.

// CurrentUser returns a copy of the signed-in user
func (e *Engine) CurrentUser() (*entity.User, error) {
	return e.session.Require()
}

// GetUser returns the registry record of userID
func (e *Engine) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	users, err := e.repos.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := users.ByID(userID)
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

// ListUsers returns the whole registry to an administrator
func (e *Engine) ListUsers(ctx context.Context, actorID string) (entity.UserList, error) {
	users, err := e.repos.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	actor, ok := users.ByID(actorID)
	if !ok {
		return nil, errs.ErrUnauthenticated
	}
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return users, nil
}

// ListTournaments returns the catalog in display order
func (e *Engine) ListTournaments(ctx context.Context) (entity.TournamentList, error) {
	return e.repos.Tournaments.Load(ctx)
}

// GetTournament returns one tournament of the catalog
func (e *Engine) GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error) {
	tournaments, err := e.repos.Tournaments.Load(ctx)
	if err != nil {
		return nil, err
	}
	tournament, ok := tournaments.ByID(tournamentID)
	if !ok {
		return nil, errs.ErrTournamentNotFound
	}
	return tournament, nil
}

// MyTournaments returns the tournaments userID joined, earliest start first.
// Ids of deleted tournaments are skipped.
func (e *Engine) MyTournaments(ctx context.Context, userID string) (entity.TournamentList, error) {
	user, err := e.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	tournaments, err := e.repos.Tournaments.Load(ctx)
	if err != nil {
		return nil, err
	}

	mine := make(entity.TournamentList, 0, len(user.JoinedMatchIDs()))
	for _, t := range tournaments {
		if user.HasJoined(t.ID) {
			mine = append(mine, t)
		}
	}
	slices.SortStableFunc(mine, func(a, b *entity.Tournament) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return mine, nil
}

// ListTransactions returns the ledger of userID, newest first
func (e *Engine) ListTransactions(ctx context.Context, userID string) ([]*entity.Transaction, error) {
	if _, err := e.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	entries, err := e.repos.Transactions.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(entries)
	return entries, nil
}

// GameHistory returns the match history of userID, newest first
func (e *Engine) GameHistory(ctx context.Context, userID string) ([]*entity.MatchHistory, error) {
	if _, err := e.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	history, err := e.repos.History.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(history)
	return history, nil
}

// ListNotifications returns the shared notification log
func (e *Engine) ListNotifications(ctx context.Context) ([]*entity.Notification, error) {
	return e.repos.Notifications.Load(ctx)
}

// GlobalNotice returns the ticker text, empty when unset
func (e *Engine) GlobalNotice(ctx context.Context) (string, error) {
	notice, err := e.repos.Settings.Notice(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(notice), nil
}

// Theme returns the persisted theme or the default
func (e *Engine) Theme(ctx context.Context) (entity.Theme, error) {
	return e.repos.Settings.Theme(ctx)
}

// FindUserByName returns the registry record with handle name
func (e *Engine) FindUserByName(ctx context.Context, name string) (*entity.User, error) {
	users, err := e.repos.Users.Load(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := users.ByName(name)
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

// CheckAvailable reports a Conflict when name or phone is already registered, or name
// already holds a seat in some tournament
func (e *Engine) CheckAvailable(ctx context.Context, name, phone string) error {
	users, err := e.repos.Users.Load(ctx)
	if err != nil {
		return err
	}
	if _, taken := users.ByName(name); taken {
		return errs.ErrDuplicateHandle
	}
	if _, taken := users.ByPhone(phone); taken {
		return errs.ErrDuplicatePhone
	}
	tournaments, err := e.repos.Tournaments.Load(ctx)
	if err != nil {
		return err
	}
	if tournaments.HoldsSeat(name) {
		return errs.ErrHandleHoldsSeat
	}
	return nil
}

// Validator returns the input validator bound to the engine policy
func (e *Engine) Validator() *Validator {
	return e.validator
}
