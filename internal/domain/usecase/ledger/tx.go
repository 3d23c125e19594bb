package ledger

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/session"
)

// tx is the working state of one compound operation: collections are read once,
// mutated in memory and staged into a single change set.
type tx struct {
	ctx     context.Context
	e       *Engine
	cs      *persistence.ChangeSet
	pending session.Pending

	users       entity.UserList
	tournaments entity.TournamentList
	ledgers     map[string][]*entity.Transaction
	histories   map[string][]*entity.MatchHistory
}

func newTx(ctx context.Context, e *Engine) *tx {
	return &tx{
		ctx:       ctx,
		e:         e,
		cs:        persistence.NewChangeSet(),
		ledgers:   make(map[string][]*entity.Transaction),
		histories: make(map[string][]*entity.MatchHistory),
	}
}

func (t *tx) Users() (entity.UserList, error) {
	if t.users == nil {
		users, err := t.e.repos.Users.Load(t.ctx)
		if err != nil {
			return nil, err
		}
		t.users = users
	}
	return t.users, nil
}

func (t *tx) User(id string) (*entity.User, error) {
	users, err := t.Users()
	if err != nil {
		return nil, err
	}
	user, ok := users.ByID(id)
	if !ok {
		return nil, errs.ErrUserNotFound
	}
	return user, nil
}

// Admin loads actorID and checks it holds the admin role in the registry
func (t *tx) Admin(actorID string) (*entity.User, error) {
	actor, err := t.User(actorID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return nil, errs.ErrUnauthenticated
		}
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	return actor, nil
}

func (t *tx) Tournaments() (entity.TournamentList, error) {
	if t.tournaments == nil {
		tournaments, err := t.e.repos.Tournaments.Load(t.ctx)
		if err != nil {
			return nil, err
		}
		t.tournaments = tournaments
	}
	return t.tournaments, nil
}

func (t *tx) Tournament(id string) (*entity.Tournament, error) {
	tournaments, err := t.Tournaments()
	if err != nil {
		return nil, err
	}
	tournament, ok := tournaments.ByID(id)
	if !ok {
		return nil, errs.ErrTournamentNotFound
	}
	return tournament, nil
}

// SaveUsers stages the registry and refreshes the session copy of any touched user
func (t *tx) SaveUsers(touched ...*entity.User) error {
	if err := t.e.repos.Users.Stage(t.cs, t.users); err != nil {
		return err
	}
	for _, u := range touched {
		if err := t.refreshSession(u); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceUsers swaps the registry contents before staging
func (t *tx) ReplaceUsers(users entity.UserList) {
	t.users = users
}

// refreshSession overwrites the session copy when u is the session user
func (t *tx) refreshSession(u *entity.User) error {
	pending, err := t.e.session.StageRefresh(t.cs, u)
	if err != nil {
		return err
	}
	if !pending.IsZero() {
		t.pending = pending
	}
	return nil
}

func (t *tx) SignIn(u *entity.User) error {
	pending, err := t.e.session.StageSignIn(t.cs, u)
	if err != nil {
		return err
	}
	t.pending = pending
	return nil
}

func (t *tx) SignOut() {
	t.pending = t.e.session.StageSignOut(t.cs)
}

func (t *tx) SaveTournaments(tournaments entity.TournamentList) error {
	t.tournaments = tournaments
	return t.e.repos.Tournaments.Stage(t.cs, tournaments)
}

func (t *tx) Ledger(userID string) ([]*entity.Transaction, error) {
	if entries, ok := t.ledgers[userID]; ok {
		return entries, nil
	}
	entries, err := t.e.repos.Transactions.Load(t.ctx, userID)
	if err != nil {
		return nil, err
	}
	t.ledgers[userID] = entries
	return entries, nil
}

// AppendTransaction records a successful ledger entry for userID
func (t *tx) AppendTransaction(userID string, txType entity.TransactionType, amount int64, reference string) (*entity.Transaction, error) {
	entries, err := t.Ledger(userID)
	if err != nil {
		return nil, err
	}

	entry, err := entity.NewTransaction(t.e.ids.NewID(), userID, txType, amount, reference, t.e.timeProvider)
	if err != nil {
		return nil, err
	}

	entries = append(entries, entry)
	t.ledgers[userID] = entries
	if err := t.e.repos.Transactions.Stage(t.cs, userID, entries); err != nil {
		return nil, err
	}
	return entry, nil
}

func (t *tx) History(userID string) ([]*entity.MatchHistory, error) {
	if history, ok := t.histories[userID]; ok {
		return history, nil
	}
	history, err := t.e.repos.History.Load(t.ctx, userID)
	if err != nil {
		return nil, err
	}
	t.histories[userID] = history
	return history, nil
}

func (t *tx) SaveHistory(userID string, history []*entity.MatchHistory) error {
	t.histories[userID] = history
	return t.e.repos.History.Stage(t.cs, userID, history)
}

// Notify prepends a notification to the shared log
func (t *tx) Notify(title, message string, nType entity.NotificationType) (*entity.Notification, error) {
	list, err := t.e.repos.Notifications.Load(t.ctx)
	if err != nil {
		return nil, err
	}

	n := &entity.Notification{
		ID:      t.e.ids.NewID(),
		Title:   title,
		Message: message,
		Type:    nType,
		Date:    t.e.timeProvider.Now(),
	}
	list = append([]*entity.Notification{n}, list...)
	if err := t.e.repos.Notifications.Stage(t.cs, list); err != nil {
		return nil, err
	}
	return n, nil
}
