package usecase

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/ledger"
)

// LedgerUseCase defines the ledger engine operations exposed to the presentation layer.
// Mutations take the acting or target user id explicitly; the session is never implied.
type LedgerUseCase interface {
	// CurrentUser returns a copy of the signed-in user
	//
	// Possible errors:
	// - ErrUnauthenticated: If nobody is signed in
	CurrentUser() (*entity.User, error)

	// JoinTournament charges the entry fee and takes a slot; a repeated join is a no-op
	//
	// Possible errors:
	// - ErrUserNotFound, ErrTournamentNotFound: If either id is unknown
	// - ErrUnavailable: If the tournament is full or not open
	// - ErrInsufficientFunds: If the wallet cannot cover the entry fee
	JoinTournament(ctx context.Context, userID, tournamentID string) (*ledger.JoinResult, error)

	// Deposit credits amount to the user's wallet
	//
	// Possible errors:
	// - ErrInvalidAmount: If amount is malformed or below the minimum deposit
	Deposit(ctx context.Context, userID, amount string) (*ledger.WalletResult, error)

	// Withdraw debits amount from the user's wallet
	//
	// Possible errors:
	// - ErrInvalidAmount: If amount is malformed or below the minimum withdrawal
	// - ErrInsufficientFunds: If the wallet is below amount
	Withdraw(ctx context.Context, userID, amount string) (*ledger.WalletResult, error)

	UpdateProfile(ctx context.Context, userID string, update ledger.ProfileUpdate) (*entity.User, error)
	SetTheme(ctx context.Context, theme string) error
	MarkAllNotificationsRead(ctx context.Context) (int, error)

	// Administrative operations; the actor must hold the admin role
	AdminAdjustWallet(ctx context.Context, actorID, targetUserID, delta string) (*ledger.WalletResult, error)
	AwardWinning(ctx context.Context, actorID, targetUserID, tournamentID, amount string) (*ledger.WalletResult, error)
	CreateTournament(ctx context.Context, actorID string, in ledger.TournamentInput) (*entity.Tournament, error)
	EditTournament(ctx context.Context, actorID, tournamentID string, patch ledger.TournamentPatch) (*entity.Tournament, error)
	DeleteTournament(ctx context.Context, actorID, tournamentID string) error
	DeleteUser(ctx context.Context, actorID, targetUserID string) error
	SetRole(ctx context.Context, actorID, targetUserID, role string) (*entity.User, error)
	SetGlobalNotice(ctx context.Context, actorID, text string) error
	PushNotification(ctx context.Context, actorID string, in ledger.NotificationInput) (*entity.Notification, error)

	// Reads
	ListUsers(ctx context.Context, actorID string) (entity.UserList, error)
	ListTournaments(ctx context.Context) (entity.TournamentList, error)
	GetTournament(ctx context.Context, tournamentID string) (*entity.Tournament, error)
	MyTournaments(ctx context.Context, userID string) (entity.TournamentList, error)
	ListTransactions(ctx context.Context, userID string) ([]*entity.Transaction, error)
	GameHistory(ctx context.Context, userID string) ([]*entity.MatchHistory, error)
	ListNotifications(ctx context.Context) ([]*entity.Notification, error)
	GlobalNotice(ctx context.Context) (string, error)
	Theme(ctx context.Context) (entity.Theme, error)
}

var _ LedgerUseCase = (*ledger.Engine)(nil)
