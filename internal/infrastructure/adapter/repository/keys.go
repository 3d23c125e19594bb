package repository

// Store keys of the persisted collections
const (
	KeyUsersRegistry = "arena_users_registry"
	KeySessionUser   = "arena_user"
	KeyTournaments   = "arena_tournaments"
	KeyNotifications = "arena_notifications"
	KeyNotice        = "arena_notice"
	KeyTheme         = "arena_theme"

	transactionsPrefix = "arena_transactions/"
	gameHistoryPrefix  = "arena_game_history/"
)

// TransactionsKey returns the key of the ledger partition of userID
func TransactionsKey(userID string) string {
	return transactionsPrefix + userID
}

// GameHistoryKey returns the key of the match history of userID
func GameHistoryKey(userID string) string {
	return gameHistoryPrefix + userID
}
