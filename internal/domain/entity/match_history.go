package entity

import "time"

// MatchResult is the outcome of a joined tournament for one user
type MatchResult string

// Match results
const (
	MatchPending MatchResult = "pending"
	MatchWin     MatchResult = "win"
	MatchLoss    MatchResult = "loss"
)

// MatchHistory records one user's participation in a tournament
type MatchHistory struct {
	ID           string
	UserID       string
	TournamentID string
	Title        string
	Date         time.Time
	EntryFee     int64
	PrizeWon     int64
	Status       MatchResult
	Type         TournamentType
}

// NewPendingMatch records a freshly joined tournament
func NewPendingMatch(id, userID string, t *Tournament, date time.Time) *MatchHistory {
	return &MatchHistory{
		ID:           id,
		UserID:       userID,
		TournamentID: t.ID,
		Title:        t.Title,
		Date:         date,
		EntryFee:     t.EntryFee,
		Status:       MatchPending,
		Type:         t.Type,
	}
}

// FindMatch returns the history entry for tournamentID
func FindMatch(history []*MatchHistory, tournamentID string) (*MatchHistory, bool) {
	for _, h := range history {
		if h.TournamentID == tournamentID {
			return h, true
		}
	}
	return nil, false
}
