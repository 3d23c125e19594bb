package ledger

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// JoinResult is the post-join snapshot of the joining user and the tournament
type JoinResult struct {
	User       *entity.User
	Tournament *entity.Tournament
	Joined     bool // False when the user had already joined and nothing was charged
}

// JoinTournament charges the entry fee and takes one slot for the user.
// Funds, the wallet debit, the slot, the participant entry and the user's joined set
// are committed together or not at all.
func (e *Engine) JoinTournament(ctx context.Context, userID, tournamentID string) (*JoinResult, error) {
	var result *JoinResult

	err := e.mutate(ctx, "join_tournament", map[string]any{
		"user_id":       userID,
		"tournament_id": tournamentID,
	}, func(t *tx) error {
		user, err := t.User(userID)
		if err != nil {
			return err
		}
		tournament, err := t.Tournament(tournamentID)
		if err != nil {
			return err
		}

		if !tournament.IsJoinable() {
			return errs.NewUnavailableError(tournament.ID, string(tournament.Status), tournament.SlotsFilled(), tournament.Slots)
		}
		if !user.CanAfford(tournament.EntryFee) {
			return errs.NewInsufficientFundsError(user.ID, entity.FormatAmount(tournament.EntryFee), user.GetWallet())
		}

		// A repeated dispatch returns the unchanged snapshot
		if tournament.HasParticipant(user.Name) {
			result = &JoinResult{User: user.Clone(), Tournament: tournament.Clone()}
			return nil
		}

		if err := user.Debit(tournament.EntryFee, e.timeProvider); err != nil {
			return err
		}
		if err := tournament.AddParticipant(user.Name); err != nil {
			return err
		}
		user.AddJoinedMatch(tournament.ID)

		if tournament.EntryFee > 0 {
			if _, err := t.AppendTransaction(user.ID, entity.TypeEntryFee, tournament.EntryFee, tournament.ID); err != nil {
				return err
			}
		}

		history, err := t.History(user.ID)
		if err != nil {
			return err
		}
		history = append(history, entity.NewPendingMatch(e.ids.NewID(), user.ID, tournament, e.timeProvider.Now()))
		if err := t.SaveHistory(user.ID, history); err != nil {
			return err
		}

		tournaments, err := t.Tournaments()
		if err != nil {
			return err
		}
		if err := t.SaveTournaments(tournaments); err != nil {
			return err
		}
		if err := t.SaveUsers(user); err != nil {
			return err
		}

		result = &JoinResult{User: user.Clone(), Tournament: tournament.Clone(), Joined: true}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
