package ledger

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
)

// DefaultStartDelay is how far ahead a tournament created without a start time begins
const DefaultStartDelay = time.Hour

// TournamentInput describes a new tournament
type TournamentInput struct {
	Title     string
	EntryFee  string
	PrizePool string
	Slots     int
	StartTime *time.Time
	Status    string
	Map       string
	Type      string
	RoomCode  string
}

// TournamentPatch holds the fields of an edit; nil fields are left unchanged
type TournamentPatch struct {
	Title     *string
	EntryFee  *string
	PrizePool *string
	Slots     *int
	StartTime *time.Time
	Status    *string
	Map       *string
	Type      *string
	RoomCode  *string
}

// CreateTournament adds an empty tournament at the head of the catalog
func (e *Engine) CreateTournament(ctx context.Context, actorID string, in TournamentInput) (*entity.Tournament, error) {
	var created *entity.Tournament

	err := e.mutate(ctx, "create_tournament", map[string]any{
		"actor_id": actorID,
		"title":    in.Title,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}

		entryFee, err := e.validator.ValidateFee("entry fee", in.EntryFee)
		if err != nil {
			return err
		}
		prizePool, err := e.validator.ValidateFee("prize pool", in.PrizePool)
		if err != nil {
			return err
		}

		start := e.timeProvider.Now().Add(DefaultStartDelay)
		if in.StartTime != nil {
			start = *in.StartTime
		}
		status := entity.TournamentAvailable
		if in.Status != "" {
			status = entity.TournamentStatus(in.Status)
		}

		tournament, err := entity.NewTournament(
			e.ids.NewID(),
			in.Title,
			entryFee,
			prizePool,
			in.Slots,
			start,
			status,
			in.Map,
			entity.TournamentType(in.Type),
			in.RoomCode,
		)
		if err != nil {
			return err
		}

		tournaments, err := t.Tournaments()
		if err != nil {
			return err
		}
		if err := t.SaveTournaments(append(entity.TournamentList{tournament}, tournaments...)); err != nil {
			return err
		}

		created = tournament.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditTournament applies patch to an existing tournament
func (e *Engine) EditTournament(ctx context.Context, actorID, tournamentID string, patch TournamentPatch) (*entity.Tournament, error) {
	var edited *entity.Tournament

	err := e.mutate(ctx, "edit_tournament", map[string]any{
		"actor_id":      actorID,
		"tournament_id": tournamentID,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		tournament, err := t.Tournament(tournamentID)
		if err != nil {
			return err
		}

		if err := e.applyPatch(tournament, patch); err != nil {
			return err
		}
		if err := tournament.Validate(); err != nil {
			return err
		}

		tournaments, err := t.Tournaments()
		if err != nil {
			return err
		}
		if err := t.SaveTournaments(tournaments); err != nil {
			return err
		}

		edited = tournament.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edited, nil
}

func (e *Engine) applyPatch(tournament *entity.Tournament, patch TournamentPatch) error {
	if patch.Title != nil {
		tournament.Title = *patch.Title
	}
	if patch.EntryFee != nil {
		fee, err := e.validator.ValidateFee("entry fee", *patch.EntryFee)
		if err != nil {
			return err
		}
		tournament.EntryFee = fee
	}
	if patch.PrizePool != nil {
		pool, err := e.validator.ValidateFee("prize pool", *patch.PrizePool)
		if err != nil {
			return err
		}
		tournament.PrizePool = pool
	}
	if patch.Slots != nil {
		tournament.Slots = *patch.Slots
	}
	if patch.StartTime != nil {
		tournament.StartTime = *patch.StartTime
	}
	if patch.Status != nil {
		tournament.Status = entity.TournamentStatus(*patch.Status)
	}
	if patch.Map != nil {
		tournament.Map = *patch.Map
		if tournament.Map == "" {
			tournament.Map = entity.DefaultMap
		}
	}
	if patch.Type != nil {
		tournament.Type = entity.TournamentType(*patch.Type)
	}
	if patch.RoomCode != nil {
		tournament.RoomCode = *patch.RoomCode
	}
	return nil
}

// DeleteTournament removes one tournament from the catalog.
// Joined sets of users keep the id; membership is owned by the catalog.
func (e *Engine) DeleteTournament(ctx context.Context, actorID, tournamentID string) error {
	return e.mutate(ctx, "delete_tournament", map[string]any{
		"actor_id":      actorID,
		"tournament_id": tournamentID,
	}, func(t *tx) error {
		if _, err := t.Admin(actorID); err != nil {
			return err
		}
		tournaments, err := t.Tournaments()
		if err != nil {
			return err
		}
		if _, ok := tournaments.ByID(tournamentID); !ok {
			return errs.ErrTournamentNotFound
		}
		return t.SaveTournaments(tournaments.Without(tournamentID))
	})
}
