package repository

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	errs "github.com/amirhossein-jamali/arena-ledger/internal/domain/error"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/model"
)

// TournamentRepository stores the tournament catalog as one JSON array
type TournamentRepository struct {
	store  persistence.Store
	seeder *Seeder
	logger coreport.Logger
}

// NewTournamentRepository creates a new TournamentRepository instance
func NewTournamentRepository(store persistence.Store, seeder *Seeder, logger coreport.Logger) *TournamentRepository {
	return &TournamentRepository{
		store:  store,
		seeder: seeder,
		logger: logger,
	}
}

// Load returns the catalog; a never-written catalog loads as the seed
func (r *TournamentRepository) Load(ctx context.Context) (entity.TournamentList, error) {
	records, found, err := loadCollection[model.Tournament](ctx, r.store, KeyTournaments)
	if err != nil {
		return nil, err
	}
	if !found {
		r.logger.Debug("Tournament catalog absent, using seed", nil)
		return r.seeder.Tournaments()
	}

	tournaments := make(entity.TournamentList, 0, len(records))
	for _, rec := range records {
		t, err := rec.ToEntity()
		if err != nil {
			r.logger.Error("Failed to decode tournament record", map[string]any{
				"tournament_id": rec.ID,
				"error":         err.Error(),
			})
			return nil, fmt.Errorf("%w: tournament %s: %v", errs.ErrStore, rec.ID, err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

// Stage encodes tournaments into cs as the new catalog
func (r *TournamentRepository) Stage(cs *persistence.ChangeSet, tournaments entity.TournamentList) error {
	return stageCollection(cs, KeyTournaments, tournamentsToModels(tournaments))
}

func tournamentsToModels(tournaments entity.TournamentList) []model.Tournament {
	records := make([]model.Tournament, 0, len(tournaments))
	for _, t := range tournaments {
		records = append(records, model.TournamentFromEntity(t))
	}
	return records
}
