package repository

import (
	"context"
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/persistence"
)

// SeedConfig holds the first-run values that are configurable
type SeedConfig struct {
	AdminWallet   int64 // Minor units
	AvatarBaseURL string
	EmailDomain   string
}

// DefaultSeedConfig returns the stock first-run values
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		AdminWallet:   entity.WholeUnits(5000),
		AvatarBaseURL: "https://api.dicebear.com/7.x/avataaars/svg?seed=",
		EmailDomain:   "ludotaka.com",
	}
}

// Seeder provides the first-run registry and catalog
type Seeder struct {
	store        persistence.Store
	config       SeedConfig
	timeProvider coreport.TimeProvider
}

// NewSeeder creates a new Seeder
func NewSeeder(store persistence.Store, config SeedConfig, timeProvider coreport.TimeProvider) *Seeder {
	return &Seeder{
		store:        store,
		config:       config,
		timeProvider: timeProvider,
	}
}

// Users returns the seeded registry: one administrator
func (s *Seeder) Users() (entity.UserList, error) {
	admin, err := entity.NewUser(
		"admin-001",
		"admin",
		"Arena Master",
		"01700000000",
		"admin@"+s.config.EmailDomain,
		s.config.AvatarBaseURL+"admin",
		entity.RoleAdmin,
		s.config.AdminWallet,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	return entity.UserList{admin}, nil
}

// Tournaments returns the seeded catalog, with start times relative to now
func (s *Seeder) Tournaments() (entity.TournamentList, error) {
	now := s.timeProvider.Now()

	megaCup, err := entity.NewTournament("1001", "Daily Mega Cup",
		entity.WholeUnits(50), entity.WholeUnits(180), 4, now.Add(2*time.Hour),
		entity.TournamentAvailable, entity.DefaultMap, entity.TournamentFourPlayer, "77821")
	if err != nil {
		return nil, err
	}
	quickDuel, err := entity.NewTournament("1002", "Quick Duel",
		entity.WholeUnits(20), entity.WholeUnits(35), 2, now.Add(45*time.Minute),
		entity.TournamentAvailable, entity.DefaultMap, entity.TournamentOneVsOne, "")
	if err != nil {
		return nil, err
	}

	return entity.TournamentList{
		entity.RestoreTournament(*megaCup, 2, []string{"tarek_ludo", "sakib_boss"}),
		entity.RestoreTournament(*quickDuel, 1, []string{"rahim_hero"}),
	}, nil
}

// StageSeed stages the seed of every absent collection into cs and reports which were seeded
func (s *Seeder) StageSeed(ctx context.Context, cs *persistence.ChangeSet) ([]string, error) {
	var seeded []string

	exists, err := keyExists(ctx, s.store, KeyUsersRegistry)
	if err != nil {
		return nil, err
	}
	if !exists {
		users, err := s.Users()
		if err != nil {
			return nil, err
		}
		if err := stageCollection(cs, KeyUsersRegistry, usersToModels(users)); err != nil {
			return nil, err
		}
		seeded = append(seeded, KeyUsersRegistry)
	}

	exists, err = keyExists(ctx, s.store, KeyTournaments)
	if err != nil {
		return nil, err
	}
	if !exists {
		tournaments, err := s.Tournaments()
		if err != nil {
			return nil, err
		}
		if err := stageCollection(cs, KeyTournaments, tournamentsToModels(tournaments)); err != nil {
			return nil, err
		}
		seeded = append(seeded, KeyTournaments)
	}

	return seeded, nil
}
