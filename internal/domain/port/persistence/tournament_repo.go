package persistence

import (
	"context"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// TournamentRepository reads and stages the whole tournament catalog
type TournamentRepository interface {
	// Load returns the catalog; a never-written catalog loads as the seed
	Load(ctx context.Context) (entity.TournamentList, error)

	// Stage encodes tournaments into cs as the new catalog
	Stage(cs *ChangeSet, tournaments entity.TournamentList) error
}
