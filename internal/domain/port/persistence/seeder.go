package persistence

import "context"

// Seeder stages first-run data for collections that were never written
type Seeder interface {
	// StageSeed stages the seed of every absent collection into cs and reports which were seeded
	StageSeed(ctx context.Context, cs *ChangeSet) ([]string, error)
}
