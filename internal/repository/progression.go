package repository

import (
	"context"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// Progression is the persistence boundary for player skill records.
// Implementations return domain.ErrPlayerNotFound when no record exists.
type Progression interface {
	// GetPlayer loads a full player record by ID
	GetPlayer(ctx context.Context, playerID string) (*domain.PlayerRecord, error)

	// SavePlayer upserts a full player record
	SavePlayer(ctx context.Context, rec *domain.PlayerRecord) error

	// ListPlayerIDs returns all known player IDs
	ListPlayerIDs(ctx context.Context) ([]string, error)
}

// Challenge is the persistence boundary for daily challenge sets.
// Implementations return domain.ErrChallengeSetNotFound when no set
// exists for the player and date key.
type Challenge interface {
	// GetChallengeSet loads the set for one player and date key
	GetChallengeSet(ctx context.Context, playerID, dateKey string) (*domain.ChallengeSet, error)

	// SaveChallengeSet upserts the set for one player and date key
	SaveChallengeSet(ctx context.Context, set *domain.ChallengeSet) error
}
