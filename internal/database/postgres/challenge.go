package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// ChallengeRepository persists daily challenge sets keyed by player and
// date. Sets are small and short-lived, so no cache layer here.
type ChallengeRepository struct {
	db *pgxpool.Pool
}

// NewChallengeRepository creates a new ChallengeRepository
func NewChallengeRepository(db *pgxpool.Pool) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

// GetChallengeSet loads the set for one player and date key
func (r *ChallengeRepository) GetChallengeSet(ctx context.Context, playerID, dateKey string) (*domain.ChallengeSet, error) {
	var data []byte
	err := r.db.QueryRow(ctx, queryGetChallengeSet, playerID, dateKey).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrChallengeSetNotFound, playerID, dateKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get challenge set %s/%s: %w", playerID, dateKey, err)
	}

	set := &domain.ChallengeSet{PlayerID: playerID, DateKey: dateKey}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("failed to decode challenge set %s/%s: %w", playerID, dateKey, err)
	}
	return set, nil
}

// SaveChallengeSet upserts the set for one player and date key
func (r *ChallengeRepository) SaveChallengeSet(ctx context.Context, set *domain.ChallengeSet) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode challenge set %s/%s: %w", set.PlayerID, set.DateKey, err)
	}

	if _, err := r.db.Exec(ctx, queryUpsertChallengeSet, set.PlayerID, set.DateKey, data); err != nil {
		return fmt.Errorf("failed to save challenge set %s/%s: %w", set.PlayerID, set.DateKey, err)
	}
	return nil
}
