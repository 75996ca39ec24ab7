// Package memory provides in-memory repository implementations used
// when the database is disabled (local development) and by tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// ProgressionRepository is an in-memory implementation of
// repository.Progression.
type ProgressionRepository struct {
	mu      sync.RWMutex
	players map[string]*domain.PlayerRecord
}

// NewProgressionRepository creates an empty in-memory repository
func NewProgressionRepository() *ProgressionRepository {
	return &ProgressionRepository{
		players: make(map[string]*domain.PlayerRecord),
	}
}

// GetPlayer loads a full player record by ID
func (r *ProgressionRepository) GetPlayer(_ context.Context, playerID string) (*domain.PlayerRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.players[playerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	return rec.Clone(), nil
}

// SavePlayer upserts a full player record
func (r *ProgressionRepository) SavePlayer(_ context.Context, rec *domain.PlayerRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[rec.PlayerID] = rec.Clone()
	return nil
}

// ListPlayerIDs returns all known player IDs
func (r *ProgressionRepository) ListPlayerIDs(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.players))
	for id := range r.players {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ChallengeRepository is an in-memory implementation of
// repository.Challenge.
type ChallengeRepository struct {
	mu   sync.RWMutex
	sets map[string]*domain.ChallengeSet
}

// NewChallengeRepository creates an empty in-memory repository
func NewChallengeRepository() *ChallengeRepository {
	return &ChallengeRepository{
		sets: make(map[string]*domain.ChallengeSet),
	}
}

func setKey(playerID, dateKey string) string {
	return playerID + "/" + dateKey
}

// GetChallengeSet loads the set for one player and date key
func (r *ChallengeRepository) GetChallengeSet(_ context.Context, playerID, dateKey string) (*domain.ChallengeSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.sets[setKey(playerID, dateKey)]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrChallengeSetNotFound, playerID, dateKey)
	}
	return set.Clone(), nil
}

// SaveChallengeSet upserts the set for one player and date key
func (r *ChallengeRepository) SaveChallengeSet(_ context.Context, set *domain.ChallengeSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sets[setKey(set.PlayerID, set.DateKey)] = set.Clone()
	return nil
}

// NoopPool satisfies the database pool interface when the database is
// disabled, so readiness checks still pass in memory-only runs.
type NoopPool struct{}

func (NoopPool) Ping(context.Context) error { return nil }
func (NoopPool) Close()                     {}
