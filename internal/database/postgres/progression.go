package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// ProgressionRepository persists player records as JSONB documents.
// The whole record is read, mutated under the player lock, and written
// back; a small expirable LRU avoids re-decoding hot records.
type ProgressionRepository struct {
	db    *pgxpool.Pool
	cache *lru.LRU[string, *domain.PlayerRecord]
}

// NewProgressionRepository creates a new ProgressionRepository
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{
		db:    db,
		cache: lru.NewLRU[string, *domain.PlayerRecord](PlayerCacheSize, nil, PlayerCacheTTL),
	}
}

// GetPlayer loads a full player record by ID
func (r *ProgressionRepository) GetPlayer(ctx context.Context, playerID string) (*domain.PlayerRecord, error) {
	if rec, ok := r.cache.Get(playerID); ok {
		return rec.Clone(), nil
	}

	var data []byte
	err := r.db.QueryRow(ctx, queryGetPlayer, playerID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
	}

	var rec domain.PlayerRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode player record %s: %w", playerID, err)
	}

	r.cache.Add(playerID, rec.Clone())
	return &rec, nil
}

// SavePlayer upserts a full player record
func (r *ProgressionRepository) SavePlayer(ctx context.Context, rec *domain.PlayerRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode player record %s: %w", rec.PlayerID, err)
	}

	if _, err := r.db.Exec(ctx, queryUpsertPlayer, rec.PlayerID, data); err != nil {
		return fmt.Errorf("failed to save player %s: %w", rec.PlayerID, err)
	}

	r.cache.Add(rec.PlayerID, rec.Clone())
	return nil
}

// ListPlayerIDs returns all known player IDs
func (r *ProgressionRepository) ListPlayerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, queryListPlayerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan player id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
