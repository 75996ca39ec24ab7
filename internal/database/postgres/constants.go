package postgres

import "time"

// Player record cache configuration
const (
	// PlayerCacheSize bounds the LRU cache of decoded player records
	PlayerCacheSize = 4096

	// PlayerCacheTTL is how long a cached record stays valid without
	// being refreshed by a write
	PlayerCacheTTL = 5 * time.Minute
)

// SQL statements - players
const (
	queryGetPlayer = `
		SELECT record FROM players WHERE player_id = $1`

	queryUpsertPlayer = `
		INSERT INTO players (player_id, record, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (player_id)
		DO UPDATE SET record = EXCLUDED.record, updated_at = now()`

	queryListPlayerIDs = `
		SELECT player_id FROM players ORDER BY player_id`
)

// SQL statements - challenge sets
const (
	queryGetChallengeSet = `
		SELECT challenges FROM challenge_sets
		WHERE player_id = $1 AND date_key = $2`

	queryUpsertChallengeSet = `
		INSERT INTO challenge_sets (player_id, date_key, challenges, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (player_id, date_key)
		DO UPDATE SET challenges = EXCLUDED.challenges, updated_at = now()`
)
