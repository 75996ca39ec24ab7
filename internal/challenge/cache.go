package challenge

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// setCache is a small read-through cache in front of the challenge
// repository. Entries are only read and mutated under the engine's
// per-player lock, so cached sets never race with progress updates.
type setCache struct {
	lru *expirable.LRU[string, *domain.ChallengeSet]
}

// newSetCache creates a cache holding up to size sets for at most ttl
func newSetCache(size int, ttl time.Duration) *setCache {
	return &setCache{
		lru: expirable.NewLRU[string, *domain.ChallengeSet](size, nil, ttl),
	}
}

func (c *setCache) Get(playerID, dateKey string) (*domain.ChallengeSet, bool) {
	return c.lru.Get(cacheKey(playerID, dateKey))
}

func (c *setCache) Set(set *domain.ChallengeSet) {
	c.lru.Add(cacheKey(set.PlayerID, set.DateKey), set)
}

// Invalidate drops a cached set. Used when a save fails so the cache
// cannot drift ahead of the repository.
func (c *setCache) Invalidate(playerID, dateKey string) {
	c.lru.Remove(cacheKey(playerID, dateKey))
}

func cacheKey(playerID, dateKey string) string {
	return playerID + "/" + dateKey
}
