package achievement

import (
	"context"

	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// Counter keys tracked by the progression engine
const (
	CounterXPGained            = "xp_gained_total"
	CounterAbilitiesUsed       = "abilities_used"
	CounterChallengesCompleted = "challenges_completed"
	CounterPrestigeEarned      = "prestige_earned"
)

// Tracker maintains monotonic per-player counters and fires one-time
// grants when a configured threshold is crossed. A grant fires only on
// the increment that crosses its threshold, never again afterwards.
type Tracker struct {
	tiers map[string][]config.AchievementTier
	bus   event.Bus
}

// NewTracker creates a tracker over the configured tier table
func NewTracker(tiers map[string][]config.AchievementTier, bus event.Bus) *Tracker {
	return &Tracker{tiers: tiers, bus: bus}
}

// IncrementAndCheck adds amount to the record's counter and returns
// the tiers crossed by this increment. The caller owns the record's
// lock and is responsible for persisting the mutation. Negative or
// zero amounts are ignored; counters never decrease.
func (t *Tracker) IncrementAndCheck(ctx context.Context, rec *domain.PlayerRecord, key string, amount int64) []config.AchievementTier {
	if amount <= 0 {
		return nil
	}

	old := rec.AchievementCounters[key]
	updated := old + amount
	rec.AchievementCounters[key] = updated

	var crossed []config.AchievementTier
	for _, tier := range t.tiers[key] {
		if old < tier.Threshold && tier.Threshold <= updated {
			crossed = append(crossed, tier)
			t.publishGrant(ctx, rec.PlayerID, key, tier)
		}
	}
	return crossed
}

func (t *Tracker) publishGrant(ctx context.Context, playerID, key string, tier config.AchievementTier) {
	log := logger.FromContext(ctx)
	log.Info("Achievement granted",
		"player_id", playerID,
		"counter", key,
		"threshold", tier.Threshold,
		"grant_id", tier.GrantID)

	if t.bus == nil {
		return
	}
	if err := t.bus.Publish(ctx, event.NewAchievementGrantedEvent(playerID, key, tier.Threshold, tier.GrantID)); err != nil {
		log.Error("Failed to publish achievement event", "error", err, "grant_id", tier.GrantID)
	}
}
