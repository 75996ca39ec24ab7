package achievement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
)

func newTestTracker() (*Tracker, *event.MemoryBus) {
	bus := event.NewMemoryBus()
	tiers := map[string][]config.AchievementTier{
		CounterXPGained: {
			{Threshold: 100, GrantID: "grant_bronze"},
			{Threshold: 1000, GrantID: "grant_silver"},
		},
	}
	return NewTracker(tiers, bus), bus
}

func TestIncrementAndCheckCrossesThresholdOnce(t *testing.T) {
	tracker, _ := newTestTracker()
	rec := domain.NewPlayerRecord("player-1")
	ctx := context.Background()

	crossed := tracker.IncrementAndCheck(ctx, rec, CounterXPGained, 50)
	assert.Empty(t, crossed)
	assert.Equal(t, int64(50), rec.AchievementCounters[CounterXPGained])

	crossed = tracker.IncrementAndCheck(ctx, rec, CounterXPGained, 50)
	require.Len(t, crossed, 1)
	assert.Equal(t, "grant_bronze", crossed[0].GrantID)

	// Already past the threshold; it must not fire again.
	crossed = tracker.IncrementAndCheck(ctx, rec, CounterXPGained, 100)
	assert.Empty(t, crossed)
	assert.Equal(t, int64(200), rec.AchievementCounters[CounterXPGained])
}

func TestIncrementAndCheckCrossesMultipleTiers(t *testing.T) {
	tracker, _ := newTestTracker()
	rec := domain.NewPlayerRecord("player-1")

	crossed := tracker.IncrementAndCheck(context.Background(), rec, CounterXPGained, 5000)
	require.Len(t, crossed, 2)
	assert.Equal(t, "grant_bronze", crossed[0].GrantID)
	assert.Equal(t, "grant_silver", crossed[1].GrantID)
}

func TestIncrementAndCheckIgnoresNonPositive(t *testing.T) {
	tracker, _ := newTestTracker()
	rec := domain.NewPlayerRecord("player-1")
	ctx := context.Background()

	assert.Empty(t, tracker.IncrementAndCheck(ctx, rec, CounterXPGained, 0))
	assert.Empty(t, tracker.IncrementAndCheck(ctx, rec, CounterXPGained, -10))
	assert.Equal(t, int64(0), rec.AchievementCounters[CounterXPGained])
}

func TestIncrementAndCheckUnknownCounter(t *testing.T) {
	tracker, _ := newTestTracker()
	rec := domain.NewPlayerRecord("player-1")

	crossed := tracker.IncrementAndCheck(context.Background(), rec, "untracked_counter", 42)
	assert.Empty(t, crossed)
	assert.Equal(t, int64(42), rec.AchievementCounters["untracked_counter"])
}
