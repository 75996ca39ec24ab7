package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfall-studios/skillforge/internal/clock"
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/database/memory"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
)

func newTestEngine(t *testing.T) (*Engine, *memory.ChallengeRepository, *clock.SimClock, *event.MemoryBus) {
	t.Helper()

	repo := memory.NewChallengeRepository()
	clk := clock.NewSimClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	bus := event.NewMemoryBus()
	return NewEngine(repo, config.DefaultTuning(), clk, bus), repo, clk, bus
}

func skillPtr(s domain.SkillID) *domain.SkillID {
	return &s
}

// seedSet stores a handcrafted set for today so progress tests do not
// depend on the generated targets.
func seedSet(t *testing.T, repo *memory.ChallengeRepository, clk *clock.SimClock, playerID string, challenges []*domain.DailyChallenge) {
	t.Helper()

	err := repo.SaveChallengeSet(context.Background(), &domain.ChallengeSet{
		PlayerID:   playerID,
		DateKey:    clk.DateKey(),
		Challenges: challenges,
	})
	require.NoError(t, err)
}

func TestGetChallengeSetDeterministic(t *testing.T) {
	engine, _, clk, _ := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillMining, domain.SkillFishing}

	first, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)
	require.Len(t, first.Challenges, 3)
	assert.Equal(t, clk.DateKey(), first.DateKey)

	// Regeneration reuses the same (player, date) seed, so an identical
	// selection must reproduce the identical set.
	again, err := engine.ForceRegenerate(context.Background(), "player-1", selected)
	require.NoError(t, err)
	require.Len(t, again.Challenges, len(first.Challenges))
	for i, c := range first.Challenges {
		assert.Equal(t, c.Type, again.Challenges[i].Type)
		assert.Equal(t, c.TargetAmount, again.Challenges[i].TargetAmount)
		assert.Equal(t, c.RelatedSkill, again.Challenges[i].RelatedSkill)
	}
}

func TestGetChallengeSetPersistsProgress(t *testing.T) {
	engine, repo, clk, _ := newTestEngine(t)

	seedSet(t, repo, clk, "player-1", []*domain.DailyChallenge{
		{Type: domain.ChallengeGainXP, RelatedSkill: skillPtr(domain.SkillMining), TargetAmount: 100},
	})

	_, _, err := engine.RecordProgress(context.Background(), "player-1", []domain.SkillID{domain.SkillMining},
		domain.ChallengeGainXP, skillPtr(domain.SkillMining), 40)
	require.NoError(t, err)

	set, err := engine.GetChallengeSet(context.Background(), "player-1", []domain.SkillID{domain.SkillMining})
	require.NoError(t, err)
	require.Len(t, set.Challenges, 1)
	assert.Equal(t, 40, set.Challenges[0].CurrentProgress)
	assert.False(t, set.Challenges[0].Completed)
}

func TestGetChallengeSetFallbackPoolWithoutSelection(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	set, err := engine.GetChallengeSet(context.Background(), "player-1", nil)
	require.NoError(t, err)
	require.Len(t, set.Challenges, 3)
	for _, c := range set.Challenges {
		assert.Nil(t, c.RelatedSkill, "fallback challenges must not bind a skill")
	}
}

func TestGetChallengeSetBindsSelectedSkills(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillCombat, domain.SkillArchery}

	set, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)
	for _, c := range set.Challenges {
		if c.RelatedSkill == nil {
			continue
		}
		assert.Contains(t, selected, *c.RelatedSkill)
	}
}

func TestRecordProgressCompletionAndSetBonus(t *testing.T) {
	engine, repo, clk, bus := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillMining, domain.SkillFishing}

	var completedEvents int
	bus.Subscribe(event.ChallengeCompleted, func(context.Context, event.Event) error {
		completedEvents++
		return nil
	})
	var clearedEvents int
	bus.Subscribe(event.AllChallengesCleared, func(context.Context, event.Event) error {
		clearedEvents++
		return nil
	})

	seedSet(t, repo, clk, "player-1", []*domain.DailyChallenge{
		{Type: domain.ChallengeGainXP, RelatedSkill: skillPtr(domain.SkillMining), TargetAmount: 100},
		{Type: domain.ChallengeUseAbility, RelatedSkill: skillPtr(domain.SkillMining), TargetAmount: 2},
	})

	// Overshooting the target clamps progress and completes exactly once.
	rewards, bonus, err := engine.RecordProgress(context.Background(), "player-1", selected,
		domain.ChallengeGainXP, skillPtr(domain.SkillMining), 150)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	assert.Equal(t, domain.SkillMining, *rewards[0].Skill)
	assert.Equal(t, 250, rewards[0].XP)
	assert.Nil(t, bonus)
	assert.Equal(t, 1, completedEvents)

	set, err := repo.GetChallengeSet(context.Background(), "player-1", clk.DateKey())
	require.NoError(t, err)
	assert.Equal(t, 100, set.Challenges[0].CurrentProgress)

	// Clearing the last challenge awards the set bonus, split across the
	// current selection.
	rewards, bonus, err = engine.RecordProgress(context.Background(), "player-1", selected,
		domain.ChallengeUseAbility, skillPtr(domain.SkillMining), 2)
	require.NoError(t, err)
	require.Len(t, rewards, 1)
	require.NotNil(t, bonus)
	assert.ElementsMatch(t, selected, bonus.Skills)
	assert.Equal(t, 300, bonus.XPPerSkill)
	assert.Equal(t, 1, clearedEvents)

	// The bonus is one-time; further progress on a cleared set is inert.
	rewards, bonus, err = engine.RecordProgress(context.Background(), "player-1", selected,
		domain.ChallengeGainXP, skillPtr(domain.SkillMining), 100)
	require.NoError(t, err)
	assert.Empty(t, rewards)
	assert.Nil(t, bonus)
	assert.Equal(t, 2, completedEvents)
	assert.Equal(t, 1, clearedEvents)
}

func TestGetChallengeSetReturnsIsolatedCopy(t *testing.T) {
	engine, repo, clk, _ := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillMining}

	seedSet(t, repo, clk, "player-1", []*domain.DailyChallenge{
		{Type: domain.ChallengeGainXP, RelatedSkill: skillPtr(domain.SkillMining), TargetAmount: 1000},
	})

	held, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)
	require.Len(t, held.Challenges, 1)

	// Progress recorded after the call must not show up on the set the
	// caller already holds.
	_, _, err = engine.RecordProgress(context.Background(), "player-1", selected,
		domain.ChallengeGainXP, skillPtr(domain.SkillMining), 970)
	require.NoError(t, err)
	assert.Equal(t, 0, held.Challenges[0].CurrentProgress)

	// Nor can the caller reach back into the engine by mutating its copy.
	held.Challenges[0].CurrentProgress = 5
	held.Challenges[0].Completed = true

	fresh, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)
	assert.Equal(t, 970, fresh.Challenges[0].CurrentProgress)
	assert.False(t, fresh.Challenges[0].Completed)
}

func TestForceRegenerateReturnsIsolatedCopy(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillMining}

	set, err := engine.ForceRegenerate(context.Background(), "player-1", selected)
	require.NoError(t, err)
	set.Challenges[0].Completed = true

	again, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)
	assert.False(t, again.Challenges[0].Completed)
}

func TestRecordProgressSkillMismatchIgnored(t *testing.T) {
	engine, repo, clk, _ := newTestEngine(t)

	seedSet(t, repo, clk, "player-1", []*domain.DailyChallenge{
		{Type: domain.ChallengeGainXP, RelatedSkill: skillPtr(domain.SkillMining), TargetAmount: 100},
	})

	rewards, bonus, err := engine.RecordProgress(context.Background(), "player-1", []domain.SkillID{domain.SkillMining},
		domain.ChallengeGainXP, skillPtr(domain.SkillFishing), 100)
	require.NoError(t, err)
	assert.Empty(t, rewards)
	assert.Nil(t, bonus)

	set, err := repo.GetChallengeSet(context.Background(), "player-1", clk.DateKey())
	require.NoError(t, err)
	assert.Equal(t, 0, set.Challenges[0].CurrentProgress)
}

func TestRecordProgressNonPositiveAmount(t *testing.T) {
	engine, _, _, _ := newTestEngine(t)

	rewards, bonus, err := engine.RecordProgress(context.Background(), "player-1", nil,
		domain.ChallengeGainXP, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, rewards)
	assert.Nil(t, bonus)
}

func TestForceRegenerateResetsProgress(t *testing.T) {
	engine, repo, clk, _ := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillMining}

	seedSet(t, repo, clk, "player-1", []*domain.DailyChallenge{
		{Type: domain.ChallengeGainXP, RelatedSkill: skillPtr(domain.SkillMining), TargetAmount: 100, CurrentProgress: 80},
	})

	set, err := engine.ForceRegenerate(context.Background(), "player-1", selected)
	require.NoError(t, err)
	require.Len(t, set.Challenges, 3)
	for _, c := range set.Challenges {
		assert.Equal(t, 0, c.CurrentProgress)
		assert.False(t, c.Completed)
	}
	assert.False(t, set.BonusAwarded)
}

func TestDateRolloverYieldsFreshSet(t *testing.T) {
	engine, _, clk, _ := newTestEngine(t)
	selected := []domain.SkillID{domain.SkillMining}

	today, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)

	clk.SetDate(time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC))

	tomorrow, err := engine.GetChallengeSet(context.Background(), "player-1", selected)
	require.NoError(t, err)
	assert.NotEqual(t, today.DateKey, tomorrow.DateKey)
	for _, c := range tomorrow.Challenges {
		assert.Equal(t, 0, c.CurrentProgress)
		assert.False(t, c.Completed)
	}
}
