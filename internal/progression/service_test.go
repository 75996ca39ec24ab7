package progression

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfall-studios/skillforge/internal/achievement"
	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/clock"
	"github.com/emberfall-studios/skillforge/internal/concurrency"
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/database/memory"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/synergy"
)

type testEnv struct {
	service Service
	repo    *memory.ProgressionRepository
	tuning  *config.Tuning
	clk     *clock.SimClock
	bus     *event.MemoryBus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tuning := config.DefaultTuning()
	require.NoError(t, tuning.Validate())

	repo := memory.NewProgressionRepository()
	challengeRepo := memory.NewChallengeRepository()
	clk := clock.NewSimClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
	bus := event.NewMemoryBus()

	engine := challenge.NewEngine(challengeRepo, tuning, clk, bus)
	tracker := achievement.NewTracker(tuning.Achievements, bus)
	locks := concurrency.NewLockManager()

	svc := NewService(repo, tuning, synergy.NewEvaluator(tuning.SynergyRules), engine, tracker, nil, locks, bus)

	return &testEnv{service: svc, repo: repo, tuning: tuning, clk: clk, bus: bus}
}

// seedPlayer creates a record with the given selection and per-skill
// overrides applied directly through the repository.
func (e *testEnv) seedPlayer(t *testing.T, playerID string, selected []domain.SkillID, mutate func(*domain.PlayerRecord)) {
	t.Helper()
	rec := domain.NewPlayerRecord(playerID)
	rec.SelectedSkills = selected
	if mutate != nil {
		mutate(rec)
	}
	require.NoError(t, e.repo.SavePlayer(context.Background(), rec))
}

func TestGrantXPLevelsUp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, nil)

	// Level 0 needs 60 XP on the default curve; 70 leaves 10 over.
	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 70, "test")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, 0, result.OldLevel)
	assert.Equal(t, 1, result.NewLevel)
	assert.True(t, result.LeveledUp())

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, status.Skills[domain.SkillMining].Level)
	assert.Equal(t, 10.0, status.Skills[domain.SkillMining].XP)
}

func TestGrantXPSplitGrantsEquivalent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "whole", []domain.SkillID{domain.SkillMining}, nil)
	env.seedPlayer(t, "split", []domain.SkillID{domain.SkillMining}, nil)

	_, err := env.service.GrantXP(ctx, "whole", domain.SkillMining, 70, "test")
	require.NoError(t, err)
	_, err = env.service.GrantXP(ctx, "split", domain.SkillMining, 35, "test")
	require.NoError(t, err)
	_, err = env.service.GrantXP(ctx, "split", domain.SkillMining, 35, "test")
	require.NoError(t, err)

	whole, err := env.service.GetStatus(ctx, "whole")
	require.NoError(t, err)
	split, err := env.service.GetStatus(ctx, "split")
	require.NoError(t, err)

	assert.Equal(t, whole.Skills[domain.SkillMining].Level, split.Skills[domain.SkillMining].Level)
	assert.Equal(t, whole.Skills[domain.SkillMining].XP, split.Skills[domain.SkillMining].XP)
}

func TestGrantXPGatedWithoutSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", nil, nil)

	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 500, "test")
	require.NoError(t, err)
	assert.False(t, result.Applied)

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Skills[domain.SkillMining].Level)
	assert.Equal(t, 0.0, status.Skills[domain.SkillMining].XP)
}

func TestGrantXPGatedForUnselectedSkill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillFishing}, nil)

	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 500, "test")
	require.NoError(t, err)
	assert.False(t, result.Applied)
}

func TestGrantXPRejectsUnknownSkill(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.GrantXP(context.Background(), "p1", domain.SkillID("juggling"), 10, "test")
	assert.ErrorIs(t, err, domain.ErrSkillNotFound)
}

func TestGrantXPStopsAtSoftCapWithoutParagon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillMining]
		state.Level = 99
		rec.Skills[domain.SkillMining] = state
	})

	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 1_000_000, "test")
	require.NoError(t, err)
	assert.False(t, result.Applied)

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 99, status.Skills[domain.SkillMining].Level)
	assert.True(t, status.Skills[domain.SkillMining].AtCap)
}

func TestGrantXPParagonReachesHardCap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillMining]
		state.Level = 99
		rec.Skills[domain.SkillMining] = state
		paragon := domain.SkillMining
		rec.ParagonSkill = &paragon
	})

	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 1_000_000, "test")
	require.NoError(t, err)
	assert.True(t, result.Applied)
	assert.Equal(t, 100, result.NewLevel)
	assert.Contains(t, result.Milestones, 100)

	// Overflow past the cap is discarded, never banked.
	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, status.Skills[domain.SkillMining].Level)
	assert.Equal(t, 0.0, status.Skills[domain.SkillMining].XP)
}

func TestGrantXPAppliesSynergyRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// Combat + archery activates the warbow xp_rate rule (+8%).
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillCombat, domain.SkillArchery}, nil)

	result, err := env.service.GrantXP(ctx, "p1", domain.SkillCombat, 100, "test")
	require.NoError(t, err)
	assert.Equal(t, 108, result.XPGained)
}

func TestGrantXPAppliesPrestigeMultiplier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillMining]
		state.Prestige = 2
		rec.Skills[domain.SkillMining] = state
	})

	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 100, "test")
	require.NoError(t, err)
	assert.Equal(t, 110, result.XPGained) // 100 × (1 + 2×0.05)
}

func TestGrantXPCrossesMultipleLevels(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, nil)

	// Levels 0..2 cost 60+77+98 = 235; 300 leaves 65 into level 3.
	result, err := env.service.GrantXP(ctx, "p1", domain.SkillMining, 300, "test")
	require.NoError(t, err)
	assert.Equal(t, 3, result.NewLevel)

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 65.0, status.Skills[domain.SkillMining].XP)
}

func TestPrestigeResetsSkill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillMining]
		state.Level = 100
		state.XP = 42
		state.LastAbilityUseTick = 12345
		rec.Skills[domain.SkillMining] = state
		paragon := domain.SkillMining
		rec.ParagonSkill = &paragon
	})

	result, err := env.service.Prestige(ctx, "p1", domain.SkillMining)
	require.NoError(t, err)
	assert.Equal(t, 1, result.NewRank)

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	state := status.Skills[domain.SkillMining]
	assert.Equal(t, 1, state.Level)
	assert.Equal(t, 0.0, state.XP)
	assert.Equal(t, 1, state.Prestige)
	// Cooldown bookkeeping survives the reset.
	assert.Equal(t, int64(12345), state.LastAbilityUseTick)

	// A freshly reset skill cannot prestige again.
	_, err = env.service.Prestige(ctx, "p1", domain.SkillMining)
	assert.ErrorIs(t, err, domain.ErrPrestigeUnavailable)
}

func TestPrestigeBelowCapRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillMining]
		state.Level = 99
		rec.Skills[domain.SkillMining] = state
	})

	_, err := env.service.Prestige(context.Background(), "p1", domain.SkillMining)
	assert.ErrorIs(t, err, domain.ErrPrestigeUnavailable)
}

func TestPrestigeCeilingRejected(t *testing.T) {
	env := newTestEnv(t)
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillMining]
		state.Level = 100
		state.Prestige = env.tuning.MaxPrestige
		rec.Skills[domain.SkillMining] = state
	})

	_, err := env.service.Prestige(context.Background(), "p1", domain.SkillMining)
	assert.ErrorIs(t, err, domain.ErrPrestigeCapReached)
}

func TestSelectSkillsValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.service.SelectSkills(ctx, "p1", []domain.SkillID{
		domain.SkillMining, domain.SkillFishing, domain.SkillCombat, domain.SkillMagic,
	})
	assert.ErrorIs(t, err, domain.ErrTooManySkills)

	err = env.service.SelectSkills(ctx, "p1", []domain.SkillID{domain.SkillID("juggling")})
	assert.ErrorIs(t, err, domain.ErrSkillNotFound)

	// Duplicates collapse rather than erroring.
	err = env.service.SelectSkills(ctx, "p1", []domain.SkillID{domain.SkillMining, domain.SkillMining})
	require.NoError(t, err)

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []domain.SkillID{domain.SkillMining}, status.SelectedSkills)
}

func TestAssignParagonReplaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.AssignParagon(ctx, "p1", domain.SkillMining))
	require.NoError(t, env.service.AssignParagon(ctx, "p1", domain.SkillMagic))

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, status.ParagonSkill)
	assert.Equal(t, domain.SkillMagic, *status.ParagonSkill)
}

func TestSetToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.service.SetToggle(ctx, "p1", "auto_replant", true))

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, status.Toggles["auto_replant"])
}

func TestPassiveOutputMultiplier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// Farming + alchemy activates the herbal_brews passive rule (+5%).
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillFarming, domain.SkillAlchemy}, func(rec *domain.PlayerRecord) {
		state := rec.Skills[domain.SkillFarming]
		state.Prestige = 1
		rec.Skills[domain.SkillFarming] = state
	})

	m, err := env.service.PassiveOutputMultiplier(ctx, "p1", domain.SkillFarming)
	require.NoError(t, err)
	assert.InDelta(t, 1.02*1.05, m, 1e-9)
}

func TestApplyChallengeOutcome(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillMining, domain.SkillFishing}, nil)

	mining := domain.SkillMining
	rewards := []challenge.Reward{
		{Skill: &mining, XP: 100}, // bound, lands on mining
		{Skill: nil, XP: 100},     // unbound, split across the selection
	}
	bonus := &challenge.SetBonus{
		Skills:     []domain.SkillID{domain.SkillMining, domain.SkillFishing},
		XPPerSkill: 30,
	}

	require.NoError(t, env.service.ApplyChallengeOutcome(ctx, "p1", rewards, bonus, 2))

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	// mining: 100 + 50 + 30 = 180; levels 0 and 1 cost 60+77, 43 left.
	assert.Equal(t, 2, status.Skills[domain.SkillMining].Level)
	assert.Equal(t, 43.0, status.Skills[domain.SkillMining].XP)
	// fishing: 50 + 30 = 80 → level 1, 20 left.
	assert.Equal(t, 1, status.Skills[domain.SkillFishing].Level)
	assert.Equal(t, 20.0, status.Skills[domain.SkillFishing].XP)
	assert.Equal(t, int64(2), status.AchievementCounters[achievement.CounterChallengesCompleted])
}

func TestApplyChallengeOutcomeDropsDeselectedBoundReward(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPlayer(t, "p1", []domain.SkillID{domain.SkillFishing}, nil)

	mining := domain.SkillMining
	require.NoError(t, env.service.ApplyChallengeOutcome(ctx, "p1",
		[]challenge.Reward{{Skill: &mining, XP: 500}}, nil, 1))

	status, err := env.service.GetStatus(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, status.Skills[domain.SkillMining].XP)
	assert.Equal(t, 0, status.Skills[domain.SkillMining].Level)
}

func TestGetOrCreatePlayerIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.service.GetOrCreatePlayer(ctx, "fresh")
	require.NoError(t, err)
	assert.Len(t, first.Skills, len(domain.AllSkills()))
	assert.Equal(t, domain.NeverUsedTick, first.Skills[domain.SkillMining].LastAbilityUseTick)

	second, err := env.service.GetOrCreatePlayer(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, first.PlayerID, second.PlayerID)
}
