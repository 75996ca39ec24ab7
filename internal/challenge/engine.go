package challenge

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"github.com/emberfall-studios/skillforge/internal/clock"
	"github.com/emberfall-studios/skillforge/internal/concurrency"
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/repository"
)

// Reward is the XP payout for one completed challenge. Skill is nil
// for challenges with no related skill; the caller decides where
// unbound rewards land.
type Reward struct {
	Skill *domain.SkillID
	XP    int
}

// SetBonus is the payout for clearing a whole daily set, split evenly
// across the skills that were selected at completion time.
type SetBonus struct {
	Skills     []domain.SkillID
	XPPerSkill int
}

// Engine generates deterministic per-player daily challenge sets and
// tracks progress against them. Generation is reproducible: the same
// player and date always yield the same set.
type Engine struct {
	repo   repository.Challenge
	tuning *config.Tuning
	clk    clock.WallClock
	bus    event.Bus
	locks  *concurrency.LockManager
	cache  *setCache
}

// NewEngine creates a challenge engine
func NewEngine(repo repository.Challenge, tuning *config.Tuning, clk clock.WallClock, bus event.Bus) *Engine {
	return &Engine{
		repo:   repo,
		tuning: tuning,
		clk:    clk,
		bus:    bus,
		locks:  concurrency.NewLockManager(),
		cache:  newSetCache(CacheSize, CacheTTL),
	}
}

// GetChallengeSet returns today's set for the player, generating and
// persisting a fresh one when none exists for the current date key.
// The returned set is a deep copy: the live one stays behind the
// engine lock, so callers never race with RecordProgress.
func (e *Engine) GetChallengeSet(ctx context.Context, playerID string, selected []domain.SkillID) (*domain.ChallengeSet, error) {
	var set *domain.ChallengeSet
	err := e.locks.WithLock(lockKey(playerID), func() error {
		live, err := e.ensureSetLocked(ctx, playerID, selected)
		if err != nil {
			return err
		}
		set = live.Clone()
		return nil
	})
	return set, err
}

// ForceRegenerate discards the player's current set and generates a
// new one from the current selection. Used when skill selection
// changes mid-day so future challenges reflect the new selection.
func (e *Engine) ForceRegenerate(ctx context.Context, playerID string, selected []domain.SkillID) (*domain.ChallengeSet, error) {
	var set *domain.ChallengeSet
	err := e.locks.WithLock(lockKey(playerID), func() error {
		live := e.generate(playerID, e.clk.DateKey(), selected)
		if err := e.repo.SaveChallengeSet(ctx, live); err != nil {
			e.cache.Invalidate(playerID, live.DateKey)
			return err
		}
		e.cache.Set(live)
		set = live.Clone()
		return nil
	})
	return set, err
}

// RecordProgress advances every matching non-completed challenge in
// today's set. Completed challenges yield Rewards; clearing the whole
// set yields a one-time SetBonus. The engine publishes completion
// events; applying the XP payouts is the caller's responsibility.
func (e *Engine) RecordProgress(ctx context.Context, playerID string, selected []domain.SkillID, ctype domain.ChallengeType, skill *domain.SkillID, amount int) ([]Reward, *SetBonus, error) {
	if amount <= 0 {
		return nil, nil, nil
	}

	var rewards []Reward
	var bonus *SetBonus

	err := e.locks.WithLock(lockKey(playerID), func() error {
		set, err := e.ensureSetLocked(ctx, playerID, selected)
		if err != nil {
			return err
		}

		changed := false
		for _, c := range set.Challenges {
			if c.Completed || c.Type != ctype {
				continue
			}
			if c.RelatedSkill != nil && (skill == nil || *c.RelatedSkill != *skill) {
				continue
			}

			c.CurrentProgress += amount
			changed = true
			if c.CurrentProgress >= c.TargetAmount {
				c.CurrentProgress = c.TargetAmount
				c.Completed = true
				rewards = append(rewards, Reward{Skill: c.RelatedSkill, XP: e.tuning.ChallengeRewardXP})
				e.publish(ctx, event.NewChallengeCompletedEvent(playerID, set.DateKey, c.Type, e.tuning.ChallengeRewardXP))
			}
		}

		if set.AllCompleted() && !set.BonusAwarded {
			set.BonusAwarded = true
			changed = true
			if len(selected) > 0 {
				bonus = &SetBonus{
					Skills:     append([]domain.SkillID{}, selected...),
					XPPerSkill: e.tuning.ChallengeSetBonusXP / len(selected),
				}
			}
			e.publish(ctx, event.NewAllChallengesClearedEvent(playerID, set.DateKey, e.tuning.ChallengeSetBonusXP))
		}

		if !changed {
			return nil
		}
		if err := e.repo.SaveChallengeSet(ctx, set); err != nil {
			e.cache.Invalidate(playerID, set.DateKey)
			return err
		}
		e.cache.Set(set)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rewards, bonus, nil
}

// ensureSetLocked loads today's set or generates one. Caller holds the
// player's challenge lock.
func (e *Engine) ensureSetLocked(ctx context.Context, playerID string, selected []domain.SkillID) (*domain.ChallengeSet, error) {
	dateKey := e.clk.DateKey()

	if set, ok := e.cache.Get(playerID, dateKey); ok {
		return set, nil
	}

	set, err := e.repo.GetChallengeSet(ctx, playerID, dateKey)
	if err == nil {
		e.cache.Set(set)
		return set, nil
	}

	set = e.generate(playerID, dateKey, selected)
	if err := e.repo.SaveChallengeSet(ctx, set); err != nil {
		return nil, fmt.Errorf("failed to persist generated challenge set: %w", err)
	}
	e.cache.Set(set)
	return set, nil
}

// generate builds a reproducible set for (playerID, dateKey). The RNG
// is seeded from both, so identical inputs always produce identical
// challenges while different players or days diverge.
func (e *Engine) generate(playerID, dateKey string, selected []domain.SkillID) *domain.ChallengeSet {
	rng := rand.New(rand.NewSource(seedFor(playerID, dateKey))) //nolint:gosec

	pool := e.tuning.ChallengePool
	if len(selected) == 0 {
		pool = e.tuning.FallbackChallengePool
	}

	poolCopy := make([]domain.ChallengeTemplate, len(pool))
	copy(poolCopy, pool)
	rng.Shuffle(len(poolCopy), func(i, j int) {
		poolCopy[i], poolCopy[j] = poolCopy[j], poolCopy[i]
	})

	count := e.tuning.ChallengesPerDay
	if count > len(poolCopy) {
		count = len(poolCopy)
	}

	challenges := make([]*domain.DailyChallenge, 0, count)
	for _, tmpl := range poolCopy[:count] {
		c := &domain.DailyChallenge{
			Type:         tmpl.Type,
			TargetAmount: tmpl.MinTarget + rng.Intn(tmpl.MaxTarget-tmpl.MinTarget+1),
		}
		if tmpl.SkillBound && len(selected) > 0 {
			s := selected[rng.Intn(len(selected))]
			c.RelatedSkill = &s
		}
		challenges = append(challenges, c)
	}

	return &domain.ChallengeSet{
		PlayerID:   playerID,
		DateKey:    dateKey,
		Challenges: challenges,
	}
}

func (e *Engine) publish(ctx context.Context, evt event.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func lockKey(playerID string) string {
	return "challenge:" + playerID
}

// seedFor combines player and date hashes into the RNG seed
func seedFor(playerID, dateKey string) int64 {
	h1 := fnv.New64a()
	h1.Write([]byte(playerID))
	h2 := fnv.New64a()
	h2.Write([]byte(dateKey))
	return int64(h1.Sum64() + h2.Sum64()) //nolint:gosec
}
