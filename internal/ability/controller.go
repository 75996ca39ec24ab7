package ability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emberfall-studios/skillforge/internal/achievement"
	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/clock"
	"github.com/emberfall-studios/skillforge/internal/concurrency"
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/metrics"
	"github.com/emberfall-studios/skillforge/internal/repository"
	"github.com/emberfall-studios/skillforge/internal/synergy"
)

// ProgressionGateway is the slice of the progression service the
// controller needs: record creation on first contact and challenge
// payout application.
type ProgressionGateway interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*domain.PlayerRecord, error)
	ApplyChallengeOutcome(ctx context.Context, playerID string, rewards []challenge.Reward, bonus *challenge.SetBonus, completed int) error
}

// ActivationResult describes a successful ability start
type ActivationResult struct {
	Skill         domain.SkillID `json:"skill"`
	AbilityName   string         `json:"ability_name"`
	StartTick     int64          `json:"start_tick"`
	DurationTicks int64          `json:"duration_ticks"`
	CooldownTicks int64          `json:"cooldown_ticks"`
}

// entry is one live lifecycle plus the values fixed at activation
// time. Duration is captured at start because synergy bonuses may
// change mid-window; an active window keeps the length it started with.
type entry struct {
	playerID string
	skill    domain.SkillID
	state    *domain.AbilityLifecycleState
	duration int64
}

// Controller is the single generic cooldown/active-window state
// machine shared by every skill's master ability. Lifecycle state is
// ephemeral: on restart every ability comes back idle, with cooldowns
// still enforced through the persisted LastAbilityUseTick.
type Controller struct {
	repo         repository.Progression
	tuning       *config.Tuning
	ticks        clock.TickSource
	locks        *concurrency.LockManager
	bus          event.Bus
	synergies    *synergy.Evaluator
	challenges   *challenge.Engine
	achievements *achievement.Tracker
	gateway      ProgressionGateway
	effects      *Registry

	// mu guards lifecycles and all phase transitions. The tick sweep
	// holds only mu; activation acquires the player lock first, then
	// mu, so the two never deadlock.
	mu         sync.Mutex
	lifecycles map[string]*entry
}

// NewController creates an ability controller. locks must be the same
// manager the progression service uses.
func NewController(
	repo repository.Progression,
	tuning *config.Tuning,
	ticks clock.TickSource,
	locks *concurrency.LockManager,
	bus event.Bus,
	synergies *synergy.Evaluator,
	challenges *challenge.Engine,
	achievements *achievement.Tracker,
	gateway ProgressionGateway,
	effects *Registry,
) *Controller {
	return &Controller{
		repo:         repo,
		tuning:       tuning,
		ticks:        ticks,
		locks:        locks,
		bus:          bus,
		synergies:    synergies,
		challenges:   challenges,
		achievements: achievements,
		gateway:      gateway,
		effects:      effects,
		lifecycles:   make(map[string]*entry),
	}
}

// Activate starts the skill's master ability. Gating failures come
// back as typed sentinel errors with no partial mutation; callers
// check them with errors.Is and surface a regular response.
func (c *Controller) Activate(ctx context.Context, playerID string, skill domain.SkillID) (*ActivationResult, error) {
	desc, err := domain.DescribeSkill(skill)
	if err != nil {
		return nil, err
	}
	spec := c.tuning.AbilityFor(skill)
	log := logger.FromContext(ctx)

	if _, err := c.gateway.GetOrCreatePlayer(ctx, playerID); err != nil {
		return nil, err
	}

	var result *ActivationResult
	var selected []domain.SkillID

	err = c.locks.WithLock(playerID, func() error {
		rec, err := c.repo.GetPlayer(ctx, playerID)
		if err != nil {
			return err
		}
		selected = append([]domain.SkillID{}, rec.SelectedSkills...)

		state := rec.Skills[skill]
		now := c.ticks.CurrentTick()

		if state.Level < spec.UnlockLevel {
			c.reject(ctx, playerID, skill, RejectReasonLevel)
			return fmt.Errorf("%w: %s needs level %d, has %d", domain.ErrLevelRequirement, skill, spec.UnlockLevel, state.Level)
		}

		c.mu.Lock()
		defer c.mu.Unlock()

		e := c.entryLocked(playerID, skill)
		if e.state.Phase == domain.AbilityActive {
			c.reject(ctx, playerID, skill, RejectReasonActive)
			return fmt.Errorf("%w: %s", domain.ErrAbilityActive, desc.AbilityName)
		}

		if state.LastAbilityUseTick != domain.NeverUsedTick && now-state.LastAbilityUseTick < spec.CooldownTicks {
			remaining := spec.CooldownTicks - (now - state.LastAbilityUseTick)
			c.reject(ctx, playerID, skill, RejectReasonCooldown)
			return fmt.Errorf("%w: %s ready in %d ticks", domain.ErrOnCooldown, desc.AbilityName, remaining)
		}

		state.LastAbilityUseTick = now
		rec.Skills[skill] = state
		c.achievements.IncrementAndCheck(ctx, rec, achievement.CounterAbilitiesUsed, 1)
		if err := c.repo.SavePlayer(ctx, rec); err != nil {
			return err
		}

		duration := int64(c.synergies.ApplyBonus(float64(spec.DurationTicks), rec.SelectedSkills, domain.BonusAbilityLength))
		e.state.Phase = domain.AbilityActive
		e.state.ActiveStartTick = now
		e.state.PausedRemainingTicks = 0
		e.duration = duration

		c.effects.EffectFor(skill).OnStart(ctx, playerID, e.state)
		metrics.ActiveAbilities.Inc()

		log.Info(LogMsgAbilityActivated, "player_id", playerID, "skill", skill, "ability", desc.AbilityName, "tick", now, "duration_ticks", duration)
		c.publish(ctx, event.NewAbilityStartEvent(playerID, skill, desc.AbilityName, now))

		result = &ActivationResult{
			Skill:         skill,
			AbilityName:   desc.AbilityName,
			StartTick:     now,
			DurationTicks: duration,
			CooldownTicks: spec.CooldownTicks,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.trackActivation(ctx, playerID, selected, skill)
	return result, nil
}

// PauseOrResume toggles a pausable ability between its active window
// and a stored remainder. Pausing does not restart the cooldown;
// resuming replays the remainder via a synthetic start tick so the
// total active duration is preserved.
func (c *Controller) PauseOrResume(ctx context.Context, playerID string, skill domain.SkillID) error {
	desc, err := domain.DescribeSkill(skill)
	if err != nil {
		return err
	}
	if !desc.SupportsPause {
		return fmt.Errorf("%w: %s", domain.ErrAbilityNotPausable, desc.AbilityName)
	}

	log := logger.FromContext(ctx)
	now := c.ticks.CurrentTick()

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(playerID, skill)
	switch {
	case e.state.Phase == domain.AbilityActive:
		remaining := e.duration - (now - e.state.ActiveStartTick)
		if remaining <= 0 {
			c.expireLocked(ctx, e, now)
			return nil
		}
		e.state.Phase = domain.AbilityPaused
		e.state.PausedRemainingTicks = remaining
		metrics.ActiveAbilities.Dec()
		log.Info(LogMsgAbilityPaused, "player_id", playerID, "skill", skill, "remaining_ticks", remaining)
		c.publish(ctx, event.NewAbilityEndEvent(playerID, skill, desc.AbilityName, now, EndReasonPaused))
		return nil

	case e.state.Phase == domain.AbilityPaused && e.state.PausedRemainingTicks > 0:
		e.state.ActiveStartTick = now - (e.duration - e.state.PausedRemainingTicks)
		e.state.PausedRemainingTicks = 0
		e.state.Phase = domain.AbilityActive
		metrics.ActiveAbilities.Inc()
		log.Info(LogMsgAbilityResumed, "player_id", playerID, "skill", skill, "tick", now)
		c.publish(ctx, event.NewAbilityStartEvent(playerID, skill, desc.AbilityName, now))
		return nil

	default:
		return fmt.Errorf("%w: %s", domain.ErrNothingToResume, desc.AbilityName)
	}
}

// Lifecycle returns a snapshot of the current lifecycle state for one
// player and skill.
func (c *Controller) Lifecycle(playerID string, skill domain.SkillID) domain.AbilityLifecycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.entryLocked(playerID, skill).state
}

// TickAll sweeps every live lifecycle: active effects get their
// bounded work budget, expired windows transition to idle. Called once
// per real-time second (every 20th simulation tick); finer cadences
// are wasteful, coarser ones risk visibly late expiry.
func (c *Controller) TickAll(ctx context.Context, nowTick int64) {
	start := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.lifecycles {
		if e.state.Phase != domain.AbilityActive {
			continue
		}
		if nowTick-e.state.ActiveStartTick >= e.duration {
			c.expireLocked(ctx, e, nowTick)
			continue
		}
		spec := c.tuning.AbilityFor(e.skill)
		c.effects.EffectFor(e.skill).OnTick(ctx, e.playerID, e.state, spec.MaxUnitsPerTick)
	}

	metrics.TickSweepDuration.Observe(time.Since(start).Seconds())
}

// Tick drives a single lifecycle, for hosts that tick per player and
// skill instead of sweeping.
func (c *Controller) Tick(ctx context.Context, playerID string, skill domain.SkillID, nowTick int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(playerID, skill)
	if e.state.Phase != domain.AbilityActive {
		return
	}
	if nowTick-e.state.ActiveStartTick >= e.duration {
		c.expireLocked(ctx, e, nowTick)
		return
	}
	spec := c.tuning.AbilityFor(skill)
	c.effects.EffectFor(skill).OnTick(ctx, playerID, e.state, spec.MaxUnitsPerTick)
}

// Evict drops all lifecycle state for a player, bounding memory when
// a player disconnects. Cooldowns survive through the persisted record.
func (c *Controller) Evict(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.lifecycles {
		if e.playerID == playerID {
			if e.state.Phase == domain.AbilityActive {
				metrics.ActiveAbilities.Dec()
			}
			delete(c.lifecycles, key)
		}
	}
}

// expireLocked transitions an active entry to idle. Caller holds mu.
func (c *Controller) expireLocked(ctx context.Context, e *entry, nowTick int64) {
	e.state.Phase = domain.AbilityIdle
	e.state.PausedRemainingTicks = 0
	metrics.ActiveAbilities.Dec()

	desc, _ := domain.DescribeSkill(e.skill)
	c.effects.EffectFor(e.skill).OnEnd(ctx, e.playerID, e.state)

	logger.FromContext(ctx).Info(LogMsgAbilityExpired, "player_id", e.playerID, "skill", e.skill, "tick", nowTick)
	c.publish(ctx, event.NewAbilityEndEvent(e.playerID, e.skill, desc.AbilityName, nowTick, EndReasonExpired))
}

// entryLocked returns the lifecycle entry, creating an idle one
// lazily. Caller holds mu.
func (c *Controller) entryLocked(playerID string, skill domain.SkillID) *entry {
	key := playerID + "/" + string(skill)
	e, ok := c.lifecycles[key]
	if !ok {
		e = &entry{
			playerID: playerID,
			skill:    skill,
			state:    domain.NewAbilityLifecycleState(),
			duration: c.tuning.AbilityFor(skill).DurationTicks,
		}
		c.lifecycles[key] = e
	}
	return e
}

// trackActivation feeds a successful activation into the daily
// challenge engine and applies any payouts.
func (c *Controller) trackActivation(ctx context.Context, playerID string, selected []domain.SkillID, skill domain.SkillID) {
	log := logger.FromContext(ctx)

	rewards, bonus, err := c.challenges.RecordProgress(ctx, playerID, selected, domain.ChallengeUseAbility, &skill, 1)
	if err != nil {
		log.Error(LogMsgChallengeFailed, "player_id", playerID, "error", err)
		return
	}
	if err := c.gateway.ApplyChallengeOutcome(ctx, playerID, rewards, bonus, len(rewards)); err != nil {
		log.Error(LogMsgRewardApplyFailed, "player_id", playerID, "error", err)
	}
}

func (c *Controller) reject(ctx context.Context, playerID string, skill domain.SkillID, reason string) {
	metrics.AbilityRejections.WithLabelValues(reason).Inc()
	logger.FromContext(ctx).Debug(LogMsgAbilityRejected, "player_id", playerID, "skill", skill, "reason", reason)
}

func (c *Controller) publish(ctx context.Context, evt event.Event) {
	if c.bus == nil {
		return
	}
	if err := c.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}
