package progression

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/emberfall-studios/skillforge/internal/achievement"
	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/concurrency"
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/metrics"
	"github.com/emberfall-studios/skillforge/internal/migration"
	"github.com/emberfall-studios/skillforge/internal/repository"
	"github.com/emberfall-studios/skillforge/internal/synergy"
)

// SkillStatus is one skill's progress plus derived curve info
type SkillStatus struct {
	domain.SkillState
	XPForNextLevel float64 `json:"xp_for_next_level"`
	AtCap          bool    `json:"at_cap"`
}

// Status is the full progression view returned to callers
type Status struct {
	PlayerID            string                         `json:"player_id"`
	Skills              map[domain.SkillID]SkillStatus `json:"skills"`
	SelectedSkills      []domain.SkillID               `json:"selected_skills"`
	ParagonSkill        *domain.SkillID                `json:"paragon_skill,omitempty"`
	ActiveSynergies     []domain.SynergyRule           `json:"active_synergies"`
	Toggles             map[string]bool                `json:"toggles"`
	AchievementCounters map[string]int64               `json:"achievement_counters"`
}

// Service defines the progression business logic
type Service interface {
	GetOrCreatePlayer(ctx context.Context, playerID string) (*domain.PlayerRecord, error)
	GetStatus(ctx context.Context, playerID string) (*Status, error)
	GrantXP(ctx context.Context, playerID string, skill domain.SkillID, amount int, source string) (*domain.XPGrantResult, error)
	SelectSkills(ctx context.Context, playerID string, skills []domain.SkillID) error
	AssignParagon(ctx context.Context, playerID string, skill domain.SkillID) error
	Prestige(ctx context.Context, playerID string, skill domain.SkillID) (*domain.PrestigeResult, error)
	SetToggle(ctx context.Context, playerID, key string, value bool) error
	PassiveOutputMultiplier(ctx context.Context, playerID string, skill domain.SkillID) (float64, error)
	ApplyChallengeOutcome(ctx context.Context, playerID string, rewards []challenge.Reward, bonus *challenge.SetBonus, completed int) error
	ImportLegacy(ctx context.Context, playerID string, blob *domain.LegacyPlayerBlob) (bool, error)
}

type service struct {
	repo         repository.Progression
	tuning       *config.Tuning
	synergies    *synergy.Evaluator
	challenges   *challenge.Engine
	achievements *achievement.Tracker
	legacy       migration.Source
	locks        *concurrency.LockManager
	bus          event.Bus
}

// NewService creates a progression service. locks must be the same
// manager shared with the ability controller so record mutations for
// one player serialize across both entry points. legacy may be nil
// when no pre-rework save exists.
func NewService(
	repo repository.Progression,
	tuning *config.Tuning,
	synergies *synergy.Evaluator,
	challenges *challenge.Engine,
	achievements *achievement.Tracker,
	legacy migration.Source,
	locks *concurrency.LockManager,
	bus event.Bus,
) Service {
	return &service{
		repo:         repo,
		tuning:       tuning,
		synergies:    synergies,
		challenges:   challenges,
		achievements: achievements,
		legacy:       legacy,
		locks:        locks,
		bus:          bus,
	}
}

// GetOrCreatePlayer loads the record, creating (and legacy-migrating)
// a fresh one on first contact.
func (s *service) GetOrCreatePlayer(ctx context.Context, playerID string) (*domain.PlayerRecord, error) {
	var rec *domain.PlayerRecord
	err := s.locks.WithLock(playerID, func() error {
		var err error
		rec, err = s.getOrCreateLocked(ctx, playerID)
		return err
	})
	return rec, err
}

// GetStatus returns the full progression view for a player
func (s *service) GetStatus(ctx context.Context, playerID string) (*Status, error) {
	rec, err := s.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	skills := make(map[domain.SkillID]SkillStatus, len(rec.Skills))
	for id, state := range rec.Skills {
		skills[id] = SkillStatus{
			SkillState:     state,
			XPForNextLevel: XPForLevel(s.tuning.CurveFor(id), state.Level),
			AtCap:          state.Level >= s.maxLevelAllowed(rec, id),
		}
	}

	return &Status{
		PlayerID:            rec.PlayerID,
		Skills:              skills,
		SelectedSkills:      rec.SelectedSkills,
		ParagonSkill:        rec.ParagonSkill,
		ActiveSynergies:     s.synergies.ActiveRules(rec.SelectedSkills),
		Toggles:             rec.Toggles,
		AchievementCounters: rec.AchievementCounters,
	}, nil
}

// GrantXP applies an XP grant to a selected skill, resolving prestige
// and synergy multipliers, multi-level-up, and the paragon cap. Gated
// grants return Applied=false with no mutation and no error.
func (s *service) GrantXP(ctx context.Context, playerID string, skill domain.SkillID, amount int, source string) (*domain.XPGrantResult, error) {
	if !domain.IsValidSkill(skill) {
		return nil, fmt.Errorf("%w: %q", domain.ErrSkillNotFound, skill)
	}
	if amount <= 0 {
		return &domain.XPGrantResult{Skill: skill}, nil
	}

	log := logger.FromContext(ctx)

	var result *domain.XPGrantResult
	var selected []domain.SkillID
	var synergyExtra int

	err := s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}
		selected = append([]domain.SkillID{}, rec.SelectedSkills...)

		state := rec.Skills[skill]
		if len(rec.SelectedSkills) == 0 || !rec.IsSelected(skill) || state.Level >= s.maxLevelAllowed(rec, skill) {
			log.Debug(LogMsgXPGateNoop, "player_id", playerID, "skill", skill)
			result = &domain.XPGrantResult{Skill: skill}
			return nil
		}

		prestigeAdjusted := float64(amount) * XPMultiplier(s.tuning, state.Prestige)
		adjusted := int(math.Round(s.synergies.ApplyBonus(prestigeAdjusted, rec.SelectedSkills, domain.BonusXPRate)))
		synergyExtra = adjusted - int(math.Round(prestigeAdjusted))

		result, err = s.applyXPLocked(ctx, rec, skill, adjusted, source)
		if err != nil {
			return err
		}
		return s.repo.SavePlayer(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	// Challenge tracking happens outside the player lock; reward
	// application re-acquires it.
	if result.Applied {
		s.trackGrantChallenges(ctx, playerID, selected, skill, result, synergyExtra)
	}
	return result, nil
}

// applyXPLocked adds already-adjusted XP to a selected skill and walks
// the level-up loop. Caller holds the player lock, has verified the
// gates, and saves the record.
func (s *service) applyXPLocked(ctx context.Context, rec *domain.PlayerRecord, skill domain.SkillID, adjusted int, source string) (*domain.XPGrantResult, error) {
	log := logger.FromContext(ctx)

	state := rec.Skills[skill]
	maxAllowed := s.maxLevelAllowed(rec, skill)
	curve := s.tuning.CurveFor(skill)

	oldLevel := state.Level
	state.XP += float64(adjusted)

	var milestones []int
	for state.XP >= XPForLevel(curve, state.Level) && state.Level < maxAllowed {
		state.XP -= XPForLevel(curve, state.Level)
		state.Level++
		for _, m := range s.tuning.Milestones {
			if m == state.Level {
				milestones = append(milestones, m)
			}
		}
	}

	// Excess XP at the cap is discarded, not banked.
	if state.Level >= maxAllowed {
		state.XP = 0
	}

	rec.Skills[skill] = state
	s.achievements.IncrementAndCheck(ctx, rec, achievement.CounterXPGained, int64(adjusted))

	result := &domain.XPGrantResult{
		Skill:      skill,
		Applied:    true,
		XPGained:   adjusted,
		OldLevel:   oldLevel,
		NewLevel:   state.Level,
		Milestones: milestones,
	}

	metrics.XPGranted.WithLabelValues(string(skill)).Add(float64(adjusted))
	log.Info(LogMsgXPGranted, "player_id", rec.PlayerID, "skill", skill, "xp", adjusted, "source", source)

	if result.LeveledUp() {
		log.Info(LogMsgLevelUp, "player_id", rec.PlayerID, "skill", skill, "old_level", oldLevel, "new_level", state.Level)
		s.publish(ctx, event.NewLevelUpEvent(rec.PlayerID, skill, oldLevel, state.Level, source))
		for _, m := range milestones {
			s.publish(ctx, event.NewMilestoneEvent(rec.PlayerID, skill, m))
		}
	}

	return result, nil
}

// trackGrantChallenges feeds a successful grant into the daily
// challenge engine and applies any payouts it produced.
func (s *service) trackGrantChallenges(ctx context.Context, playerID string, selected []domain.SkillID, skill domain.SkillID, result *domain.XPGrantResult, synergyExtra int) {
	log := logger.FromContext(ctx)

	var rewards []challenge.Reward
	var bonus *challenge.SetBonus
	completed := 0

	record := func(ctype domain.ChallengeType, related *domain.SkillID, amount int) {
		r, b, err := s.challenges.RecordProgress(ctx, playerID, selected, ctype, related, amount)
		if err != nil {
			log.Error(LogMsgChallengeTrackFailed, "player_id", playerID, "type", ctype, "error", err)
			return
		}
		rewards = append(rewards, r...)
		completed += len(r)
		if b != nil {
			bonus = b
		}
	}

	record(domain.ChallengeGainXP, &skill, result.XPGained)
	if result.LeveledUp() {
		record(domain.ChallengeLevelUp, &skill, result.NewLevel-result.OldLevel)
	}
	if synergyExtra > 0 {
		record(domain.ChallengeEarnSynergy, &skill, synergyExtra)
	}

	if err := s.ApplyChallengeOutcome(ctx, playerID, rewards, bonus, completed); err != nil {
		log.Error(LogMsgRewardApplyFailed, "player_id", playerID, "error", err)
	}
}

// ApplyChallengeOutcome applies challenge payouts to the player's
// record: per-challenge rewards into their related skill, the set
// bonus split across the skills captured at completion time, and the
// challenges-completed achievement counter. Reward XP does not feed
// back into challenge progress.
func (s *service) ApplyChallengeOutcome(ctx context.Context, playerID string, rewards []challenge.Reward, bonus *challenge.SetBonus, completed int) error {
	if len(rewards) == 0 && bonus == nil && completed == 0 {
		return nil
	}

	return s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}

		for _, reward := range rewards {
			targets := s.rewardTargets(rec, reward.Skill)
			for _, t := range targets {
				if _, err := s.applyRewardLocked(ctx, rec, t, reward.XP/len(targets), SourceChallengeReward); err != nil {
					return err
				}
			}
		}

		if bonus != nil {
			for _, skill := range bonus.Skills {
				if !rec.IsSelected(skill) {
					continue
				}
				if _, err := s.applyRewardLocked(ctx, rec, skill, bonus.XPPerSkill, SourceChallengeBonus); err != nil {
					return err
				}
			}
		}

		if completed > 0 {
			s.achievements.IncrementAndCheck(ctx, rec, achievement.CounterChallengesCompleted, int64(completed))
		}

		return s.repo.SavePlayer(ctx, rec)
	})
}

// rewardTargets resolves where a reward lands: its related skill when
// selected, the whole selection for unbound rewards, nothing when the
// related skill was deselected since completion.
func (s *service) rewardTargets(rec *domain.PlayerRecord, skill *domain.SkillID) []domain.SkillID {
	if skill != nil {
		if rec.IsSelected(*skill) {
			return []domain.SkillID{*skill}
		}
		return nil
	}
	return append([]domain.SkillID{}, rec.SelectedSkills...)
}

// applyRewardLocked grants reward XP under the already-held lock,
// honoring the same cap gate as normal grants.
func (s *service) applyRewardLocked(ctx context.Context, rec *domain.PlayerRecord, skill domain.SkillID, amount int, source string) (*domain.XPGrantResult, error) {
	if amount <= 0 {
		return &domain.XPGrantResult{Skill: skill}, nil
	}
	state := rec.Skills[skill]
	if state.Level >= s.maxLevelAllowed(rec, skill) {
		return &domain.XPGrantResult{Skill: skill}, nil
	}
	adjusted := int(math.Round(float64(amount) * XPMultiplier(s.tuning, state.Prestige)))
	return s.applyXPLocked(ctx, rec, skill, adjusted, source)
}

// SelectSkills replaces the player's selection (0..3 skills) and
// regenerates today's challenges against the new selection.
func (s *service) SelectSkills(ctx context.Context, playerID string, skills []domain.SkillID) error {
	if len(skills) > domain.MaxSelectedSkills {
		return fmt.Errorf("%w: %d > %d", domain.ErrTooManySkills, len(skills), domain.MaxSelectedSkills)
	}

	deduped := make([]domain.SkillID, 0, len(skills))
	for _, skill := range skills {
		if !domain.IsValidSkill(skill) {
			return fmt.Errorf("%w: %q", domain.ErrSkillNotFound, skill)
		}
		dup := false
		for _, existing := range deduped {
			if existing == skill {
				dup = true
				break
			}
		}
		if !dup {
			deduped = append(deduped, skill)
		}
	}

	err := s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}
		rec.SelectedSkills = deduped
		if err := s.repo.SavePlayer(ctx, rec); err != nil {
			return err
		}
		logger.FromContext(ctx).Info(LogMsgSkillsSelected, "player_id", playerID, "skills", deduped)
		return nil
	})
	if err != nil {
		return err
	}

	_, err = s.challenges.ForceRegenerate(ctx, playerID, deduped)
	return err
}

// AssignParagon designates the one skill allowed to reach the hard
// cap. Reassigning replaces the previous paragon; the paragon need not
// be selected.
func (s *service) AssignParagon(ctx context.Context, playerID string, skill domain.SkillID) error {
	if !domain.IsValidSkill(skill) {
		return fmt.Errorf("%w: %q", domain.ErrSkillNotFound, skill)
	}

	return s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}
		rec.ParagonSkill = &skill
		if err := s.repo.SavePlayer(ctx, rec); err != nil {
			return err
		}
		logger.FromContext(ctx).Info(LogMsgParagonAssigned, "player_id", playerID, "skill", skill)
		return nil
	})
}

// Prestige resets a capped skill for a permanent multiplier. Cooldown
// and ability lifecycle state are untouched.
func (s *service) Prestige(ctx context.Context, playerID string, skill domain.SkillID) (*domain.PrestigeResult, error) {
	if !domain.IsValidSkill(skill) {
		return nil, fmt.Errorf("%w: %q", domain.ErrSkillNotFound, skill)
	}

	var result *domain.PrestigeResult
	err := s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}

		state := rec.Skills[skill]
		if state.Prestige >= s.tuning.MaxPrestige {
			return fmt.Errorf("%w: %s at rank %d", domain.ErrPrestigeCapReached, skill, state.Prestige)
		}
		if state.Level < s.tuning.HardCap {
			return fmt.Errorf("%w: %s at level %d, need %d", domain.ErrPrestigeUnavailable, skill, state.Level, s.tuning.HardCap)
		}

		state.Prestige++
		state.Level = 1
		state.XP = 0
		rec.Skills[skill] = state

		s.achievements.IncrementAndCheck(ctx, rec, achievement.CounterPrestigeEarned, 1)

		if err := s.repo.SavePlayer(ctx, rec); err != nil {
			return err
		}

		logger.FromContext(ctx).Info(LogMsgPrestigeApplied, "player_id", playerID, "skill", skill, "rank", state.Prestige)
		s.publish(ctx, event.NewPrestigeEvent(playerID, skill, state.Prestige))
		metrics.Prestiges.WithLabelValues(string(skill)).Inc()

		result = &domain.PrestigeResult{Skill: skill, NewRank: state.Prestige}
		return nil
	})
	return result, err
}

// SetToggle flips a named per-skill feature switch
func (s *service) SetToggle(ctx context.Context, playerID, key string, value bool) error {
	return s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}
		rec.Toggles[key] = value
		if err := s.repo.SavePlayer(ctx, rec); err != nil {
			return err
		}
		logger.FromContext(ctx).Info(LogMsgToggleSet, "player_id", playerID, "key", key, "value", value)
		return nil
	})
}

// PassiveOutputMultiplier combines the skill's prestige passive bonus
// with active passive synergies, for external attribute calculators.
func (s *service) PassiveOutputMultiplier(ctx context.Context, playerID string, skill domain.SkillID) (float64, error) {
	if !domain.IsValidSkill(skill) {
		return 0, fmt.Errorf("%w: %q", domain.ErrSkillNotFound, skill)
	}
	rec, err := s.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		return 0, err
	}
	base := PassiveMultiplier(s.tuning, rec.Skills[skill].Prestige)
	return s.synergies.ApplyBonus(base, rec.SelectedSkills, domain.BonusPassive), nil
}

// ImportLegacy migrates a legacy blob into the player's record. It is
// a no-op when the record already shows progress in the current
// format. Returns whether the record was mutated.
func (s *service) ImportLegacy(ctx context.Context, playerID string, blob *domain.LegacyPlayerBlob) (bool, error) {
	migrated := false
	err := s.locks.WithLock(playerID, func() error {
		rec, err := s.getOrCreateLocked(ctx, playerID)
		if err != nil {
			return err
		}
		migrated = migration.Apply(ctx, rec, blob, s.tuning.HardCap)
		if !migrated {
			return nil
		}
		return s.repo.SavePlayer(ctx, rec)
	})
	return migrated, err
}

// getOrCreateLocked loads a record, creating a fresh one (with legacy
// migration when a pre-rework blob exists) on first contact. Caller
// holds the player lock.
func (s *service) getOrCreateLocked(ctx context.Context, playerID string) (*domain.PlayerRecord, error) {
	rec, err := s.repo.GetPlayer(ctx, playerID)
	if err == nil {
		return rec, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	rec = domain.NewPlayerRecord(playerID)
	if s.legacy != nil {
		blob, err := s.legacy.Lookup(ctx, playerID)
		if err != nil {
			logger.FromContext(ctx).Warn("Legacy lookup failed, starting fresh", "player_id", playerID, "error", err)
		} else {
			migration.Apply(ctx, rec, blob, s.tuning.HardCap)
		}
	}

	if err := s.repo.SavePlayer(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// maxLevelAllowed is hardCap for the paragon skill, hardCap-1 for
// everything else.
func (s *service) maxLevelAllowed(rec *domain.PlayerRecord, skill domain.SkillID) int {
	if rec.IsParagon(skill) {
		return s.tuning.HardCap
	}
	return s.tuning.HardCap - 1
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Error(LogMsgPublishFailed, "event_type", evt.Type, "error", err)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrPlayerNotFound)
}
