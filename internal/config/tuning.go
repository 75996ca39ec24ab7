package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// CurveParams are the XP curve coefficients for one skill:
// xpForLevel(n) = Base + n*Multiplier + Exponent*n².
// Base must be positive or leveling would stall at level 0; the other
// coefficients only need to be non-negative to keep the curve monotone.
type CurveParams struct {
	Base       float64 `json:"base" validate:"gt=0"`
	Multiplier float64 `json:"multiplier" validate:"gte=0"`
	Exponent   float64 `json:"exponent" validate:"gte=0"`
}

// AbilitySpec is the per-skill master ability tuning
type AbilitySpec struct {
	DurationTicks int64 `json:"duration_ticks" validate:"gt=0"`
	CooldownTicks int64 `json:"cooldown_ticks" validate:"gt=0"`
	UnlockLevel   int   `json:"unlock_level" validate:"gte=0"`
	// MaxUnitsPerTick bounds how much area work an effect may process
	// in a single tick; remaining work resumes on later ticks.
	MaxUnitsPerTick int `json:"max_units_per_tick" validate:"gt=0"`
}

// AchievementTier is one threshold of an achievement counter
type AchievementTier struct {
	Threshold int64  `json:"threshold" validate:"gt=0"`
	GrantID   string `json:"grant_id" validate:"required"`
}

// Tuning is the immutable progression configuration. It is loaded once
// at startup, validated, and passed by reference into the components;
// nothing mutates it afterwards.
type Tuning struct {
	// HardCap is the absolute level ceiling (reference config: 100).
	// Without a paragon assignment a skill stops at HardCap-1; the one
	// paragon skill may reach HardCap itself.
	HardCap int `json:"hard_cap" validate:"gt=1"`

	MaxPrestige             int     `json:"max_prestige" validate:"gt=0"`
	XPBonusPerPrestige      float64 `json:"xp_bonus_per_prestige" validate:"gte=0"`
	PassiveBonusPerPrestige float64 `json:"passive_bonus_per_prestige" validate:"gte=0"`

	DefaultCurve CurveParams                    `json:"default_curve" validate:"required"`
	SkillCurves  map[domain.SkillID]CurveParams `json:"skill_curves,omitempty" validate:"omitempty,dive"`

	Milestones []int `json:"milestones" validate:"dive,gt=0"`

	DefaultAbility AbilitySpec                    `json:"default_ability" validate:"required"`
	Abilities      map[domain.SkillID]AbilitySpec `json:"abilities,omitempty" validate:"omitempty,dive"`

	SynergyRules []domain.SynergyRule `json:"synergy_rules" validate:"dive"`

	ChallengePool         []domain.ChallengeTemplate `json:"challenge_pool" validate:"min=1,dive"`
	FallbackChallengePool []domain.ChallengeTemplate `json:"fallback_challenge_pool" validate:"min=1,dive"`
	ChallengesPerDay      int                        `json:"challenges_per_day" validate:"gt=0"`
	ChallengeRewardXP     int                        `json:"challenge_reward_xp" validate:"gt=0"`
	ChallengeSetBonusXP   int                        `json:"challenge_set_bonus_xp" validate:"gt=0"`

	Achievements map[string][]AchievementTier `json:"achievements,omitempty" validate:"omitempty,dive,dive"`
}

// DefaultTuning returns the reference configuration
func DefaultTuning() *Tuning {
	return &Tuning{
		HardCap:                 100,
		MaxPrestige:             10,
		XPBonusPerPrestige:      0.05,
		PassiveBonusPerPrestige: 0.02,
		DefaultCurve:            CurveParams{Base: 60, Multiplier: 15, Exponent: 2},
		Milestones:              []int{10, 25, 50, 75, 100},
		DefaultAbility: AbilitySpec{
			DurationTicks:   20 * 15, // 15s
			CooldownTicks:   20 * 240,
			UnlockLevel:     5,
			MaxUnitsPerTick: 64,
		},
		Abilities: map[domain.SkillID]AbilitySpec{
			domain.SkillMining:      {DurationTicks: 20 * 15, CooldownTicks: 20 * 240, UnlockLevel: 5, MaxUnitsPerTick: 64},
			domain.SkillWoodcutting: {DurationTicks: 20 * 15, CooldownTicks: 20 * 240, UnlockLevel: 5, MaxUnitsPerTick: 64},
			domain.SkillFishing:     {DurationTicks: 20 * 20, CooldownTicks: 20 * 300, UnlockLevel: 10, MaxUnitsPerTick: 16},
			domain.SkillFarming:     {DurationTicks: 20 * 20, CooldownTicks: 20 * 300, UnlockLevel: 10, MaxUnitsPerTick: 32},
			domain.SkillCombat:      {DurationTicks: 20 * 10, CooldownTicks: 20 * 180, UnlockLevel: 15, MaxUnitsPerTick: 8},
			domain.SkillArchery:     {DurationTicks: 20 * 10, CooldownTicks: 20 * 180, UnlockLevel: 15, MaxUnitsPerTick: 8},
			domain.SkillMagic:       {DurationTicks: 20 * 12, CooldownTicks: 20 * 270, UnlockLevel: 20, MaxUnitsPerTick: 16},
			domain.SkillAlchemy:     {DurationTicks: 20 * 30, CooldownTicks: 20 * 360, UnlockLevel: 20, MaxUnitsPerTick: 16},
		},
		SynergyRules: []domain.SynergyRule{
			{ID: "lumber_camp", RequiredSkills: [2]domain.SkillID{domain.SkillMining, domain.SkillWoodcutting}, BonusType: domain.BonusYield, BonusMultiplier: 0.10},
			{ID: "provisioner", RequiredSkills: [2]domain.SkillID{domain.SkillFishing, domain.SkillFarming}, BonusType: domain.BonusYield, BonusMultiplier: 0.10},
			{ID: "warbow", RequiredSkills: [2]domain.SkillID{domain.SkillCombat, domain.SkillArchery}, BonusType: domain.BonusXPRate, BonusMultiplier: 0.08},
			{ID: "battlemage", RequiredSkills: [2]domain.SkillID{domain.SkillCombat, domain.SkillMagic}, BonusType: domain.BonusXPRate, BonusMultiplier: 0.08},
			{ID: "transmuter", RequiredSkills: [2]domain.SkillID{domain.SkillMagic, domain.SkillAlchemy}, BonusType: domain.BonusAbilityLength, BonusMultiplier: 0.12},
			{ID: "herbal_brews", RequiredSkills: [2]domain.SkillID{domain.SkillFarming, domain.SkillAlchemy}, BonusType: domain.BonusPassive, BonusMultiplier: 0.05},
			{ID: "deep_delver", RequiredSkills: [2]domain.SkillID{domain.SkillMining, domain.SkillMagic}, BonusType: domain.BonusPassive, BonusMultiplier: 0.05},
		},
		ChallengePool: []domain.ChallengeTemplate{
			{Type: domain.ChallengeGainXP, SkillBound: true, MinTarget: 500, MaxTarget: 2000},
			{Type: domain.ChallengeUseAbility, SkillBound: true, MinTarget: 1, MaxTarget: 3},
			{Type: domain.ChallengeLevelUp, SkillBound: true, MinTarget: 1, MaxTarget: 2},
			{Type: domain.ChallengeEarnSynergy, SkillBound: false, MinTarget: 300, MaxTarget: 1000},
		},
		FallbackChallengePool: []domain.ChallengeTemplate{
			{Type: domain.ChallengeGainXP, SkillBound: false, MinTarget: 250, MaxTarget: 1000},
			{Type: domain.ChallengeLevelUp, SkillBound: false, MinTarget: 1, MaxTarget: 1},
			{Type: domain.ChallengeEarnSynergy, SkillBound: false, MinTarget: 150, MaxTarget: 500},
		},
		ChallengesPerDay:    3,
		ChallengeRewardXP:   250,
		ChallengeSetBonusXP: 600,
		Achievements: map[string][]AchievementTier{
			"xp_gained_total": {
				{Threshold: 10_000, GrantID: "grant_xp_novice"},
				{Threshold: 100_000, GrantID: "grant_xp_adept"},
				{Threshold: 1_000_000, GrantID: "grant_xp_master"},
			},
			"abilities_used": {
				{Threshold: 10, GrantID: "grant_ability_initiate"},
				{Threshold: 250, GrantID: "grant_ability_veteran"},
			},
			"challenges_completed": {
				{Threshold: 5, GrantID: "grant_challenge_regular"},
				{Threshold: 50, GrantID: "grant_challenge_devotee"},
			},
			"prestige_earned": {
				{Threshold: 1, GrantID: "grant_first_prestige"},
				{Threshold: 10, GrantID: "grant_prestige_collector"},
			},
		},
	}
}

// LoadTuning reads tuning from path, or returns the defaults when path
// is empty. The result is always validated; invalid tuning is a
// startup failure, never discovered mid-game.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read tuning file: %w", err)
		}
		if err := json.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("failed to parse tuning file: %w", err)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// CurveFor returns the XP curve for a skill, falling back to the
// default curve when no per-skill override exists
func (t *Tuning) CurveFor(skill domain.SkillID) CurveParams {
	if c, ok := t.SkillCurves[skill]; ok {
		return c
	}
	return t.DefaultCurve
}

// AbilityFor returns the ability spec for a skill, falling back to the
// default spec when no per-skill override exists
func (t *Tuning) AbilityFor(skill domain.SkillID) AbilitySpec {
	if a, ok := t.Abilities[skill]; ok {
		return a
	}
	return t.DefaultAbility
}
