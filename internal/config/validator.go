package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

var validate = validator.New()

// Validate checks the tuning for structural and semantic problems.
// Everything here is a ConfigurationFailure: the process must refuse
// to start rather than stall leveling or mis-seed challenges later.
func (t *Tuning) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	for skill, c := range t.SkillCurves {
		if !domain.IsValidSkill(skill) {
			return fmt.Errorf("%w: curve override for unknown skill %q", domain.ErrInvalidConfig, skill)
		}
		if c.Base <= 0 {
			return fmt.Errorf("%w: non-positive curve base for skill %q would stall leveling", domain.ErrInvalidConfig, skill)
		}
	}

	for skill := range t.Abilities {
		if !domain.IsValidSkill(skill) {
			return fmt.Errorf("%w: ability spec for unknown skill %q", domain.ErrInvalidConfig, skill)
		}
	}

	seen := make(map[string]bool, len(t.SynergyRules))
	for _, rule := range t.SynergyRules {
		if rule.ID == "" {
			return fmt.Errorf("%w: synergy rule without id", domain.ErrInvalidConfig)
		}
		if seen[rule.ID] {
			return fmt.Errorf("%w: duplicate synergy rule %q", domain.ErrInvalidConfig, rule.ID)
		}
		seen[rule.ID] = true
		if rule.RequiredSkills[0] == rule.RequiredSkills[1] {
			return fmt.Errorf("%w: synergy rule %q pairs a skill with itself", domain.ErrInvalidConfig, rule.ID)
		}
		for _, s := range rule.RequiredSkills {
			if !domain.IsValidSkill(s) {
				return fmt.Errorf("%w: synergy rule %q references unknown skill %q", domain.ErrInvalidConfig, rule.ID, s)
			}
		}
		if rule.BonusMultiplier <= 0 {
			return fmt.Errorf("%w: synergy rule %q has non-positive multiplier", domain.ErrInvalidConfig, rule.ID)
		}
	}

	// The fallback pool is used when nothing is selected, so it must
	// not contain skill-bound templates.
	for _, tmpl := range t.FallbackChallengePool {
		if tmpl.SkillBound {
			return fmt.Errorf("%w: fallback challenge pool contains skill-bound template %q", domain.ErrInvalidConfig, tmpl.Type)
		}
	}

	if t.ChallengesPerDay > len(t.ChallengePool) {
		return fmt.Errorf("%w: challenges_per_day %d exceeds pool size %d", domain.ErrInvalidConfig, t.ChallengesPerDay, len(t.ChallengePool))
	}
	if t.ChallengesPerDay > len(t.FallbackChallengePool) {
		return fmt.Errorf("%w: challenges_per_day %d exceeds fallback pool size %d", domain.ErrInvalidConfig, t.ChallengesPerDay, len(t.FallbackChallengePool))
	}

	return nil
}
