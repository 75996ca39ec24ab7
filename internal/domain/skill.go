package domain

import (
	"fmt"
	"strings"
)

// SkillID identifies one of the progression skills
type SkillID string

const (
	SkillMining      SkillID = "mining"
	SkillWoodcutting SkillID = "woodcutting"
	SkillFishing     SkillID = "fishing"
	SkillFarming     SkillID = "farming"
	SkillCombat      SkillID = "combat"
	SkillArchery     SkillID = "archery"
	SkillMagic       SkillID = "magic"
	SkillAlchemy     SkillID = "alchemy"
)

// AllSkills returns every known skill in stable order
func AllSkills() []SkillID {
	return []SkillID{
		SkillMining,
		SkillWoodcutting,
		SkillFishing,
		SkillFarming,
		SkillCombat,
		SkillArchery,
		SkillMagic,
		SkillAlchemy,
	}
}

// IsValidSkill reports whether the id names a known skill
func IsValidSkill(id SkillID) bool {
	switch id {
	case SkillMining, SkillWoodcutting, SkillFishing, SkillFarming,
		SkillCombat, SkillArchery, SkillMagic, SkillAlchemy:
		return true
	}
	return false
}

// ParseSkill converts a string (case-insensitive) to a SkillID.
// Unknown names return ErrSkillNotFound so callers can skip-and-log.
func ParseSkill(s string) (SkillID, error) {
	id := SkillID(strings.ToLower(strings.TrimSpace(s)))
	if !IsValidSkill(id) {
		return "", fmt.Errorf("%w: %q", ErrSkillNotFound, s)
	}
	return id, nil
}

// SkillDescriptor holds the per-skill constants that were previously
// re-derived by switch statements at every call site. Components that
// need skill-specific values consult this registry instead.
type SkillDescriptor struct {
	ID          SkillID `json:"id"`
	DisplayName string  `json:"display_name"`
	AbilityName string  `json:"ability_name"`
	// SupportsPause marks abilities whose active window can be
	// interrupted and resumed (area-fill style abilities).
	SupportsPause bool `json:"supports_pause"`
}

var skillDescriptors = map[SkillID]SkillDescriptor{
	SkillMining:      {ID: SkillMining, DisplayName: "Mining", AbilityName: "Giga Drill Breaker", SupportsPause: true},
	SkillWoodcutting: {ID: SkillWoodcutting, DisplayName: "Woodcutting", AbilityName: "Timber!", SupportsPause: true},
	SkillFishing:     {ID: SkillFishing, DisplayName: "Fishing", AbilityName: "Grand Trawl"},
	SkillFarming:     {ID: SkillFarming, DisplayName: "Farming", AbilityName: "Verdant Surge"},
	SkillCombat:      {ID: SkillCombat, DisplayName: "Combat", AbilityName: "Berserker Rage"},
	SkillArchery:     {ID: SkillArchery, DisplayName: "Archery", AbilityName: "Eagle Eye"},
	SkillMagic:       {ID: SkillMagic, DisplayName: "Magic", AbilityName: "Arcane Overflow"},
	SkillAlchemy:     {ID: SkillAlchemy, DisplayName: "Alchemy", AbilityName: "Philosopher's Haste"},
}

// DescribeSkill returns the descriptor for a skill
func DescribeSkill(id SkillID) (SkillDescriptor, error) {
	d, ok := skillDescriptors[id]
	if !ok {
		return SkillDescriptor{}, fmt.Errorf("%w: %q", ErrSkillNotFound, id)
	}
	return d, nil
}
