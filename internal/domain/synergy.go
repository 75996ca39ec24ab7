package domain

// BonusType classifies what a synergy bonus applies to
type BonusType string

const (
	BonusXPRate        BonusType = "xp_rate"
	BonusYield         BonusType = "yield"
	BonusAbilityLength BonusType = "ability_length"
	BonusPassive       BonusType = "passive"
)

// SynergyRule pairs exactly two skills with a bonus. Loaded once at
// startup and treated as immutable afterwards.
type SynergyRule struct {
	ID              string     `json:"id"`
	RequiredSkills  [2]SkillID `json:"required_skills"`
	BonusType       BonusType  `json:"bonus_type"`
	BonusMultiplier float64    `json:"bonus_multiplier"`
}

// MatchedBy reports whether both required skills are in the selection
func (r SynergyRule) MatchedBy(selected []SkillID) bool {
	found := 0
	for _, s := range selected {
		if s == r.RequiredSkills[0] || s == r.RequiredSkills[1] {
			found++
		}
	}
	return found == 2
}
