package progression

import (
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
)

// XPMultiplier is the XP scaling earned by prestige rank
func XPMultiplier(t *config.Tuning, prestige int) float64 {
	return 1 + float64(prestige)*t.XPBonusPerPrestige
}

// PassiveMultiplier is the passive-output scaling earned by prestige
// rank, consumed by external attribute calculators.
func PassiveMultiplier(t *config.Tuning, prestige int) float64 {
	return 1 + float64(prestige)*t.PassiveBonusPerPrestige
}

// CanPrestige reports whether the skill state is eligible for a
// prestige reset: at the hard cap and below the prestige ceiling.
func CanPrestige(t *config.Tuning, state domain.SkillState) bool {
	return state.Level >= t.HardCap && state.Prestige < t.MaxPrestige
}
