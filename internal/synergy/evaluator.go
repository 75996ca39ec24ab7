package synergy

import (
	"github.com/emberfall-studios/skillforge/internal/domain"
)

// Evaluator aggregates synergy bonuses over a player's selected-skill
// set. The rule table is loaded once at startup and never mutated, so
// every method is safe for concurrent use.
type Evaluator struct {
	rules []domain.SynergyRule
}

// NewEvaluator creates an evaluator over the configured rule table
func NewEvaluator(rules []domain.SynergyRule) *Evaluator {
	return &Evaluator{rules: rules}
}

// ActiveRules returns the rules whose required pair is fully contained
// in the selection
func (e *Evaluator) ActiveRules(selected []domain.SkillID) []domain.SynergyRule {
	var active []domain.SynergyRule
	for _, rule := range e.rules {
		if rule.MatchedBy(selected) {
			active = append(active, rule)
		}
	}
	return active
}

// TotalBonus sums the multipliers of active rules of the given type.
// Zero qualifying rules yield exactly 0.
func (e *Evaluator) TotalBonus(selected []domain.SkillID, bonusType domain.BonusType) float64 {
	total := 0.0
	for _, rule := range e.rules {
		if rule.BonusType == bonusType && rule.MatchedBy(selected) {
			total += rule.BonusMultiplier
		}
	}
	return total
}

// ApplyBonus scales base by the summed bonus of the given type
func (e *Evaluator) ApplyBonus(base float64, selected []domain.SkillID, bonusType domain.BonusType) float64 {
	return base * (1 + e.TotalBonus(selected, bonusType))
}
