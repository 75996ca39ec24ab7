package synergy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/domain"
)

func TestTotalBonusNoRules(t *testing.T) {
	eval := NewEvaluator(nil)

	selected := []domain.SkillID{domain.SkillCombat, domain.SkillArchery}
	assert.Equal(t, 0.0, eval.TotalBonus(selected, domain.BonusXPRate))
	assert.Equal(t, 100.0, eval.ApplyBonus(100, selected, domain.BonusXPRate))
}

func TestTotalBonusRequiresFullPair(t *testing.T) {
	eval := NewEvaluator(config.DefaultTuning().SynergyRules)

	tests := []struct {
		name      string
		selected  []domain.SkillID
		bonusType domain.BonusType
		expected  float64
	}{
		{
			name:      "no selection",
			selected:  nil,
			bonusType: domain.BonusXPRate,
			expected:  0,
		},
		{
			name:      "half a pair",
			selected:  []domain.SkillID{domain.SkillCombat},
			bonusType: domain.BonusXPRate,
			expected:  0,
		},
		{
			name:      "single pair matched",
			selected:  []domain.SkillID{domain.SkillCombat, domain.SkillArchery},
			bonusType: domain.BonusXPRate,
			expected:  0.08,
		},
		{
			name:      "two pairs sharing a member stack",
			selected:  []domain.SkillID{domain.SkillCombat, domain.SkillArchery, domain.SkillMagic},
			bonusType: domain.BonusXPRate,
			expected:  0.16,
		},
		{
			name:      "matched pair, different bonus type",
			selected:  []domain.SkillID{domain.SkillCombat, domain.SkillArchery},
			bonusType: domain.BonusYield,
			expected:  0,
		},
		{
			name:      "yield pair",
			selected:  []domain.SkillID{domain.SkillMining, domain.SkillWoodcutting},
			bonusType: domain.BonusYield,
			expected:  0.10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, eval.TotalBonus(tt.selected, tt.bonusType), 1e-9)
		})
	}
}

func TestActiveRules(t *testing.T) {
	eval := NewEvaluator(config.DefaultTuning().SynergyRules)

	active := eval.ActiveRules([]domain.SkillID{domain.SkillCombat, domain.SkillArchery, domain.SkillMagic})

	ids := make([]string, 0, len(active))
	for _, rule := range active {
		ids = append(ids, rule.ID)
	}
	assert.ElementsMatch(t, []string{"warbow", "battlemage"}, ids)
}

func TestApplyBonusScalesBase(t *testing.T) {
	eval := NewEvaluator([]domain.SynergyRule{
		{
			ID:              "test_pair",
			RequiredSkills:  [2]domain.SkillID{domain.SkillMining, domain.SkillMagic},
			BonusType:       domain.BonusAbilityLength,
			BonusMultiplier: 0.25,
		},
	})

	selected := []domain.SkillID{domain.SkillMining, domain.SkillMagic}
	assert.InDelta(t, 500, eval.ApplyBonus(400, selected, domain.BonusAbilityLength), 1e-9)
	assert.InDelta(t, 400, eval.ApplyBonus(400, []domain.SkillID{domain.SkillMining}, domain.BonusAbilityLength), 1e-9)
}
