package domain

// ChallengeType classifies daily challenges
type ChallengeType string

const (
	ChallengeGainXP      ChallengeType = "gain_xp"
	ChallengeUseAbility  ChallengeType = "use_ability"
	ChallengeLevelUp     ChallengeType = "level_up"
	ChallengeEarnSynergy ChallengeType = "earn_synergy_xp"
)

// DailyChallenge is a single challenge within a player's daily set
type DailyChallenge struct {
	Type            ChallengeType `json:"type"`
	TargetAmount    int           `json:"target_amount"`
	RelatedSkill    *SkillID      `json:"related_skill,omitempty"`
	CurrentProgress int           `json:"current_progress"`
	Completed       bool          `json:"completed"`
}

// ChallengeSet bundles one calendar day's challenges for a player
type ChallengeSet struct {
	PlayerID     string            `json:"player_id"`
	DateKey      string            `json:"date_key"`
	Challenges   []*DailyChallenge `json:"challenges"`
	BonusAwarded bool              `json:"bonus_awarded"`
}

// Clone returns a deep copy. Callers outside the challenge engine's
// lock only ever see clones, never the live cached set.
func (s *ChallengeSet) Clone() *ChallengeSet {
	out := &ChallengeSet{
		PlayerID:     s.PlayerID,
		DateKey:      s.DateKey,
		BonusAwarded: s.BonusAwarded,
		Challenges:   make([]*DailyChallenge, len(s.Challenges)),
	}
	for i, c := range s.Challenges {
		cc := *c
		if c.RelatedSkill != nil {
			skill := *c.RelatedSkill
			cc.RelatedSkill = &skill
		}
		out.Challenges[i] = &cc
	}
	return out
}

// AllCompleted reports whether every challenge in the set is done
func (s *ChallengeSet) AllCompleted() bool {
	if len(s.Challenges) == 0 {
		return false
	}
	for _, c := range s.Challenges {
		if !c.Completed {
			return false
		}
	}
	return true
}

// ChallengeTemplate describes one entry of the configured challenge
// pool: the type, whether it binds to a selected skill, and the range
// the target amount is drawn from.
type ChallengeTemplate struct {
	Type ChallengeType `json:"type" validate:"required"`
	// SkillBound templates attach to one of the player's selected
	// skills; unbound templates form the fallback pool used when the
	// player has no selection.
	SkillBound bool `json:"skill_bound"`
	MinTarget  int  `json:"min_target" validate:"gt=0"`
	MaxTarget  int  `json:"max_target" validate:"gtefield=MinTarget"`
}
