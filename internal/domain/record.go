package domain

// NeverUsedTick is the sentinel stored in LastAbilityUseTick for a
// skill whose ability has never been activated. It bypasses the
// cooldown check on the first activation.
const NeverUsedTick int64 = -1

// MaxSelectedSkills is the hard limit on concurrently selected skills
const MaxSelectedSkills = 3

// SkillState is one player's progress in a single skill
type SkillState struct {
	Level              int     `json:"level"`
	XP                 float64 `json:"xp"`
	Prestige           int     `json:"prestige"`
	LastAbilityUseTick int64   `json:"last_ability_use_tick"`
}

// PlayerRecord is the durable per-player progression record.
// Skills is always populated for every known SkillID.
type PlayerRecord struct {
	PlayerID            string                 `json:"player_id"`
	Skills              map[SkillID]SkillState `json:"skills"`
	ParagonSkill        *SkillID               `json:"paragon_skill,omitempty"`
	SelectedSkills      []SkillID              `json:"selected_skills"`
	Toggles             map[string]bool        `json:"toggles"`
	AchievementCounters map[string]int64       `json:"achievement_counters"`
}

// NewPlayerRecord creates a zeroed record with every skill present
func NewPlayerRecord(playerID string) *PlayerRecord {
	skills := make(map[SkillID]SkillState, len(AllSkills()))
	for _, id := range AllSkills() {
		skills[id] = SkillState{LastAbilityUseTick: NeverUsedTick}
	}
	return &PlayerRecord{
		PlayerID:            playerID,
		Skills:              skills,
		SelectedSkills:      []SkillID{},
		Toggles:             map[string]bool{},
		AchievementCounters: map[string]int64{},
	}
}

// IsSelected reports whether the skill is in the player's selection
func (r *PlayerRecord) IsSelected(skill SkillID) bool {
	for _, s := range r.SelectedSkills {
		if s == skill {
			return true
		}
	}
	return false
}

// IsParagon reports whether the skill is this player's paragon skill.
// The paragon skill need not be selected; that asymmetry is intentional.
func (r *PlayerRecord) IsParagon(skill SkillID) bool {
	return r.ParagonSkill != nil && *r.ParagonSkill == skill
}

// HasAnyProgress reports whether the record shows progress in the
// current format: any skill level above zero or a non-empty selection.
// Legacy migration is skipped for records with progress.
func (r *PlayerRecord) HasAnyProgress() bool {
	if len(r.SelectedSkills) > 0 {
		return true
	}
	for _, s := range r.Skills {
		if s.Level > 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record
func (r *PlayerRecord) Clone() *PlayerRecord {
	out := &PlayerRecord{
		PlayerID:            r.PlayerID,
		Skills:              make(map[SkillID]SkillState, len(r.Skills)),
		SelectedSkills:      append([]SkillID{}, r.SelectedSkills...),
		Toggles:             make(map[string]bool, len(r.Toggles)),
		AchievementCounters: make(map[string]int64, len(r.AchievementCounters)),
	}
	for k, v := range r.Skills {
		out.Skills[k] = v
	}
	for k, v := range r.Toggles {
		out.Toggles[k] = v
	}
	for k, v := range r.AchievementCounters {
		out.AchievementCounters[k] = v
	}
	if r.ParagonSkill != nil {
		p := *r.ParagonSkill
		out.ParagonSkill = &p
	}
	return out
}

// XPGrantResult describes the outcome of a single XP grant
type XPGrantResult struct {
	Skill    SkillID `json:"skill"`
	Applied  bool    `json:"applied"`
	XPGained int     `json:"xp_gained"`
	OldLevel int     `json:"old_level"`
	NewLevel int     `json:"new_level"`
	// Milestones lists level milestones crossed by this grant
	Milestones []int `json:"milestones,omitempty"`
}

// LeveledUp reports whether the grant raised the skill's level
func (r XPGrantResult) LeveledUp() bool {
	return r.Applied && r.NewLevel > r.OldLevel
}

// PrestigeResult describes the outcome of a prestige reset
type PrestigeResult struct {
	Skill   SkillID `json:"skill"`
	NewRank int     `json:"new_rank"`
}
