package domain

// LegacySkillEntry is one skill's progress in the pre-rework save
// format. Field names mirror the old schema, not the current one.
type LegacySkillEntry struct {
	Level          int     `json:"level"`
	XP             float64 `json:"xp"`
	LastAbilityUse int64   `json:"lastAbilityUse"`
	Prestige       int     `json:"prestige"`
}

// LegacyPlayerBlob is the whole-world-map era save blob for a single
// player, keyed by skill name strings that may no longer parse.
type LegacyPlayerBlob struct {
	Skills           map[string]LegacySkillEntry `json:"skills"`
	ParagonSkill     string                      `json:"paragonSkill,omitempty"`
	SelectedSkills   []string                    `json:"selectedSkills"`
	Toggles          map[string]bool             `json:"toggles"`
	AchievementStats map[string]int64            `json:"achievementStats"`
}
