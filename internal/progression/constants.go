package progression

// XP source tags
const (
	SourceChallengeReward = "challenge_reward"
	SourceChallengeBonus  = "challenge_set_bonus"
)

// Log messages
const (
	LogMsgXPGranted            = "XP granted"
	LogMsgXPGateNoop           = "XP grant gated, no change"
	LogMsgLevelUp              = "Skill leveled up"
	LogMsgPrestigeApplied      = "Skill prestiged"
	LogMsgSkillsSelected       = "Skill selection updated"
	LogMsgParagonAssigned      = "Paragon skill assigned"
	LogMsgToggleSet            = "Toggle updated"
	LogMsgPublishFailed        = "Failed to publish progression event"
	LogMsgChallengeTrackFailed = "Failed to record challenge progress"
	LogMsgRewardApplyFailed    = "Failed to apply challenge rewards"
)
