package domain

// Outbound event type names. The event package builds typed payloads
// for these; notification/sync layers outside this service consume them.
const (
	EventTypeLevelUp              = "progression.level_up"
	EventTypeMilestone            = "progression.milestone"
	EventTypePrestige             = "progression.prestige"
	EventTypeAbilityStart         = "ability.start"
	EventTypeAbilityEnd           = "ability.end"
	EventTypeChallengeCompleted   = "challenge.completed"
	EventTypeAllChallengesCleared = "challenge.all_completed"
	EventTypeAchievementGranted   = "achievement.granted"
)
