package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants.
const (
	ErrMsgMethodNotAllowed      = "Method not allowed"
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query parameter error messages
	ErrMsgMissingQueryParam = "Missing %s query parameter"

	// Progression operation error messages
	ErrMsgGetStatusFailed     = "Failed to retrieve progression status"
	ErrMsgGrantXPFailed       = "Failed to grant XP"
	ErrMsgSelectSkillsFailed  = "Failed to update skill selection"
	ErrMsgAssignParagonFailed = "Failed to assign paragon skill"
	ErrMsgPrestigeFailed      = "Failed to prestige skill"
	ErrMsgSetToggleFailed     = "Failed to update toggle"
	ErrMsgGetMultiplierFailed = "Failed to compute passive multiplier"
	ErrMsgImportLegacyFailed  = "Failed to import legacy save"

	// Ability operation error messages
	ErrMsgActivateAbilityFailed = "Failed to activate ability"
	ErrMsgPauseResumeFailed     = "Failed to pause or resume ability"

	// Challenge operation error messages
	ErrMsgGetChallengesFailed        = "Failed to retrieve daily challenges"
	ErrMsgRegenerateChallengesFailed = "Failed to regenerate daily challenges"
)

// Success messages for API responses
const (
	MsgSkillsSelectedSuccess  = "Skill selection updated"
	MsgParagonAssignedSuccess = "Paragon skill assigned"
	MsgToggleSetSuccess       = "Toggle updated"
	MsgLegacyImportedSuccess  = "Legacy save imported"
	MsgLegacyImportSkipped    = "Record already has progress, import skipped"
	MsgAbilityPausedOrResumed = "Ability lifecycle updated"
	MsgChallengesRegenerated  = "Daily challenges regenerated"
)
