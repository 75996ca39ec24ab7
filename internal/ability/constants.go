package ability

// Ability end reasons carried on ability.end events
const (
	EndReasonExpired = "expired"
	EndReasonPaused  = "paused"
)

// Rejection reason labels for metrics
const (
	RejectReasonLevel    = "level_requirement"
	RejectReasonActive   = "already_active"
	RejectReasonCooldown = "on_cooldown"
)

// Log messages
const (
	LogMsgAbilityActivated  = "Ability activated"
	LogMsgAbilityRejected   = "Ability activation rejected"
	LogMsgAbilityPaused     = "Ability paused"
	LogMsgAbilityResumed    = "Ability resumed"
	LogMsgAbilityExpired    = "Ability expired"
	LogMsgPublishFailed     = "Failed to publish ability event"
	LogMsgChallengeFailed   = "Failed to record ability challenge progress"
	LogMsgRewardApplyFailed = "Failed to apply challenge rewards"
	LogMsgDriverStarted     = "Tick driver started"
	LogMsgDriverStopped     = "Tick driver stopped"
)
