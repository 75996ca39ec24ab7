package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Skill errors
	ErrMsgSkillNotFound = "skill not found"

	// Selection errors
	ErrMsgNoSkillsSelected = "no skills selected"
	ErrMsgSkillNotSelected = "skill is not selected"
	ErrMsgTooManySkills    = "too many skills selected"

	// Leveling errors
	ErrMsgLevelCapReached = "level cap reached"

	// Prestige errors
	ErrMsgPrestigeUnavailable = "prestige requirements not met"
	ErrMsgPrestigeCapReached  = "prestige cap reached"

	// Ability errors
	ErrMsgAbilityActive      = "ability is already active"
	ErrMsgAbilityNotPausable = "ability does not support pausing"
	ErrMsgOnCooldown         = "ability on cooldown"
	ErrMsgLevelRequirement   = "level requirement not met"
	ErrMsgNothingToResume    = "no paused ability to resume"

	// Player errors
	ErrMsgPlayerNotFound = "player not found"

	// Challenge errors
	ErrMsgChallengeTypeUnknown = "unknown challenge type"
	ErrMsgChallengeSetNotFound = "challenge set not found"

	// Configuration errors
	ErrMsgInvalidConfig = "invalid configuration"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// Skill errors
	ErrSkillNotFound = errors.New(ErrMsgSkillNotFound)

	// Selection errors
	ErrNoSkillsSelected = errors.New(ErrMsgNoSkillsSelected)
	ErrSkillNotSelected = errors.New(ErrMsgSkillNotSelected)
	ErrTooManySkills    = errors.New(ErrMsgTooManySkills)

	// Leveling errors
	ErrLevelCapReached = errors.New(ErrMsgLevelCapReached)

	// Prestige errors
	ErrPrestigeUnavailable = errors.New(ErrMsgPrestigeUnavailable)
	ErrPrestigeCapReached  = errors.New(ErrMsgPrestigeCapReached)

	// Ability errors - these are gating results, not exceptional conditions.
	// Callers check them with errors.Is and surface a regular response.
	ErrAbilityActive      = errors.New(ErrMsgAbilityActive)
	ErrAbilityNotPausable = errors.New(ErrMsgAbilityNotPausable)
	ErrOnCooldown         = errors.New(ErrMsgOnCooldown)
	ErrLevelRequirement   = errors.New(ErrMsgLevelRequirement)
	ErrNothingToResume    = errors.New(ErrMsgNothingToResume)

	// Player errors
	ErrPlayerNotFound = errors.New(ErrMsgPlayerNotFound)

	// Challenge errors
	ErrChallengeTypeUnknown = errors.New(ErrMsgChallengeTypeUnknown)
	ErrChallengeSetNotFound = errors.New(ErrMsgChallengeSetNotFound)

	// Configuration errors
	ErrInvalidConfig = errors.New(ErrMsgInvalidConfig)
)
