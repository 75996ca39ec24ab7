package domain

// AbilityPhase is the lifecycle phase of a skill's master ability
type AbilityPhase string

const (
	AbilityIdle   AbilityPhase = "idle"
	AbilityActive AbilityPhase = "active"
	AbilityPaused AbilityPhase = "paused"
)

// AbilityLifecycleState is the ephemeral per-(player, skill) ability
// state. It is never persisted; on restart every ability comes back
// idle with cooldowns still enforced through SkillState.LastAbilityUseTick.
type AbilityLifecycleState struct {
	Phase AbilityPhase `json:"phase"`
	// ActiveStartTick is valid only while Phase == AbilityActive
	ActiveStartTick int64 `json:"active_start_tick"`
	// PausedRemainingTicks is valid only while Phase == AbilityPaused
	PausedRemainingTicks int64 `json:"paused_remaining_ticks"`
	// Aux carries transient per-skill data (for example the remembered
	// first corner of an area-fill ability). The controller never
	// inspects it; effect strategies own its shape.
	Aux any `json:"-"`
}

// NewAbilityLifecycleState returns an idle lifecycle
func NewAbilityLifecycleState() *AbilityLifecycleState {
	return &AbilityLifecycleState{Phase: AbilityIdle}
}
