package ability

import (
	"context"
	"sync"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// Effect is the per-skill behavior that runs while an ability is
// active. The controller is effect-agnostic: it only drives the
// lifecycle and hands each active tick a bounded work budget. Effects
// must process at most budget units per tick and resume remaining
// work on later ticks.
type Effect interface {
	OnStart(ctx context.Context, playerID string, state *domain.AbilityLifecycleState)
	OnTick(ctx context.Context, playerID string, state *domain.AbilityLifecycleState, budget int)
	OnEnd(ctx context.Context, playerID string, state *domain.AbilityLifecycleState)
}

// NoopEffect is the default when no strategy is registered for a
// skill; the lifecycle (events, cooldown, duration) still runs.
type NoopEffect struct{}

func (NoopEffect) OnStart(context.Context, string, *domain.AbilityLifecycleState)     {}
func (NoopEffect) OnTick(context.Context, string, *domain.AbilityLifecycleState, int) {}
func (NoopEffect) OnEnd(context.Context, string, *domain.AbilityLifecycleState)       {}

// Registry maps skills to their effect strategy
type Registry struct {
	mu      sync.RWMutex
	effects map[domain.SkillID]Effect
}

// NewRegistry creates an empty effect registry
func NewRegistry() *Registry {
	return &Registry{effects: make(map[domain.SkillID]Effect)}
}

// Register installs the effect for a skill, replacing any previous one
func (r *Registry) Register(skill domain.SkillID, effect Effect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[skill] = effect
}

// EffectFor returns the registered effect, or NoopEffect when none
func (r *Registry) EffectFor(skill domain.SkillID) Effect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.effects[skill]; ok {
		return e
	}
	return NoopEffect{}
}
