package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Event types published by the progression engine
const (
	LevelUp              = Type(domain.EventTypeLevelUp)
	Milestone            = Type(domain.EventTypeMilestone)
	Prestige             = Type(domain.EventTypePrestige)
	AbilityStart         = Type(domain.EventTypeAbilityStart)
	AbilityEnd           = Type(domain.EventTypeAbilityEnd)
	ChallengeCompleted   = Type(domain.EventTypeChallengeCompleted)
	AllChallengesCleared = Type(domain.EventTypeAllChallengesCleared)
	AchievementGranted   = Type(domain.EventTypeAchievementGranted)
)

// Typed event payloads for type safety

// LevelUpPayloadV1 is the typed payload for level up events
type LevelUpPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Skill    string `json:"skill"`
	OldLevel int    `json:"old_level"`
	NewLevel int    `json:"new_level"`
	Source   string `json:"source,omitempty"`
}

// MilestonePayloadV1 is the typed payload for milestone events
type MilestonePayloadV1 struct {
	PlayerID  string `json:"player_id"`
	Skill     string `json:"skill"`
	Milestone int    `json:"milestone"`
}

// PrestigePayloadV1 is the typed payload for prestige events
type PrestigePayloadV1 struct {
	PlayerID    string `json:"player_id"`
	Skill       string `json:"skill"`
	NewPrestige int    `json:"new_prestige"`
}

// AbilityPayloadV1 is the typed payload for ability start/end events
type AbilityPayloadV1 struct {
	PlayerID string `json:"player_id"`
	Skill    string `json:"skill"`
	Ability  string `json:"ability"`
	Tick     int64  `json:"tick"`
	// Reason distinguishes natural expiry from pause on end events
	Reason string `json:"reason,omitempty"`
}

// ChallengeCompletedPayloadV1 is the typed payload for challenge completion events
type ChallengeCompletedPayloadV1 struct {
	PlayerID      string `json:"player_id"`
	DateKey       string `json:"date_key"`
	ChallengeType string `json:"challenge_type"`
	RewardXP      int    `json:"reward_xp"`
}

// AllChallengesClearedPayloadV1 is the typed payload for full daily set completion
type AllChallengesClearedPayloadV1 struct {
	PlayerID string `json:"player_id"`
	DateKey  string `json:"date_key"`
	BonusXP  int    `json:"bonus_xp"`
}

// AchievementGrantedPayloadV1 is the typed payload for achievement grants
type AchievementGrantedPayloadV1 struct {
	PlayerID  string `json:"player_id"`
	Counter   string `json:"counter"`
	Threshold int64  `json:"threshold"`
	GrantID   string `json:"grant_id"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewLevelUpEvent creates a new level up event
func NewLevelUpEvent(playerID string, skill domain.SkillID, oldLevel, newLevel int, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    LevelUp,
		Payload: LevelUpPayloadV1{
			PlayerID: playerID,
			Skill:    string(skill),
			OldLevel: oldLevel,
			NewLevel: newLevel,
			Source:   source,
		},
		Metadata: nil,
	}
}

// NewMilestoneEvent creates a new milestone event
func NewMilestoneEvent(playerID string, skill domain.SkillID, milestone int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Milestone,
		Payload: MilestonePayloadV1{
			PlayerID:  playerID,
			Skill:     string(skill),
			Milestone: milestone,
		},
		Metadata: nil,
	}
}

// NewPrestigeEvent creates a new prestige event
func NewPrestigeEvent(playerID string, skill domain.SkillID, newPrestige int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Prestige,
		Payload: PrestigePayloadV1{
			PlayerID:    playerID,
			Skill:       string(skill),
			NewPrestige: newPrestige,
		},
		Metadata: nil,
	}
}

// NewAbilityStartEvent creates a new ability start event
func NewAbilityStartEvent(playerID string, skill domain.SkillID, ability string, tick int64) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AbilityStart,
		Payload: AbilityPayloadV1{
			PlayerID: playerID,
			Skill:    string(skill),
			Ability:  ability,
			Tick:     tick,
		},
		Metadata: nil,
	}
}

// NewAbilityEndEvent creates a new ability end event
func NewAbilityEndEvent(playerID string, skill domain.SkillID, ability string, tick int64, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AbilityEnd,
		Payload: AbilityPayloadV1{
			PlayerID: playerID,
			Skill:    string(skill),
			Ability:  ability,
			Tick:     tick,
			Reason:   reason,
		},
		Metadata: nil,
	}
}

// NewChallengeCompletedEvent creates a new challenge completed event
func NewChallengeCompletedEvent(playerID, dateKey string, challengeType domain.ChallengeType, rewardXP int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ChallengeCompleted,
		Payload: ChallengeCompletedPayloadV1{
			PlayerID:      playerID,
			DateKey:       dateKey,
			ChallengeType: string(challengeType),
			RewardXP:      rewardXP,
		},
		Metadata: nil,
	}
}

// NewAllChallengesClearedEvent creates a new full-set completion event
func NewAllChallengesClearedEvent(playerID, dateKey string, bonusXP int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AllChallengesCleared,
		Payload: AllChallengesClearedPayloadV1{
			PlayerID: playerID,
			DateKey:  dateKey,
			BonusXP:  bonusXP,
		},
		Metadata: nil,
	}
}

// NewAchievementGrantedEvent creates a new achievement granted event
func NewAchievementGrantedEvent(playerID, counter string, threshold int64, grantID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AchievementGranted,
		Payload: AchievementGrantedPayloadV1{
			PlayerID:  playerID,
			Counter:   counter,
			Threshold: threshold,
			GrantID:   grantID,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously. With configuration these could be
	// dispatched to a worker pool instead.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
