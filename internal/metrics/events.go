package metrics

import (
	"context"

	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all event types we care about
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.LevelUp,
		event.Milestone,
		event.Prestige,
		event.AbilityStart,
		event.ChallengeCompleted,
		event.AllChallengesCleared,
		event.AchievementGranted,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.LevelUp:
		p, err := event.DecodePayload[event.LevelUpPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		LevelUps.WithLabelValues(p.Skill).Inc()

	case event.Milestone:
		p, err := event.DecodePayload[event.MilestonePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		MilestonesReached.WithLabelValues(p.Skill).Inc()

	case event.Prestige:
		p, err := event.DecodePayload[event.PrestigePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		Prestiges.WithLabelValues(p.Skill).Inc()

	case event.AbilityStart:
		p, err := event.DecodePayload[event.AbilityPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		AbilityActivations.WithLabelValues(p.Skill).Inc()

	case event.ChallengeCompleted:
		p, err := event.DecodePayload[event.ChallengeCompletedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		ChallengesCompleted.WithLabelValues(p.ChallengeType).Inc()

	case event.AllChallengesCleared:
		ChallengeSetsCleared.Inc()

	case event.AchievementGranted:
		p, err := event.DecodePayload[event.AchievementGrantedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgPayloadDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		AchievementsGranted.WithLabelValues(p.GrantID).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
