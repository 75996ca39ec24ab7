package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfall-studios/skillforge/internal/domain"
)

func TestMemoryBusPublishSubscribe(t *testing.T) {
	bus := NewMemoryBus()

	var received []Event
	bus.Subscribe(LevelUp, func(_ context.Context, evt Event) error {
		received = append(received, evt)
		return nil
	})

	evt := NewLevelUpEvent("player-1", domain.SkillMining, 4, 5, "quest")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, received, 1)
	assert.Equal(t, LevelUp, received[0].Type)

	payload, err := DecodePayload[LevelUpPayloadV1](received[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "player-1", payload.PlayerID)
	assert.Equal(t, 5, payload.NewLevel)
}

func TestMemoryBusNoSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), NewPrestigeEvent("player-1", domain.SkillMagic, 2)))
}

func TestMemoryBusTypeIsolation(t *testing.T) {
	bus := NewMemoryBus()

	var levelUps, prestiges int
	bus.Subscribe(LevelUp, func(context.Context, Event) error {
		levelUps++
		return nil
	})
	bus.Subscribe(Prestige, func(context.Context, Event) error {
		prestiges++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewLevelUpEvent("player-1", domain.SkillMining, 1, 2, "")))
	require.NoError(t, bus.Publish(context.Background(), NewPrestigeEvent("player-1", domain.SkillMining, 1)))

	assert.Equal(t, 1, levelUps)
	assert.Equal(t, 1, prestiges)
}

func TestMemoryBusAggregatesHandlerErrors(t *testing.T) {
	bus := NewMemoryBus()

	var succeeded bool
	bus.Subscribe(AbilityStart, func(context.Context, Event) error {
		return errors.New("handler exploded")
	})
	bus.Subscribe(AbilityStart, func(context.Context, Event) error {
		succeeded = true
		return nil
	})

	err := bus.Publish(context.Background(), NewAbilityStartEvent("player-1", domain.SkillMining, "Giga Drill Breaker", 100))
	assert.Error(t, err)
	assert.True(t, succeeded, "remaining handlers must still run")
}

func TestDecodePayloadTypeAssertionFastPath(t *testing.T) {
	payload, err := DecodePayload[AbilityPayloadV1](AbilityPayloadV1{PlayerID: "player-1", Skill: "mining", Tick: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(42), payload.Tick)
}

func TestDecodePayloadJSONFallback(t *testing.T) {
	// Serialized sources hand the payload back as a generic map.
	raw := map[string]interface{}{
		"player_id": "player-1",
		"skill":     "mining",
		"milestone": float64(25),
	}

	payload, err := DecodePayload[MilestonePayloadV1](raw)
	require.NoError(t, err)
	assert.Equal(t, "player-1", payload.PlayerID)
	assert.Equal(t, 25, payload.Milestone)
}

func TestGetMetadataValue(t *testing.T) {
	evt := Event{Metadata: map[string]interface{}{"request_id": "abc"}}
	assert.Equal(t, "abc", evt.GetMetadataValue("request_id"))
	assert.Nil(t, evt.GetMetadataValue("missing"))

	assert.Nil(t, Event{}.GetMetadataValue("anything"))
}
