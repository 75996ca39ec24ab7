package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/domain"
	"github.com/emberfall-studios/skillforge/internal/progression"
)

// MockProgressionService implements progression.Service for testing
type MockProgressionService struct {
	mock.Mock
}

func (m *MockProgressionService) GetOrCreatePlayer(ctx context.Context, playerID string) (*domain.PlayerRecord, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlayerRecord), args.Error(1)
}

func (m *MockProgressionService) GetStatus(ctx context.Context, playerID string) (*progression.Status, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*progression.Status), args.Error(1)
}

func (m *MockProgressionService) GrantXP(ctx context.Context, playerID string, skill domain.SkillID, amount int, source string) (*domain.XPGrantResult, error) {
	args := m.Called(ctx, playerID, skill, amount, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.XPGrantResult), args.Error(1)
}

func (m *MockProgressionService) SelectSkills(ctx context.Context, playerID string, skills []domain.SkillID) error {
	args := m.Called(ctx, playerID, skills)
	return args.Error(0)
}

func (m *MockProgressionService) AssignParagon(ctx context.Context, playerID string, skill domain.SkillID) error {
	args := m.Called(ctx, playerID, skill)
	return args.Error(0)
}

func (m *MockProgressionService) Prestige(ctx context.Context, playerID string, skill domain.SkillID) (*domain.PrestigeResult, error) {
	args := m.Called(ctx, playerID, skill)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrestigeResult), args.Error(1)
}

func (m *MockProgressionService) SetToggle(ctx context.Context, playerID, key string, value bool) error {
	args := m.Called(ctx, playerID, key, value)
	return args.Error(0)
}

func (m *MockProgressionService) PassiveOutputMultiplier(ctx context.Context, playerID string, skill domain.SkillID) (float64, error) {
	args := m.Called(ctx, playerID, skill)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockProgressionService) ApplyChallengeOutcome(ctx context.Context, playerID string, rewards []challenge.Reward, bonus *challenge.SetBonus, completed int) error {
	args := m.Called(ctx, playerID, rewards, bonus, completed)
	return args.Error(0)
}

func (m *MockProgressionService) ImportLegacy(ctx context.Context, playerID string, blob *domain.LegacyPlayerBlob) (bool, error) {
	args := m.Called(ctx, playerID, blob)
	return args.Bool(0), args.Error(1)
}
