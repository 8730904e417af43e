package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/leaguesim/internal/models"
)

// MockRunRepository is a mock implementation of repository.RunRepository
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) Get(ctx context.Context, id string) (*models.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Run), args.Error(1)
}

func (m *MockRunRepository) List(ctx context.Context, filter models.RunFilter) ([]models.Run, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Run), args.Error(1)
}

func (m *MockRunRepository) Count(ctx context.Context, filter models.RunFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockRunRepository) Insert(ctx context.Context, run models.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	args := m.Called(ctx, id, startedAt)
	return args.Error(0)
}

func (m *MockRunRepository) MarkCompleted(ctx context.Context, id string, finishedAt time.Time) error {
	args := m.Called(ctx, id, finishedAt)
	return args.Error(0)
}

func (m *MockRunRepository) MarkFailed(ctx context.Context, id string, reason string, finishedAt time.Time) error {
	args := m.Called(ctx, id, reason, finishedAt)
	return args.Error(0)
}
