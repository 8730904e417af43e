package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/leaguesim/internal/models"
)

// MockMetricRepository is a mock implementation of repository.MetricRepository
type MockMetricRepository struct {
	mock.Mock
}

func (m *MockMetricRepository) InsertBatch(ctx context.Context, runID string, metrics []models.AggregateMetric) error {
	args := m.Called(ctx, runID, metrics)
	return args.Error(0)
}

func (m *MockMetricRepository) MetricsForRun(ctx context.Context, runID string) ([]models.RunMetric, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RunMetric), args.Error(1)
}
