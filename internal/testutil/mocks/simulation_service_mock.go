package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/scenario"
)

// MockSimulationService is a mock implementation of services.SimulationService
type MockSimulationService struct {
	mock.Mock
}

func (m *MockSimulationService) Execute(ctx context.Context, sc *scenario.Scenario) (*models.AggregateStatistics, error) {
	args := m.Called(ctx, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AggregateStatistics), args.Error(1)
}
