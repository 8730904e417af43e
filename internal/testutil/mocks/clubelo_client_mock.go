package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClubEloClient is a mock implementation of clubelo.ClientInterface
type MockClubEloClient struct {
	mock.Mock
}

func (m *MockClubEloClient) FetchRatings(ctx context.Context, date string) (map[string]float64, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}
