package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockJobQueue is a mock implementation of jobs.JobQueue
type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) EnqueueRun(runID string) error {
	args := m.Called(runID)
	return args.Error(0)
}
