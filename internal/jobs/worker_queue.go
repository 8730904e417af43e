package jobs

import (
	"context"

	"github.com/vytor/leaguesim/internal/services"
	"github.com/vytor/leaguesim/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	simPool    *worker.Pool
	runService services.RunService
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(simPool *worker.Pool, runService services.RunService) JobQueue {
	return &WorkerQueue{
		simPool:    simPool,
		runService: runService,
	}
}

func (q *WorkerQueue) EnqueueRun(runID string) error {
	return q.simPool.Submit(&worker.JobFunc{
		JobName: "simulation_run",
		Fn: func(ctx context.Context) error {
			return q.runService.ExecuteRun(ctx, runID)
		},
	})
}
