package repository

import (
	"context"
	"time"

	"github.com/vytor/leaguesim/internal/models"
)

// RunRepository handles simulation run data access
type RunRepository interface {
	Get(ctx context.Context, id string) (*models.Run, error)
	List(ctx context.Context, filter models.RunFilter) ([]models.Run, error)
	Count(ctx context.Context, filter models.RunFilter) (int, error)
	Insert(ctx context.Context, run models.Run) error
	MarkRunning(ctx context.Context, id string, startedAt time.Time) error
	MarkCompleted(ctx context.Context, id string, finishedAt time.Time) error
	MarkFailed(ctx context.Context, id string, reason string, finishedAt time.Time) error
}

// MetricRepository handles aggregate metric data access
type MetricRepository interface {
	InsertBatch(ctx context.Context, runID string, metrics []models.AggregateMetric) error
	MetricsForRun(ctx context.Context, runID string) ([]models.RunMetric, error)
}
