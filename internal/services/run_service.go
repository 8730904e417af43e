package services

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/repository"
	"github.com/vytor/leaguesim/internal/scenario"
)

// RunService handles persisted simulation runs: creation, lookup and
// end-to-end execution.
type RunService interface {
	CreateRun(ctx context.Context, sc *scenario.Scenario) (*models.Run, error)
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, filter models.RunFilter) ([]models.Run, int, error)
	MetricsForRun(ctx context.Context, id string) ([]models.RunMetric, error)
	ExecuteRun(ctx context.Context, id string) error
}

type runService struct {
	runRepo    repository.RunRepository
	metricRepo repository.MetricRepository
	simulation SimulationService
}

// NewRunService creates a new RunService
func NewRunService(runRepo repository.RunRepository, metricRepo repository.MetricRepository, simulation SimulationService) RunService {
	return &runService{
		runRepo:    runRepo,
		metricRepo: metricRepo,
		simulation: simulation,
	}
}

func (s *runService) CreateRun(ctx context.Context, sc *scenario.Scenario) (*models.Run, error) {
	log := logger.FromContext(ctx)

	doc, err := sc.Document()
	if err != nil {
		log.Error("failed to serialize scenario: %v", err)
		return nil, errors.NewInternalError(err)
	}

	run := models.Run{
		ID:        uuid.NewString(),
		Name:      sc.Name,
		Scenario:  doc,
		Seed:      sc.Seed,
		Trials:    sc.Trials,
		Status:    models.RunStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	log.Debug("creating run: id=%s, name=%s, trials=%d", run.ID, run.Name, run.Trials)

	if err := s.runRepo.Insert(ctx, run); err != nil {
		log.Error("failed to insert run: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return &run, nil
}

func (s *runService) GetRun(ctx context.Context, id string) (*models.Run, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting run: id=%s", id)

	run, err := s.runRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("run", id)
		}
		log.Error("failed to get run: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return run, nil
}

func (s *runService) ListRuns(ctx context.Context, filter models.RunFilter) ([]models.Run, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing runs: status=%s", filter.Status)

	runs, err := s.runRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list runs: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.runRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count runs: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	return runs, total, nil
}

func (s *runService) MetricsForRun(ctx context.Context, id string) ([]models.RunMetric, error) {
	log := logger.FromContext(ctx)

	// Surface a clean NOT_FOUND for unknown runs instead of an empty list.
	if _, err := s.GetRun(ctx, id); err != nil {
		return nil, err
	}

	metrics, err := s.metricRepo.MetricsForRun(ctx, id)
	if err != nil {
		log.Error("failed to load metrics: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return metrics, nil
}

// ExecuteRun drives one queued run to completion: running status, engine
// execution, metric persistence, terminal status. Failures are persisted on
// the run with the error taxonomy preserved in the message.
func (s *runService) ExecuteRun(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithField("run_id", id)

	run, err := s.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run.Status != models.RunStatusQueued {
		return errors.NewValidationError("run", "run is not queued: "+run.Status)
	}

	sc, err := scenario.Parse([]byte(run.Scenario))
	if err != nil {
		log.Error("stored scenario no longer validates: %v", err)
		return s.fail(ctx, id, err)
	}

	if err := s.runRepo.MarkRunning(ctx, id, time.Now().UTC()); err != nil {
		log.Error("failed to mark run running: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("executing run: trials=%d, seed=%d", sc.Trials, sc.Seed)
	start := time.Now()

	stats, err := s.simulation.Execute(ctx, sc)
	if err != nil {
		return s.fail(ctx, id, err)
	}

	metrics := make([]models.AggregateMetric, len(stats.Metrics))
	copy(metrics, stats.Metrics)
	if err := s.metricRepo.InsertBatch(ctx, id, metrics); err != nil {
		log.Error("failed to persist metrics: %v", err)
		return s.fail(ctx, id, errors.NewInternalError(err))
	}

	if err := s.runRepo.MarkCompleted(ctx, id, time.Now().UTC()); err != nil {
		log.Error("failed to mark run completed: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("run completed in %v", time.Since(start))
	return nil
}

func (s *runService) fail(ctx context.Context, id string, cause error) error {
	log := logger.FromContext(ctx).WithField("run_id", id)
	if err := s.runRepo.MarkFailed(ctx, id, cause.Error(), time.Now().UTC()); err != nil {
		log.Error("failed to mark run failed: %v", err)
	}
	return cause
}
