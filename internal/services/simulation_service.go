package services

import (
	"context"
	stderrors "errors"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/scenario"
	"github.com/vytor/leaguesim/internal/sim"
)

// SimulationService runs the Monte Carlo engine for a validated scenario
type SimulationService interface {
	Execute(ctx context.Context, sc *scenario.Scenario) (*models.AggregateStatistics, error)
}

type simulationService struct {
	trialWorkers int
}

// NewSimulationService creates a new SimulationService. trialWorkers caps
// per-run trial parallelism; results do not depend on it.
func NewSimulationService(trialWorkers int) SimulationService {
	return &simulationService{trialWorkers: trialWorkers}
}

func (s *simulationService) Execute(ctx context.Context, sc *scenario.Scenario) (*models.AggregateStatistics, error) {
	log := logger.FromContext(ctx)
	log.Debug("building simulation: name=%s, trials=%d, seed=%d", sc.Name, sc.Trials, sc.Seed)

	model, err := sc.RatingModel()
	if err != nil {
		return nil, err
	}
	matches, err := sim.NewMatchSimulator(sc.DrawProbability)
	if err != nil {
		return nil, err
	}
	runner, err := sim.NewRunner(model, matches, sc.RunnerConfig(s.trialWorkers))
	if err != nil {
		return nil, err
	}

	log.Info("simulating %d trials over %d teams (%d weak)", sc.Trials, model.Count(), model.WeakCount())
	stats, err := runner.Run(ctx)
	if err != nil {
		log.Error("simulation failed: %v", err)
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			// Keep the taxonomy (and trial/round context) intact.
			return nil, err
		}
		return nil, errors.NewInternalError(err)
	}

	log.Info("simulation finished: %d metrics", len(stats.Metrics))
	return stats, nil
}
