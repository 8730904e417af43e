package api

import (
	"github.com/vytor/leaguesim/internal/db"
	"github.com/vytor/leaguesim/internal/jobs"
	"github.com/vytor/leaguesim/internal/services"
)

type Server struct {
	DB                *db.DB
	RunService        services.RunService
	SimulationService services.SimulationService
	Queue             jobs.JobQueue

	// MaxTrials caps the trial count of any accepted scenario;
	// SyncTrialLimit caps what /simulate will run in-request.
	MaxTrials      int
	SyncTrialLimit int
}
