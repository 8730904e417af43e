package api

import (
	"fmt"
	"net/http"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/logger"
)

// handleSimulate runs a small scenario synchronously and returns the
// aggregate statistics directly. Larger runs belong on the run queue.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("running synchronous simulation")

	sc, err := s.readScenario(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if sc.Trials > s.SyncTrialLimit {
		handleError(w, r, errors.NewValidationError("trials",
			fmt.Sprintf("synchronous simulation is capped at %d trials, create a run instead", s.SyncTrialLimit)))
		return
	}

	stats, err := s.SimulationService.Execute(r.Context(), sc)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("synchronous simulation finished: trials=%d", stats.Trials)
	respondJSON(w, r, http.StatusOK, stats)
}
