package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/scenario"
)

// maxScenarioBytes bounds the request body of scenario submissions.
const maxScenarioBytes = 1 << 20

func (s *Server) readScenario(r *http.Request) (*scenario.Scenario, error) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxScenarioBytes))
	if err != nil {
		return nil, errors.NewBadRequestError("cannot read request body")
	}
	if len(raw) == 0 {
		return nil, errors.NewBadRequestError("request body is empty")
	}

	sc, err := scenario.Parse(raw)
	if err != nil {
		return nil, err
	}
	if sc.Trials > s.MaxTrials {
		return nil, errors.NewValidationError("trials", fmt.Sprintf("cannot exceed %d", s.MaxTrials))
	}
	return sc, nil
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("creating simulation run")

	sc, err := s.readScenario(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	run, err := s.RunService.CreateRun(r.Context(), sc)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Queue.EnqueueRun(run.ID); err != nil {
		handleError(w, r, err)
		return
	}

	log.Info("run queued: id=%s, trials=%d", run.ID, run.Trials)
	respondJSON(w, r, http.StatusAccepted, run)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.RunStatusQueued, models.RunStatusRunning, models.RunStatusCompleted, models.RunStatusFailed:
	default:
		handleError(w, r, errors.NewBadRequestError("unknown status filter: "+status))
		return
	}

	limit, offset := parsePagination(r)
	orderDir := strings.ToUpper(r.URL.Query().Get("order_dir"))

	filter := models.RunFilter{
		Status:   status,
		Limit:    limit,
		Offset:   offset,
		OrderBy:  r.URL.Query().Get("order_by"),
		OrderDir: orderDir,
	}

	runs, total, err := s.RunService.ListRuns(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("found %d runs (total %d)", len(runs), total)
	respondJSON(w, r, http.StatusOK, map[string]any{
		"runs":  runs,
		"total": total,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := s.RunService.GetRun(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, run)
}

func (s *Server) handleRunMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	metrics, err := s.RunService.MetricsForRun(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]any{
		"run_id":  id,
		"metrics": metrics,
	})
}
