package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/repository"
	"github.com/vytor/leaguesim/internal/repository/sqlite"
	"github.com/vytor/leaguesim/internal/testutil"
)

type RunRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.RunRepository
}

func (s *RunRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewRunRepository(s.db)
}

func (s *RunRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *RunRepositorySuite) newRun(id, status string) models.Run {
	return models.Run{
		ID:        id,
		Name:      "test run",
		Scenario:  `{"trials":100}`,
		Seed:      42,
		Trials:    100,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

func (s *RunRepositorySuite) TestInsertAndGet() {
	ctx := context.Background()

	err := s.repo.Insert(ctx, s.newRun("run-1", models.RunStatusQueued))
	s.Require().NoError(err)

	run, err := s.repo.Get(ctx, "run-1")
	s.Require().NoError(err)
	s.Assert().Equal("run-1", run.ID)
	s.Assert().Equal(models.RunStatusQueued, run.Status)
	s.Assert().Equal(int64(42), run.Seed)
	s.Assert().Nil(run.StartedAt)
	s.Assert().Nil(run.FinishedAt)
}

func (s *RunRepositorySuite) TestGet_NotFound() {
	_, err := s.repo.Get(context.Background(), "missing")

	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *RunRepositorySuite) TestListAndCount_StatusFilter() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newRun("run-1", models.RunStatusQueued)))
	s.Require().NoError(s.repo.Insert(ctx, s.newRun("run-2", models.RunStatusCompleted)))
	s.Require().NoError(s.repo.Insert(ctx, s.newRun("run-3", models.RunStatusQueued)))

	queued, err := s.repo.List(ctx, models.RunFilter{Status: models.RunStatusQueued})
	s.Require().NoError(err)
	s.Assert().Len(queued, 2)

	count, err := s.repo.Count(ctx, models.RunFilter{Status: models.RunStatusQueued})
	s.Require().NoError(err)
	s.Assert().Equal(2, count)

	all, err := s.repo.List(ctx, models.RunFilter{})
	s.Require().NoError(err)
	s.Assert().Len(all, 3)
}

func (s *RunRepositorySuite) TestList_Pagination() {
	ctx := context.Background()
	for _, id := range []string{"run-1", "run-2", "run-3"} {
		s.Require().NoError(s.repo.Insert(ctx, s.newRun(id, models.RunStatusQueued)))
	}

	page, err := s.repo.List(ctx, models.RunFilter{Limit: 2})
	s.Require().NoError(err)
	s.Assert().Len(page, 2)

	rest, err := s.repo.List(ctx, models.RunFilter{Limit: 2, Offset: 2})
	s.Require().NoError(err)
	s.Assert().Len(rest, 1)
}

func (s *RunRepositorySuite) TestStatusTransitions() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newRun("run-1", models.RunStatusQueued)))

	started := time.Now().UTC()
	s.Require().NoError(s.repo.MarkRunning(ctx, "run-1", started))

	run, err := s.repo.Get(ctx, "run-1")
	s.Require().NoError(err)
	s.Assert().Equal(models.RunStatusRunning, run.Status)
	s.Require().NotNil(run.StartedAt)

	finished := time.Now().UTC()
	s.Require().NoError(s.repo.MarkCompleted(ctx, "run-1", finished))

	run, err = s.repo.Get(ctx, "run-1")
	s.Require().NoError(err)
	s.Assert().Equal(models.RunStatusCompleted, run.Status)
	s.Require().NotNil(run.FinishedAt)
}

func (s *RunRepositorySuite) TestMarkFailed() {
	ctx := context.Background()
	s.Require().NoError(s.repo.Insert(ctx, s.newRun("run-1", models.RunStatusRunning)))

	s.Require().NoError(s.repo.MarkFailed(ctx, "run-1", "PAIRING_FAILURE: pairing failed in round 7", time.Now().UTC()))

	run, err := s.repo.Get(ctx, "run-1")
	s.Require().NoError(err)
	s.Assert().Equal(models.RunStatusFailed, run.Status)
	s.Assert().Contains(run.Error, "PAIRING_FAILURE")
}

func (s *RunRepositorySuite) TestMarkRunning_MissingRun() {
	err := s.repo.MarkRunning(context.Background(), "missing", time.Now().UTC())

	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func TestRunRepositorySuite(t *testing.T) {
	suite.Run(t, new(RunRepositorySuite))
}
