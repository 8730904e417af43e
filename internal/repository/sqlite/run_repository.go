package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type runRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository implementation
func NewRunRepository(db *sql.DB) repository.RunRepository {
	return &runRepository{db: db}
}

const runColumns = `id, name, scenario, seed, trials, status, error, created_at, started_at, finished_at`

func (r *runRepository) Get(ctx context.Context, id string) (*models.Run, error) {
	log := logger.FromContext(ctx).WithPrefix("run_repo")
	log.Debug("getting run: id=%s", id)

	var run models.Run
	err := r.db.QueryRowContext(ctx, `
SELECT `+runColumns+`
FROM runs
WHERE id = ?
`, id).Scan(&run.ID, &run.Name, &run.Scenario, &run.Seed, &run.Trials, &run.Status, &run.Error, &run.CreatedAt, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("run not found: id=%s", id)
		} else {
			log.Error("failed to get run: %v", err)
		}
		return nil, err
	}
	log.Debug("run found: status=%s, trials=%d", run.Status, run.Trials)
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, filter models.RunFilter) ([]models.Run, error) {
	log := logger.FromContext(ctx).WithPrefix("run_repo")
	log.Debug("listing runs with filter: status=%s, limit=%d, offset=%d", filter.Status, filter.Limit, filter.Offset)

	query := sqlBuilder.Select(
		"id", "name", "scenario", "seed", "trials", "status", "error",
		"created_at", "started_at", "finished_at",
	).From("runs")

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	// Safe ORDER BY with validation
	orderBy := "created_at"
	if filter.OrderBy == "created_at" || filter.OrderBy == "trials" {
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy + " " + orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list runs: %v", err)
		return nil, err
	}
	defer rows.Close()
	var runs []models.Run
	for rows.Next() {
		var run models.Run
		if err := rows.Scan(&run.ID, &run.Name, &run.Scenario, &run.Seed, &run.Trials, &run.Status, &run.Error, &run.CreatedAt, &run.StartedAt, &run.FinishedAt); err != nil {
			log.Error("failed to scan run row: %v", err)
			return nil, err
		}
		runs = append(runs, run)
	}
	log.Debug("found %d runs", len(runs))
	return runs, rows.Err()
}

func (r *runRepository) Count(ctx context.Context, filter models.RunFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("run_repo")

	query := sqlBuilder.Select("COUNT(*)").From("runs")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build count query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count runs: %v", err)
		return 0, err
	}
	return count, nil
}

func (r *runRepository) Insert(ctx context.Context, run models.Run) error {
	log := logger.FromContext(ctx).WithPrefix("run_repo")
	log.Debug("inserting run: id=%s, trials=%d", run.ID, run.Trials)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO runs (id, name, scenario, seed, trials, status, error, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, run.ID, run.Name, run.Scenario, run.Seed, run.Trials, run.Status, run.Error, run.CreatedAt)
	if err != nil {
		log.Error("failed to insert run: %v", err)
		return err
	}
	return nil
}

func (r *runRepository) MarkRunning(ctx context.Context, id string, startedAt time.Time) error {
	return r.setStatus(ctx, id, models.RunStatusRunning, `UPDATE runs SET status = ?, started_at = ? WHERE id = ?`, models.RunStatusRunning, startedAt, id)
}

func (r *runRepository) MarkCompleted(ctx context.Context, id string, finishedAt time.Time) error {
	return r.setStatus(ctx, id, models.RunStatusCompleted, `UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`, models.RunStatusCompleted, finishedAt, id)
}

func (r *runRepository) MarkFailed(ctx context.Context, id string, reason string, finishedAt time.Time) error {
	return r.setStatus(ctx, id, models.RunStatusFailed, `UPDATE runs SET status = ?, error = ?, finished_at = ? WHERE id = ?`, models.RunStatusFailed, reason, finishedAt, id)
}

func (r *runRepository) setStatus(ctx context.Context, id, status, query string, args ...any) error {
	log := logger.FromContext(ctx).WithPrefix("run_repo")
	log.Debug("updating run status: id=%s, status=%s", id, status)

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update run status: %v", err)
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		log.Debug("run not found for status update: id=%s", id)
		return sql.ErrNoRows
	}
	return nil
}
