package sqlite

import (
	"context"
	"database/sql"

	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/repository"
)

type metricRepository struct {
	db *sql.DB
}

// NewMetricRepository creates a new MetricRepository implementation
func NewMetricRepository(db *sql.DB) repository.MetricRepository {
	return &metricRepository{db: db}
}

func (r *metricRepository) InsertBatch(ctx context.Context, runID string, metrics []models.AggregateMetric) error {
	log := logger.FromContext(ctx).WithPrefix("metric_repo")
	log.Debug("inserting %d metrics for run %s", len(metrics), runID)

	if len(metrics) == 0 {
		return nil
	}

	return tx(ctx, r.db, func(t *sql.Tx) error {
		stmt, err := t.PrepareContext(ctx, `
INSERT INTO run_metrics (run_id, format, cutoff, capacity, weak_total, weak_average, weak_share)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, m := range metrics {
			if _, err := stmt.ExecContext(ctx, runID, m.Format, m.Cutoff, m.Capacity, m.WeakTotal, m.WeakAverage, m.WeakShare); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *metricRepository) MetricsForRun(ctx context.Context, runID string) ([]models.RunMetric, error) {
	log := logger.FromContext(ctx).WithPrefix("metric_repo")
	log.Debug("loading metrics for run %s", runID)

	rows, err := r.db.QueryContext(ctx, `
SELECT id, run_id, format, cutoff, capacity, weak_total, weak_average, weak_share
FROM run_metrics
WHERE run_id = ?
ORDER BY id
`, runID)
	if err != nil {
		log.Error("failed to load metrics: %v", err)
		return nil, err
	}
	defer rows.Close()

	var metrics []models.RunMetric
	for rows.Next() {
		var m models.RunMetric
		if err := rows.Scan(&m.ID, &m.RunID, &m.Format, &m.Cutoff, &m.Capacity, &m.WeakTotal, &m.WeakAverage, &m.WeakShare); err != nil {
			log.Error("failed to scan metric row: %v", err)
			return nil, err
		}
		metrics = append(metrics, m)
	}
	log.Debug("found %d metrics", len(metrics))
	return metrics, rows.Err()
}
