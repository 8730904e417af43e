package models

import "time"

// Run lifecycle states.
const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

type Run struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Scenario   string     `json:"scenario"`
	Seed       int64      `json:"seed"`
	Trials     int        `json:"trials"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

type RunFilter struct {
	Status   string
	Limit    int
	Offset   int
	OrderBy  string
	OrderDir string
}

type RunMetric struct {
	ID          int64   `json:"id"`
	RunID       string  `json:"run_id"`
	Format      string  `json:"format"`
	Cutoff      int     `json:"cutoff"`
	Capacity    int     `json:"capacity"`
	WeakTotal   int     `json:"weak_total"`
	WeakAverage float64 `json:"weak_average"`
	WeakShare   float64 `json:"weak_share"`
}
