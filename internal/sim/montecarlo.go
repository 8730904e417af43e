package sim

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/models"
)

// Format labels used in aggregate metrics and reports.
const (
	FormatSwiss = "swiss"
	FormatGroup = "group"
)

// DefaultSwissCutoffs are the qualification cutoffs tallied for the Swiss
// format when the config names none.
var DefaultSwissCutoffs = []int{8, 24}

// RunnerConfig parameterizes a Monte Carlo comparison run.
type RunnerConfig struct {
	// Trials is the number of simulated seasons. Zero is allowed and
	// produces an explicit no-data result.
	Trials int
	// Seed is the base seed. Trial t draws from its own stream seeded with
	// Seed+t, so results do not depend on the worker count.
	Seed int64
	// Workers caps trial parallelism. Zero selects the number of CPUs.
	Workers int
	// SwissCutoffs are the final-standing cutoffs tallied for the Swiss
	// format. Empty selects DefaultSwissCutoffs.
	SwissCutoffs []int
	// KeepTrialOutcomes retains per-trial weak counts in the result.
	KeepTrialOutcomes bool

	Swiss SwissConfig
	Group GroupConfig
}

// Runner simulates many seasons of both formats over one shared rating
// model and aggregates how often weak teams land inside each cutoff.
type Runner struct {
	model   *RatingModel
	matches *MatchSimulator
	cfg     RunnerConfig
}

// NewRunner validates the whole run configuration up front by probing both
// stage constructors, so a run never fails on configuration mid-flight.
func NewRunner(model *RatingModel, matches *MatchSimulator, cfg RunnerConfig) (*Runner, error) {
	if model == nil {
		return nil, errors.NewConfigurationError("runner", "rating model is required")
	}
	if matches == nil {
		return nil, errors.NewConfigurationError("runner", "match simulator is required")
	}
	if cfg.Trials < 0 {
		return nil, errors.NewConfigurationError("runner.trials", fmt.Sprintf("cannot be negative, got %d", cfg.Trials))
	}
	if cfg.Workers < 0 {
		return nil, errors.NewConfigurationError("runner.workers", fmt.Sprintf("cannot be negative, got %d", cfg.Workers))
	}
	if len(cfg.SwissCutoffs) == 0 {
		cfg.SwissCutoffs = append([]int(nil), DefaultSwissCutoffs...)
	}
	for _, cutoff := range cfg.SwissCutoffs {
		if cutoff < 1 || cutoff > model.Count() {
			return nil, errors.NewConfigurationError("runner.swiss_cutoffs", fmt.Sprintf("cutoff %d outside 1..%d", cutoff, model.Count()))
		}
	}
	if _, err := NewSwissStage(model, matches, cfg.Swiss); err != nil {
		return nil, err
	}
	if _, err := NewGroupStage(model, matches, cfg.Group); err != nil {
		return nil, err
	}

	return &Runner{model: model, matches: matches, cfg: cfg}, nil
}

type tally struct {
	swissWeak map[int]int
	groupWeak map[int]int
	outcomes  []models.TrialOutcome
}

func newTally() *tally {
	return &tally{
		swissWeak: make(map[int]int),
		groupWeak: make(map[int]int),
	}
}

type workerResult struct {
	tally *tally
	err   error
}

// Run executes all trials and aggregates the weak-team counts. Workers own
// private tallies that are merged only after every worker has finished;
// since the merge adds integers, the outcome is identical for any worker
// count. The first trial error aborts the whole run.
func (r *Runner) Run(ctx context.Context) (*models.AggregateStatistics, error) {
	stats := &models.AggregateStatistics{
		Trials:    r.cfg.Trials,
		Seed:      r.cfg.Seed,
		TeamCount: r.model.Count(),
		WeakTeams: r.model.WeakCount(),
	}
	if r.cfg.Trials == 0 {
		return stats, nil
	}

	workers := r.cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if workers > r.cfg.Trials {
		workers = r.cfg.Trials
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan workerResult, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			res := workerResult{tally: newTally()}
			for t := workerID; t < r.cfg.Trials; t += workers {
				if err := ctx.Err(); err != nil {
					res.err = err
					break
				}
				if err := r.runTrial(t, res.tally); err != nil {
					res.err = err
					cancel()
					break
				}
			}
			results <- res
		}(w)
	}
	wg.Wait()
	close(results)

	total := newTally()
	var runErr error
	for res := range results {
		if res.err != nil && (runErr == nil || runErr == context.Canceled) {
			runErr = res.err
		}
		for cutoff, n := range res.tally.swissWeak {
			total.swissWeak[cutoff] += n
		}
		for cutoff, n := range res.tally.groupWeak {
			total.groupWeak[cutoff] += n
		}
		total.outcomes = append(total.outcomes, res.tally.outcomes...)
	}
	if runErr != nil {
		return nil, runErr
	}

	stats.Metrics = r.buildMetrics(total)
	if r.cfg.KeepTrialOutcomes {
		sort.Slice(total.outcomes, func(i, j int) bool {
			return total.outcomes[i].Trial < total.outcomes[j].Trial
		})
		stats.Outcomes = total.outcomes
	}
	return stats, nil
}

// runTrial plays one full season of both formats. The trial owns a rating
// stream derived from the base seed and its own index, shared in a fixed
// order by the Swiss stage first and the group stage second.
func (r *Runner) runTrial(trial int, tl *tally) error {
	rng := rand.New(rand.NewSource(r.cfg.Seed + int64(trial)))

	swiss, err := NewSwissStage(r.model, r.matches, r.cfg.Swiss)
	if err != nil {
		return err
	}
	if err := swiss.Run(rng); err != nil {
		return fmt.Errorf("trial %d: %w", trial, err)
	}
	rows, err := swiss.FinalStandings()
	if err != nil {
		return fmt.Errorf("trial %d: %w", trial, err)
	}

	outcome := models.TrialOutcome{Trial: trial}
	if r.cfg.KeepTrialOutcomes {
		outcome.SwissWeak = make(map[int]int, len(r.cfg.SwissCutoffs))
		outcome.GroupWeak = make(map[int]int, 2)
	}

	for _, cutoff := range r.cfg.SwissCutoffs {
		weak := 0
		for _, row := range rows[:cutoff] {
			if row.Weak {
				weak++
			}
		}
		tl.swissWeak[cutoff] += weak
		if r.cfg.KeepTrialOutcomes {
			outcome.SwissWeak[cutoff] = weak
		}
	}

	group, err := NewGroupStage(r.model, r.matches, r.cfg.Group)
	if err != nil {
		return err
	}
	res := group.Run(rng)

	weakQualifiers := r.countWeak(res.Qualifiers)
	tl.groupWeak[r.cfg.Group.QualifyPerGroup] += weakQualifiers
	if r.cfg.Group.QualifyPerGroup > 1 {
		tl.groupWeak[1] += r.countWeak(res.Winners)
	}
	if r.cfg.KeepTrialOutcomes {
		outcome.GroupWeak[r.cfg.Group.QualifyPerGroup] = weakQualifiers
		if r.cfg.Group.QualifyPerGroup > 1 {
			outcome.GroupWeak[1] = r.countWeak(res.Winners)
		}
		tl.outcomes = append(tl.outcomes, outcome)
	}
	return nil
}

func (r *Runner) countWeak(teams []int) int {
	n := 0
	for _, t := range teams {
		if r.model.IsWeak(t) {
			n++
		}
	}
	return n
}

// buildMetrics turns raw weak totals into per-cutoff aggregates, Swiss
// cutoffs first in config order, then group qualifiers and group winners.
func (r *Runner) buildMetrics(total *tally) []models.AggregateMetric {
	trials := float64(r.cfg.Trials)
	metric := func(format string, cutoff, capacity, weakTotal int) models.AggregateMetric {
		avg := float64(weakTotal) / trials
		return models.AggregateMetric{
			Format:      format,
			Cutoff:      cutoff,
			Capacity:    capacity,
			WeakTotal:   weakTotal,
			WeakAverage: avg,
			WeakShare:   avg / float64(capacity),
		}
	}

	var metrics []models.AggregateMetric
	for _, cutoff := range r.cfg.SwissCutoffs {
		metrics = append(metrics, metric(FormatSwiss, cutoff, cutoff, total.swissWeak[cutoff]))
	}
	qualify := r.cfg.Group.QualifyPerGroup
	metrics = append(metrics, metric(FormatGroup, qualify, qualify*r.cfg.Group.Groups, total.groupWeak[qualify]))
	if qualify > 1 {
		metrics = append(metrics, metric(FormatGroup, 1, r.cfg.Group.Groups, total.groupWeak[1]))
	}
	return metrics
}
