package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/vytor/leaguesim/internal/models"
)

// WriteSummary writes the aggregate statistics as metric/value CSV rows.
// Metric names are systematic: <format>_avg_weak_top<cutoff>, followed by
// n_trials and seed so a summary is self-describing.
func WriteSummary(w io.Writer, stats *models.AggregateStatistics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return err
	}
	for _, m := range stats.Metrics {
		name := fmt.Sprintf("%s_avg_weak_top%d", m.Format, m.Cutoff)
		if err := cw.Write([]string{name, strconv.FormatFloat(m.WeakAverage, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"n_trials", strconv.Itoa(stats.Trials)}); err != nil {
		return err
	}
	if err := cw.Write([]string{"seed", strconv.FormatInt(stats.Seed, 10)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryFile writes the summary CSV to path, creating the parent
// directory when needed.
func WriteSummaryFile(path string, stats *models.AggregateStatistics) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteSummary(f, stats); err != nil {
		return err
	}
	return f.Close()
}

// WriteTrialOutcomes writes the per-trial detail CSV, one row per trial,
// format and cutoff. It requires the statistics to carry trial outcomes.
func WriteTrialOutcomes(w io.Writer, stats *models.AggregateStatistics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trial", "format", "cutoff", "weak"}); err != nil {
		return err
	}
	writeCounts := func(trial int, format string, counts map[int]int) error {
		cutoffs := make([]int, 0, len(counts))
		for cutoff := range counts {
			cutoffs = append(cutoffs, cutoff)
		}
		sort.Ints(cutoffs)
		for _, cutoff := range cutoffs {
			row := []string{strconv.Itoa(trial), format, strconv.Itoa(cutoff), strconv.Itoa(counts[cutoff])}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	}
	for _, o := range stats.Outcomes {
		if err := writeCounts(o.Trial, "swiss", o.SwissWeak); err != nil {
			return err
		}
		if err := writeCounts(o.Trial, "group", o.GroupWeak); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ComparisonTable prints an aligned console summary of both formats: one
// row per metric with the average number of weak qualifiers and their share
// of the available slots.
func ComparisonTable(w io.Writer, stats *models.AggregateStatistics) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "FORMAT\tCUTOFF\tSLOTS\tAVG WEAK\tWEAK SHARE\n")
	if stats.NoData() {
		fmt.Fprintf(tw, "(no data: 0 trials)\t\t\t\t\n")
		return tw.Flush()
	}
	for _, m := range stats.Metrics {
		fmt.Fprintf(tw, "%s\ttop %d\t%d\t%.2f\t%s\n", m.Format, m.Cutoff, m.Capacity, m.WeakAverage, pct(m.WeakShare))
	}
	fmt.Fprintf(tw, "\n")
	fmt.Fprintf(tw, "teams\t%d\tweak\t%d\ttrials %d (seed %d)\n",
		stats.TeamCount, stats.WeakTeams, stats.Trials, stats.Seed)
	return tw.Flush()
}

func pct(v float64) string {
	return fmt.Sprintf("%5.2f%%", v*100)
}
