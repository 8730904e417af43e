package models

type TrialOutcome struct {
	Trial     int         `json:"trial"`
	SwissWeak map[int]int `json:"swiss_weak"`
	GroupWeak map[int]int `json:"group_weak"`
}

type AggregateMetric struct {
	Format      string  `json:"format"`
	Cutoff      int     `json:"cutoff"`
	Capacity    int     `json:"capacity"`
	WeakTotal   int     `json:"weak_total"`
	WeakAverage float64 `json:"weak_average"`
	WeakShare   float64 `json:"weak_share"`
}

type AggregateStatistics struct {
	Trials    int               `json:"trials"`
	Seed      int64             `json:"seed"`
	TeamCount int               `json:"team_count"`
	WeakTeams int               `json:"weak_teams"`
	Metrics   []AggregateMetric `json:"metrics"`
	Outcomes  []TrialOutcome    `json:"outcomes,omitempty"`
}

// Metric looks up the aggregate for a format/cutoff pair, e.g. ("swiss", 8).
func (s *AggregateStatistics) Metric(format string, cutoff int) (AggregateMetric, bool) {
	for _, m := range s.Metrics {
		if m.Format == format && m.Cutoff == cutoff {
			return m, true
		}
	}
	return AggregateMetric{}, false
}

// NoData reports whether the statistics come from zero trials. Averages and
// shares are meaningless in that case and are never computed.
func (s *AggregateStatistics) NoData() bool {
	return s.Trials == 0
}
