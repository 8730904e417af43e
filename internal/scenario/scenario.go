package scenario

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v2"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/sim"
)

// Scenario is one complete simulation input document: the team field, the
// match model and the configuration of both formats. Scenarios are loaded
// from JSON or YAML files or posted to the HTTP API as JSON.
type Scenario struct {
	Name string `json:"name" yaml:"name"`
	// Trials is the number of simulated seasons. Zero yields a no-data run.
	Trials int   `json:"trials" yaml:"trials"`
	Seed   int64 `json:"seed" yaml:"seed"`
	// TeamSeed drives synthetic team generation so the field stays fixed
	// across runs even when Seed changes.
	TeamSeed        int64   `json:"team_seed" yaml:"team_seed"`
	WeakThreshold   float64 `json:"weak_threshold" yaml:"weak_threshold"`
	DrawProbability float64 `json:"draw_probability" yaml:"draw_probability"`

	// Exactly one of Teams, Tiers or Spread supplies the field.
	Teams  []models.Team `json:"teams,omitempty" yaml:"teams,omitempty"`
	Tiers  []TierSpec    `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	Spread *SpreadSpec   `json:"spread,omitempty" yaml:"spread,omitempty"`

	Swiss SwissSection `json:"swiss" yaml:"swiss"`
	Group GroupSection `json:"group" yaml:"group"`
}

// TierSpec describes one rating band of a synthetic field.
type TierSpec struct {
	Label     string `json:"label" yaml:"label"`
	Count     int    `json:"count" yaml:"count"`
	MinRating int    `json:"min_rating" yaml:"min_rating"`
	MaxRating int    `json:"max_rating" yaml:"max_rating"`
}

// SpreadSpec describes a deterministic field with evenly spaced ratings.
type SpreadSpec struct {
	Prefix    string  `json:"prefix" yaml:"prefix"`
	Count     int     `json:"count" yaml:"count"`
	MinRating float64 `json:"min_rating" yaml:"min_rating"`
	MaxRating float64 `json:"max_rating" yaml:"max_rating"`
}

// SwissSection configures the Swiss-format league phase.
type SwissSection struct {
	Rounds  int   `json:"rounds" yaml:"rounds"`
	Pots    int   `json:"pots" yaml:"pots"`
	Cutoffs []int `json:"cutoffs,omitempty" yaml:"cutoffs,omitempty"`
}

// GroupSection configures the classic group phase.
type GroupSection struct {
	Groups           int    `json:"groups" yaml:"groups"`
	QualifyPerGroup  int    `json:"qualify_per_group" yaml:"qualify_per_group"`
	DoubleRoundRobin bool   `json:"double_round_robin" yaml:"double_round_robin"`
	Allocation       string `json:"allocation,omitempty" yaml:"allocation,omitempty"`
}

// Load reads and validates a scenario file. The format is selected by the
// file extension: .json, .yaml or .yml.
func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigurationError("scenario", fmt.Sprintf("cannot read %s: %v", path, err))
	}

	var s Scenario
	switch ext := filepath.Ext(path); ext {
	case ".json":
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.NewConfigurationError("scenario", fmt.Sprintf("bad JSON in %s: %v", path, err))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return nil, errors.NewConfigurationError("scenario", fmt.Sprintf("bad YAML in %s: %v", path, err))
		}
	default:
		return nil, errors.NewConfigurationError("scenario", fmt.Sprintf("unsupported file format %q", ext))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Parse decodes a raw JSON scenario document, as posted to the HTTP API,
// and validates it.
func Parse(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.NewConfigurationError("scenario", fmt.Sprintf("bad JSON: %v", err))
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the canonical 36-team comparison scenario: a tiered field,
// 8 Swiss rounds over 4 pots with Top 8 and Top 24 cutoffs, and 9 groups of
// 4 with a double round-robin qualifying the top 2.
func Default() *Scenario {
	return &Scenario{
		Name:            "swiss-vs-groups-36",
		Trials:          20000,
		Seed:            42,
		TeamSeed:        42,
		WeakThreshold:   1500,
		DrawProbability: 0.25,
		Tiers: []TierSpec{
			{Label: "Top", Count: 8, MinRating: 1850, MaxRating: 2050},
			{Label: "Strong", Count: 10, MinRating: 1750, MaxRating: 1849},
			{Label: "Mid", Count: 10, MinRating: 1550, MaxRating: 1749},
			{Label: "Weak", Count: 8, MinRating: 1350, MaxRating: 1549},
		},
		Swiss: SwissSection{Rounds: 8, Pots: 4, Cutoffs: []int{8, 24}},
		Group: GroupSection{Groups: 9, QualifyPerGroup: 2, DoubleRoundRobin: true},
	}
}

// Validate applies defaults and checks every field. Zero values for the
// weak threshold and the draw probability mean "unset" in scenario
// documents and select 1500 and 0.25.
func (s *Scenario) Validate() error {
	if s.WeakThreshold == 0 {
		s.WeakThreshold = 1500
	}
	if s.DrawProbability == 0 {
		s.DrawProbability = 0.25
	}
	if len(s.Swiss.Cutoffs) == 0 {
		s.Swiss.Cutoffs = append([]int(nil), sim.DefaultSwissCutoffs...)
	}

	if s.Trials < 0 {
		return errors.NewConfigurationError("scenario.trials", fmt.Sprintf("cannot be negative, got %d", s.Trials))
	}
	if s.DrawProbability < 0 || s.DrawProbability >= 1 {
		return errors.NewConfigurationError("scenario.draw_probability", fmt.Sprintf("must be in [0, 1), got %v", s.DrawProbability))
	}

	sources := 0
	if len(s.Teams) > 0 {
		sources++
	}
	if len(s.Tiers) > 0 {
		sources++
	}
	if s.Spread != nil {
		sources++
	}
	if sources != 1 {
		return errors.NewConfigurationError("scenario", fmt.Sprintf("exactly one of teams, tiers or spread must be set, got %d", sources))
	}

	n := s.TeamCount()
	if n < 2 {
		return errors.NewConfigurationError("scenario", fmt.Sprintf("the field needs at least 2 teams, got %d", n))
	}

	if s.Swiss.Rounds < 1 {
		return errors.NewConfigurationError("scenario.swiss.rounds", fmt.Sprintf("must be at least 1, got %d", s.Swiss.Rounds))
	}
	if s.Swiss.Pots < 1 {
		return errors.NewConfigurationError("scenario.swiss.pots", fmt.Sprintf("must be at least 1, got %d", s.Swiss.Pots))
	}
	for _, cutoff := range s.Swiss.Cutoffs {
		if cutoff < 1 || cutoff > n {
			return errors.NewConfigurationError("scenario.swiss.cutoffs", fmt.Sprintf("cutoff %d outside 1..%d", cutoff, n))
		}
	}
	if s.Group.Groups < 1 {
		return errors.NewConfigurationError("scenario.group.groups", fmt.Sprintf("must be at least 1, got %d", s.Group.Groups))
	}
	if s.Group.QualifyPerGroup < 1 {
		return errors.NewConfigurationError("scenario.group.qualify_per_group", fmt.Sprintf("must be at least 1, got %d", s.Group.QualifyPerGroup))
	}
	return nil
}

// TeamCount returns the size of the field the scenario describes.
func (s *Scenario) TeamCount() int {
	switch {
	case len(s.Teams) > 0:
		return len(s.Teams)
	case len(s.Tiers) > 0:
		n := 0
		for _, t := range s.Tiers {
			n += t.Count
		}
		return n
	case s.Spread != nil:
		return s.Spread.Count
	default:
		return 0
	}
}

// RatingModel builds the rating model for the scenario, generating the team
// field first when tiers or a spread are given. Generation draws from the
// team seed only, so the same scenario always fields the same teams.
func (s *Scenario) RatingModel() (*sim.RatingModel, error) {
	teams := s.Teams
	switch {
	case len(s.Tiers) > 0:
		tiers := make([]sim.Tier, len(s.Tiers))
		for i, t := range s.Tiers {
			tiers[i] = sim.Tier{Label: t.Label, Count: t.Count, MinRating: t.MinRating, MaxRating: t.MaxRating}
		}
		generated, err := sim.GenerateTeams(tiers, rand.New(rand.NewSource(s.TeamSeed)))
		if err != nil {
			return nil, err
		}
		teams = generated
	case s.Spread != nil:
		prefix := s.Spread.Prefix
		if prefix == "" {
			prefix = "Team"
		}
		generated, err := sim.SpreadTeams(prefix, s.Spread.Count, s.Spread.MinRating, s.Spread.MaxRating)
		if err != nil {
			return nil, err
		}
		teams = generated
	}
	return sim.NewRatingModel(teams, s.WeakThreshold)
}

// RunnerConfig translates the scenario into an engine configuration. The
// trial worker count comes from the caller since it is an operational
// concern, not part of the scenario.
func (s *Scenario) RunnerConfig(workers int) sim.RunnerConfig {
	return sim.RunnerConfig{
		Trials:       s.Trials,
		Seed:         s.Seed,
		Workers:      workers,
		SwissCutoffs: append([]int(nil), s.Swiss.Cutoffs...),
		Swiss: sim.SwissConfig{
			Rounds: s.Swiss.Rounds,
			Pots:   s.Swiss.Pots,
		},
		Group: sim.GroupConfig{
			Groups:           s.Group.Groups,
			QualifyPerGroup:  s.Group.QualifyPerGroup,
			DoubleRoundRobin: s.Group.DoubleRoundRobin,
			Allocation:       s.Group.Allocation,
		},
	}
}

// Document renders the scenario back to canonical JSON for persistence.
func (s *Scenario) Document() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
