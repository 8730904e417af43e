package sim

import (
	"fmt"
	"math/rand"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/models"
)

// RatingModel holds an immutable field of teams with Elo-style ratings.
// Team order is the seeding order: it never changes after construction and
// is the tie-break key everywhere standings are sorted. The same model is
// shared by every trial of a run; only the random streams differ.
type RatingModel struct {
	teams     []models.Team
	weakBelow float64
}

// NewRatingModel validates the team field and fixes the weak threshold.
// Teams rated strictly below the threshold count as weak.
func NewRatingModel(teams []models.Team, weakThreshold float64) (*RatingModel, error) {
	if len(teams) < 2 {
		return nil, errors.NewConfigurationError("teams", fmt.Sprintf("need at least 2 teams, got %d", len(teams)))
	}
	seen := make(map[string]bool, len(teams))
	for i, t := range teams {
		if t.Name == "" {
			return nil, errors.NewConfigurationError("teams", fmt.Sprintf("team %d has an empty name", i))
		}
		if seen[t.Name] {
			return nil, errors.NewConfigurationError("teams", fmt.Sprintf("duplicate team name %q", t.Name))
		}
		seen[t.Name] = true
	}

	owned := make([]models.Team, len(teams))
	copy(owned, teams)
	return &RatingModel{teams: owned, weakBelow: weakThreshold}, nil
}

// Count returns the number of teams.
func (m *RatingModel) Count() int {
	return len(m.teams)
}

// Team returns the team at seeding position i.
func (m *RatingModel) Team(i int) models.Team {
	return m.teams[i]
}

// Rating returns the rating of team i.
func (m *RatingModel) Rating(i int) float64 {
	return m.teams[i].Rating
}

// IsWeak reports whether team i is rated below the weak threshold.
func (m *RatingModel) IsWeak(i int) bool {
	return m.teams[i].Rating < m.weakBelow
}

// Threshold returns the weak-team rating threshold.
func (m *RatingModel) Threshold() float64 {
	return m.weakBelow
}

// WeakCount returns how many teams are weak.
func (m *RatingModel) WeakCount() int {
	n := 0
	for i := range m.teams {
		if m.IsWeak(i) {
			n++
		}
	}
	return n
}

// WeakShare returns the weak fraction of the field.
func (m *RatingModel) WeakShare() float64 {
	return float64(m.WeakCount()) / float64(len(m.teams))
}

// Teams returns a copy of the field in seeding order.
func (m *RatingModel) Teams() []models.Team {
	out := make([]models.Team, len(m.teams))
	copy(out, m.teams)
	return out
}

// Tier describes one rating band of a synthetic field: Count teams rated
// uniformly in [MinRating, MaxRating], both bounds inclusive.
type Tier struct {
	Label     string
	Count     int
	MinRating int
	MaxRating int
}

// GenerateTeams builds a synthetic field from rating tiers. Ratings are
// integer draws from each tier's band and the finished field is shuffled so
// seeding order carries no rating information.
func GenerateTeams(tiers []Tier, rng *rand.Rand) ([]models.Team, error) {
	if len(tiers) == 0 {
		return nil, errors.NewConfigurationError("tiers", "no tiers given")
	}

	var teams []models.Team
	for i, tier := range tiers {
		if tier.Label == "" {
			return nil, errors.NewConfigurationError("tiers", fmt.Sprintf("tier %d has an empty label", i))
		}
		if tier.Count < 1 {
			return nil, errors.NewConfigurationError("tiers", fmt.Sprintf("tier %q needs a positive count", tier.Label))
		}
		if tier.MinRating > tier.MaxRating {
			return nil, errors.NewConfigurationError("tiers", fmt.Sprintf("tier %q has min rating above max rating", tier.Label))
		}
		for n := 0; n < tier.Count; n++ {
			rating := tier.MinRating + rng.Intn(tier.MaxRating-tier.MinRating+1)
			teams = append(teams, models.Team{
				Name:   fmt.Sprintf("%s_%d", tier.Label, n+1),
				Rating: float64(rating),
			})
		}
	}

	rng.Shuffle(len(teams), func(i, j int) {
		teams[i], teams[j] = teams[j], teams[i]
	})
	return teams, nil
}

// SpreadTeams builds a deterministic field of n teams with ratings evenly
// spaced across [lo, hi], strongest first.
func SpreadTeams(prefix string, n int, lo, hi float64) ([]models.Team, error) {
	if n < 2 {
		return nil, errors.NewConfigurationError("spread", fmt.Sprintf("need at least 2 teams, got %d", n))
	}
	if lo > hi {
		return nil, errors.NewConfigurationError("spread", "low rating above high rating")
	}

	teams := make([]models.Team, n)
	step := (hi - lo) / float64(n-1)
	for i := 0; i < n; i++ {
		teams[i] = models.Team{
			Name:   fmt.Sprintf("%s_%d", prefix, i+1),
			Rating: hi - float64(i)*step,
		}
	}
	return teams, nil
}
