package sim_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leaguesim/internal/models"
	"github.com/vytor/leaguesim/internal/sim"
)

func TestNewRatingModel_Validation(t *testing.T) {
	tests := []struct {
		name          string
		teams         []models.Team
		expectedError string
	}{
		{
			name:          "no teams",
			teams:         nil,
			expectedError: "at least 2 teams",
		},
		{
			name:          "single team",
			teams:         []models.Team{{Name: "solo", Rating: 1500}},
			expectedError: "at least 2 teams",
		},
		{
			name: "empty name",
			teams: []models.Team{
				{Name: "a", Rating: 1500},
				{Name: "", Rating: 1400},
			},
			expectedError: "empty name",
		},
		{
			name: "duplicate name",
			teams: []models.Team{
				{Name: "a", Rating: 1500},
				{Name: "a", Rating: 1400},
			},
			expectedError: "duplicate team name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.NewRatingModel(tt.teams, 1500)

			assert.Error(t, err)
			assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestRatingModel_WeakClassification(t *testing.T) {
	model, err := sim.NewRatingModel([]models.Team{
		{Name: "strong", Rating: 1800},
		{Name: "edge", Rating: 1500},
		{Name: "weak", Rating: 1499},
		{Name: "weaker", Rating: 1350},
	}, 1500)
	require.NoError(t, err)

	assert.False(t, model.IsWeak(0))
	assert.False(t, model.IsWeak(1), "a team exactly at the threshold is not weak")
	assert.True(t, model.IsWeak(2), "a team strictly below the threshold is weak")
	assert.True(t, model.IsWeak(3))
	assert.Equal(t, 2, model.WeakCount())
	assert.Equal(t, 0.5, model.WeakShare())
}

func TestRatingModel_PreservesSeedingOrder(t *testing.T) {
	teams := []models.Team{
		{Name: "c", Rating: 1400},
		{Name: "a", Rating: 1900},
		{Name: "b", Rating: 1600},
	}

	model, err := sim.NewRatingModel(teams, 1500)
	require.NoError(t, err)

	got := model.Teams()
	assert.Equal(t, teams, got, "seeding order must survive construction")

	// Mutating the copy must not leak back into the model.
	got[0].Rating = 0
	assert.Equal(t, 1400.0, model.Rating(0))
}

func TestGenerateTeams_TierBands(t *testing.T) {
	tiers := []sim.Tier{
		{Label: "Top", Count: 8, MinRating: 1850, MaxRating: 2050},
		{Label: "Strong", Count: 10, MinRating: 1750, MaxRating: 1849},
		{Label: "Mid", Count: 10, MinRating: 1550, MaxRating: 1749},
		{Label: "Weak", Count: 8, MinRating: 1350, MaxRating: 1549},
	}

	rng := rand.New(rand.NewSource(11))
	teams, err := sim.GenerateTeams(tiers, rng)
	require.NoError(t, err)
	require.Len(t, teams, 36)

	counts := map[string]int{}
	bands := map[string][2]float64{
		"Top":    {1850, 2050},
		"Strong": {1750, 1849},
		"Mid":    {1550, 1749},
		"Weak":   {1350, 1549},
	}
	for _, team := range teams {
		label := team.Name[:strings.Index(team.Name, "_")]
		counts[label]++
		band, ok := bands[label]
		require.True(t, ok, "unexpected label in %q", team.Name)
		assert.GreaterOrEqual(t, team.Rating, band[0], "%s below its band", team.Name)
		assert.LessOrEqual(t, team.Rating, band[1], "%s above its band", team.Name)
	}
	assert.Equal(t, map[string]int{"Top": 8, "Strong": 10, "Mid": 10, "Weak": 8}, counts)
}

func TestGenerateTeams_Deterministic(t *testing.T) {
	tiers := []sim.Tier{
		{Label: "A", Count: 6, MinRating: 1500, MaxRating: 1700},
		{Label: "B", Count: 6, MinRating: 1300, MaxRating: 1499},
	}

	first, err := sim.GenerateTeams(tiers, rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	second, err := sim.GenerateTeams(tiers, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Equal(t, first, second, "the same seed should generate the same field")
}

func TestGenerateTeams_InvalidTiers(t *testing.T) {
	tests := []struct {
		name  string
		tiers []sim.Tier
	}{
		{
			name:  "no tiers",
			tiers: nil,
		},
		{
			name:  "zero count",
			tiers: []sim.Tier{{Label: "A", Count: 0, MinRating: 1000, MaxRating: 1100}},
		},
		{
			name:  "inverted band",
			tiers: []sim.Tier{{Label: "A", Count: 2, MinRating: 1200, MaxRating: 1100}},
		},
		{
			name:  "missing label",
			tiers: []sim.Tier{{Count: 2, MinRating: 1000, MaxRating: 1100}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.GenerateTeams(tt.tiers, rand.New(rand.NewSource(1)))

			assert.Error(t, err)
			assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
		})
	}
}

func TestSpreadTeams_EvenSpacing(t *testing.T) {
	teams, err := sim.SpreadTeams("team", 7, 1300, 1900)
	require.NoError(t, err)
	require.Len(t, teams, 7)

	assert.Equal(t, 1900.0, teams[0].Rating, "spread starts at the high end")
	assert.Equal(t, 1300.0, teams[6].Rating, "spread ends at the low end")
	for i := 1; i < len(teams); i++ {
		assert.InDelta(t, 100.0, teams[i-1].Rating-teams[i].Rating, 1e-9, "steps should be even")
	}
}

func TestSpreadTeams_Invalid(t *testing.T) {
	_, err := sim.SpreadTeams("team", 1, 1300, 1900)
	assert.Error(t, err)

	_, err = sim.SpreadTeams("team", 4, 1900, 1300)
	assert.Error(t, err)
}
