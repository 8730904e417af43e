package sim_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/leaguesim/internal/sim"
)

func TestNewGroupStage_RejectsBadConfigs(t *testing.T) {
	ms := matchSimulator(t)
	model := spreadModel(t, 12)

	tests := []struct {
		name    string
		model   *sim.RatingModel
		cfg     sim.GroupConfig
		wantMsg string
	}{
		{
			name:    "nil model",
			model:   nil,
			cfg:     sim.GroupConfig{Groups: 3, QualifyPerGroup: 2},
			wantMsg: "rating model",
		},
		{
			name:    "zero groups",
			model:   model,
			cfg:     sim.GroupConfig{Groups: 0, QualifyPerGroup: 2},
			wantMsg: "group.groups",
		},
		{
			name:    "too many groups",
			model:   model,
			cfg:     sim.GroupConfig{Groups: 7, QualifyPerGroup: 1},
			wantMsg: "fewer than 2 teams",
		},
		{
			name:    "zero qualifiers",
			model:   model,
			cfg:     sim.GroupConfig{Groups: 3, QualifyPerGroup: 0},
			wantMsg: "qualify_per_group",
		},
		{
			name:    "qualifiers exceed group size",
			model:   model,
			cfg:     sim.GroupConfig{Groups: 3, QualifyPerGroup: 5},
			wantMsg: "smallest group size",
		},
		{
			name:    "unknown allocation",
			model:   model,
			cfg:     sim.GroupConfig{Groups: 3, QualifyPerGroup: 2, Allocation: "draft"},
			wantMsg: "unknown policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.NewGroupStage(tt.model, ms, tt.cfg)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "CONFIGURATION_ERROR")
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestGroupStage_PartitionsTheField(t *testing.T) {
	for _, allocation := range []string{sim.AllocationRandom, sim.AllocationSeeded} {
		t.Run(allocation, func(t *testing.T) {
			// 10 teams over 3 groups: sizes must be 4, 3, 3.
			model := spreadModel(t, 10)
			stage, err := sim.NewGroupStage(model, matchSimulator(t), sim.GroupConfig{
				Groups:          3,
				QualifyPerGroup: 2,
				Allocation:      allocation,
			})
			require.NoError(t, err)

			res := stage.Run(rand.New(rand.NewSource(5)))
			require.Len(t, res.Groups, 3)

			seen := make(map[int]bool)
			for _, group := range res.Groups {
				assert.Contains(t, []int{3, 4}, len(group), "group sizes should differ by at most one")
				for _, team := range group {
					assert.False(t, seen[team], "team %d allocated twice", team)
					seen[team] = true
				}
			}
			assert.Len(t, seen, 10, "every team should land in exactly one group")
		})
	}
}

func TestGroupStage_SeededSnake(t *testing.T) {
	// Spread teams are strongest first, so seeding order is rating order
	// and the snake is fully predictable.
	model := spreadModel(t, 8)
	stage, err := sim.NewGroupStage(model, matchSimulator(t), sim.GroupConfig{
		Groups:          2,
		QualifyPerGroup: 2,
		Allocation:      sim.AllocationSeeded,
	})
	require.NoError(t, err)

	res := stage.Run(rand.New(rand.NewSource(1)))
	assert.Equal(t, []int{0, 3, 4, 7}, res.Groups[0])
	assert.Equal(t, []int{1, 2, 5, 6}, res.Groups[1])
}

func TestGroupStage_QualifiersAndWinners(t *testing.T) {
	model := spreadModel(t, 36)
	stage, err := sim.NewGroupStage(model, matchSimulator(t), sim.GroupConfig{
		Groups:           9,
		QualifyPerGroup:  2,
		DoubleRoundRobin: true,
	})
	require.NoError(t, err)

	res := stage.Run(rand.New(rand.NewSource(9)))
	require.Len(t, res.Qualifiers, 18)
	require.Len(t, res.Winners, 9)

	qualifiers := make(map[int]bool, len(res.Qualifiers))
	for _, team := range res.Qualifiers {
		qualifiers[team] = true
	}
	for _, winner := range res.Winners {
		assert.True(t, qualifiers[winner], "every group winner should also qualify")
	}

	// Qualifiers are the top rows of each group table.
	for gi, standing := range res.Standings {
		require.Len(t, standing.Rows, 4)
		assert.Equal(t, gi, standing.Group)
		for i := 1; i < len(standing.Rows); i++ {
			assert.GreaterOrEqual(t, standing.Rows[i-1].Points, standing.Rows[i].Points)
		}
	}
}

func TestGroupStage_RoundRobinMatchCounts(t *testing.T) {
	tests := []struct {
		name       string
		double     bool
		wantPlayed int
	}{
		{
			name:       "single round robin",
			double:     false,
			wantPlayed: 3,
		},
		{
			name:       "double round robin",
			double:     true,
			wantPlayed: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := spreadModel(t, 12)
			stage, err := sim.NewGroupStage(model, matchSimulator(t), sim.GroupConfig{
				Groups:           3,
				QualifyPerGroup:  2,
				DoubleRoundRobin: tt.double,
			})
			require.NoError(t, err)

			res := stage.Run(rand.New(rand.NewSource(2)))
			for _, standing := range res.Standings {
				for _, row := range standing.Rows {
					assert.Equal(t, tt.wantPlayed, row.Played, "%s should meet every group rival %s", row.Team, tt.name)
				}
			}
		})
	}
}

func TestGroupStage_Deterministic(t *testing.T) {
	model := spreadModel(t, 36)
	stage, err := sim.NewGroupStage(model, matchSimulator(t), sim.GroupConfig{
		Groups:           9,
		QualifyPerGroup:  2,
		DoubleRoundRobin: true,
	})
	require.NoError(t, err)

	first := stage.Run(rand.New(rand.NewSource(11)))
	second := stage.Run(rand.New(rand.NewSource(11)))

	assert.Equal(t, first, second, "the same seed should replay the same group phase")
}
