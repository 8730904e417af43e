package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/models"
)

// Allocation policies for distributing teams into groups.
const (
	AllocationRandom = "random"
	AllocationSeeded = "seeded"
)

// GroupConfig parameterizes a classic group phase.
type GroupConfig struct {
	// Groups is the number of groups the field is split into.
	Groups int
	// QualifyPerGroup is how many teams advance from each group.
	QualifyPerGroup int
	// DoubleRoundRobin plays a return leg for every pairing.
	DoubleRoundRobin bool
	// Allocation is "random" (shuffle and deal) or "seeded" (snake
	// distribution by rating). Empty selects random.
	Allocation string
}

// GroupResult is the outcome of one simulated group phase. Team references
// are seeding indices into the stage's rating model.
type GroupResult struct {
	Groups     [][]int
	Standings  []models.GroupStanding
	Qualifiers []int
	Winners    []int
}

// GroupStage simulates a classic group phase: the field is partitioned into
// groups, each group plays a round-robin, the top teams of every group
// qualify. Every team lands in exactly one group.
type GroupStage struct {
	model   *RatingModel
	matches *MatchSimulator
	cfg     GroupConfig
}

// NewGroupStage validates the configuration against the team field.
func NewGroupStage(model *RatingModel, matches *MatchSimulator, cfg GroupConfig) (*GroupStage, error) {
	if model == nil {
		return nil, errors.NewConfigurationError("group", "rating model is required")
	}
	if matches == nil {
		return nil, errors.NewConfigurationError("group", "match simulator is required")
	}
	if cfg.Allocation == "" {
		cfg.Allocation = AllocationRandom
	}
	if cfg.Allocation != AllocationRandom && cfg.Allocation != AllocationSeeded {
		return nil, errors.NewConfigurationError("group.allocation", fmt.Sprintf("unknown policy %q", cfg.Allocation))
	}
	n := model.Count()
	if cfg.Groups < 1 {
		return nil, errors.NewConfigurationError("group.groups", fmt.Sprintf("must be at least 1, got %d", cfg.Groups))
	}
	minSize := n / cfg.Groups
	if minSize < 2 {
		return nil, errors.NewConfigurationError("group.groups", fmt.Sprintf("%d groups leave fewer than 2 teams per group for %d teams", cfg.Groups, n))
	}
	if cfg.QualifyPerGroup < 1 {
		return nil, errors.NewConfigurationError("group.qualify_per_group", fmt.Sprintf("must be at least 1, got %d", cfg.QualifyPerGroup))
	}
	if cfg.QualifyPerGroup > minSize {
		return nil, errors.NewConfigurationError("group.qualify_per_group", fmt.Sprintf("cannot exceed the smallest group size %d", minSize))
	}

	return &GroupStage{model: model, matches: matches, cfg: cfg}, nil
}

// Run allocates the field, plays every group and returns the outcome. Each
// call is an independent season driven entirely by rng.
func (g *GroupStage) Run(rng *rand.Rand) *GroupResult {
	groups := g.allocate(rng)

	res := &GroupResult{Groups: groups}
	for gi, group := range groups {
		points := make(map[int]int, len(group))
		played := make(map[int]int, len(group))
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				g.playMatch(group[i], group[j], points, played, rng)
				if g.cfg.DoubleRoundRobin {
					g.playMatch(group[j], group[i], points, played, rng)
				}
			}
		}

		order := make([]int, len(group))
		copy(order, group)
		sort.Slice(order, func(i, j int) bool {
			a, b := order[i], order[j]
			if points[a] != points[b] {
				return points[a] > points[b]
			}
			return a < b
		})

		rows := make([]models.StandingsRow, len(order))
		for rank, t := range order {
			team := g.model.Team(t)
			rows[rank] = models.StandingsRow{
				Rank:   rank + 1,
				Team:   team.Name,
				Rating: team.Rating,
				Points: points[t],
				Played: played[t],
				Weak:   g.model.IsWeak(t),
			}
		}
		res.Standings = append(res.Standings, models.GroupStanding{Group: gi, Rows: rows})

		res.Qualifiers = append(res.Qualifiers, order[:g.cfg.QualifyPerGroup]...)
		res.Winners = append(res.Winners, order[0])
	}
	return res
}

func (g *GroupStage) playMatch(a, b int, points, played map[int]int, rng *rand.Rand) {
	outcome := g.matches.Simulate(g.model.Rating(a), g.model.Rating(b), rng)
	pa, pb := outcome.Points()
	points[a] += pa
	points[b] += pb
	played[a]++
	played[b]++
}

// allocate splits the field into groups under the configured policy.
func (g *GroupStage) allocate(rng *rand.Rand) [][]int {
	if g.cfg.Allocation == AllocationSeeded {
		return g.allocateSeeded()
	}
	return g.allocateRandom(rng)
}

// allocateRandom shuffles the field and deals it out in chunks. When the
// field does not divide evenly, the leading groups take one extra team.
func (g *GroupStage) allocateRandom(rng *rand.Rand) [][]int {
	n := g.model.Count()
	perm := rng.Perm(n)

	base := n / g.cfg.Groups
	rem := n % g.cfg.Groups
	groups := make([][]int, g.cfg.Groups)
	next := 0
	for gi := range groups {
		size := base
		if gi < rem {
			size++
		}
		groups[gi] = append([]int(nil), perm[next:next+size]...)
		next += size
	}
	return groups
}

// allocateSeeded snakes the field through the groups by rating: the
// strongest row fills groups left to right, the next row right to left,
// and so on. A partial final row fills the later groups in reverse, so
// sizes still differ by at most one.
func (g *GroupStage) allocateSeeded() [][]int {
	n := g.model.Count()
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if g.model.Rating(a) != g.model.Rating(b) {
			return g.model.Rating(a) > g.model.Rating(b)
		}
		return a < b
	})

	k := g.cfg.Groups
	groups := make([][]int, k)
	for start := 0; start < n; start += k {
		row := order[start:min(start+k, n)]
		rowIdx := start / k
		switch {
		case len(row) < k:
			for i, t := range row {
				groups[k-1-i] = append(groups[k-1-i], t)
			}
		case rowIdx%2 == 1:
			for i, t := range row {
				groups[k-1-i] = append(groups[k-1-i], t)
			}
		default:
			for i, t := range row {
				groups[i] = append(groups[i], t)
			}
		}
	}
	return groups
}
