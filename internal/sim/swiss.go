package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/vytor/leaguesim/internal/errors"
	"github.com/vytor/leaguesim/internal/models"
)

// DefaultMaxRepairAttempts bounds pairing repair per round when the config
// does not set its own budget.
const DefaultMaxRepairAttempts = 64

// SwissConfig parameterizes a Swiss-style league phase.
type SwissConfig struct {
	// Rounds is the number of rounds every team plays.
	Rounds int
	// Pots is the number of standing bands used to constrain pairing. Teams
	// are preferably paired within their own pot, relaxing to the nearest
	// pots when no legal partner remains.
	Pots int
	// MaxRepairAttempts caps how many tentative pairings may be broken and
	// re-matched per round before the round is declared unpairable. Zero
	// selects DefaultMaxRepairAttempts.
	MaxRepairAttempts int
}

type stageState int

const (
	stateNotStarted stageState = iota
	stateRoundInProgress
	stateRoundComplete
	stateStageComplete
	stateFailed
)

// Match records one simulated pairing.
type Match struct {
	Round   int
	TeamA   int
	TeamB   int
	Outcome Outcome
}

// SwissStage simulates a Swiss-style league phase: one shared table, a fixed
// number of rounds, opponents drawn fresh each round by current standing.
// Two invariants hold for every completed stage: each team plays exactly
// Rounds matches, and no team meets the same opponent twice.
type SwissStage struct {
	model   *RatingModel
	matches *MatchSimulator
	cfg     SwissConfig

	state   stageState
	round   int
	points  []int
	played  []int
	faced   [][]bool
	history []Match
}

// NewSwissStage validates the configuration against the team field. All
// impossible setups are rejected here, before any match is simulated.
func NewSwissStage(model *RatingModel, matches *MatchSimulator, cfg SwissConfig) (*SwissStage, error) {
	if model == nil {
		return nil, errors.NewConfigurationError("swiss", "rating model is required")
	}
	if matches == nil {
		return nil, errors.NewConfigurationError("swiss", "match simulator is required")
	}
	n := model.Count()
	if n%2 != 0 {
		return nil, errors.NewConfigurationError("swiss.teams", fmt.Sprintf("team count must be even, got %d", n))
	}
	if cfg.Rounds < 1 {
		return nil, errors.NewConfigurationError("swiss.rounds", fmt.Sprintf("must be at least 1, got %d", cfg.Rounds))
	}
	if cfg.Rounds > n-1 {
		return nil, errors.NewConfigurationError("swiss.rounds", fmt.Sprintf("%d teams cannot supply %d distinct opponents", n, cfg.Rounds))
	}
	if cfg.Pots < 1 || cfg.Pots > n {
		return nil, errors.NewConfigurationError("swiss.pots", fmt.Sprintf("must be between 1 and %d, got %d", n, cfg.Pots))
	}
	if cfg.MaxRepairAttempts < 0 {
		return nil, errors.NewConfigurationError("swiss.max_repair_attempts", "cannot be negative")
	}
	if cfg.MaxRepairAttempts == 0 {
		cfg.MaxRepairAttempts = DefaultMaxRepairAttempts
	}

	faced := make([][]bool, n)
	for i := range faced {
		faced[i] = make([]bool, n)
	}
	return &SwissStage{
		model:   model,
		matches: matches,
		cfg:     cfg,
		points:  make([]int, n),
		played:  make([]int, n),
		faced:   faced,
	}, nil
}

// Round returns the number of completed rounds.
func (s *SwissStage) Round() int {
	return s.round
}

// Complete reports whether all rounds have been played.
func (s *SwissStage) Complete() bool {
	return s.state == stateStageComplete
}

// Matches returns every simulated match so far, in play order.
func (s *SwissStage) Matches() []Match {
	out := make([]Match, len(s.history))
	copy(out, s.history)
	return out
}

// PlayRound pairs and simulates the next round. A pairing deadlock that
// survives the repair budget fails the stage permanently.
func (s *SwissStage) PlayRound(rng *rand.Rand) error {
	switch s.state {
	case stateStageComplete:
		return errors.NewValidationError("swiss_stage", "all rounds already played")
	case stateFailed:
		return errors.NewValidationError("swiss_stage", "stage failed in an earlier round")
	}

	s.state = stateRoundInProgress
	round := s.round + 1

	pairs, err := s.pairRound(round, rng)
	if err != nil {
		s.state = stateFailed
		return err
	}

	for _, p := range pairs {
		a, b := p[0], p[1]
		outcome := s.matches.Simulate(s.model.Rating(a), s.model.Rating(b), rng)
		pa, pb := outcome.Points()
		s.points[a] += pa
		s.points[b] += pb
		s.played[a]++
		s.played[b]++
		s.faced[a][b] = true
		s.faced[b][a] = true
		s.history = append(s.history, Match{Round: round, TeamA: a, TeamB: b, Outcome: outcome})
	}

	s.round = round
	if s.round == s.cfg.Rounds {
		s.state = stateStageComplete
	} else {
		s.state = stateRoundComplete
	}
	return nil
}

// Run plays all remaining rounds.
func (s *SwissStage) Run(rng *rand.Rand) error {
	for !s.Complete() {
		if err := s.PlayRound(rng); err != nil {
			return err
		}
	}
	return nil
}

// Standings returns the current table: points descending, seeding order as
// the tie-break.
func (s *SwissStage) Standings() []models.StandingsRow {
	return s.standingsRows()
}

// FinalStandings returns the table after the last round. Calling it before
// the stage completes is an error: mid-stage tables are not final.
func (s *SwissStage) FinalStandings() ([]models.StandingsRow, error) {
	if s.state != stateStageComplete {
		return nil, errors.NewValidationError("swiss_stage", fmt.Sprintf("standings are not final after %d of %d rounds", s.round, s.cfg.Rounds))
	}
	return s.standingsRows(), nil
}

func (s *SwissStage) standingsRows() []models.StandingsRow {
	order := s.standingOrder()
	rows := make([]models.StandingsRow, len(order))
	for rank, t := range order {
		team := s.model.Team(t)
		rows[rank] = models.StandingsRow{
			Rank:   rank + 1,
			Team:   team.Name,
			Rating: team.Rating,
			Points: s.points[t],
			Played: s.played[t],
			Weak:   s.model.IsWeak(t),
		}
	}
	return rows
}

func (s *SwissStage) standingOrder() []int {
	order := make([]int, s.model.Count())
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if s.points[a] != s.points[b] {
			return s.points[a] > s.points[b]
		}
		return a < b
	})
	return order
}

// pairRound builds the round's pairings. Teams are processed from the top
// of the table down; each picks a random partner among the legal candidates
// closest in pot distance. When a team has already faced every unpaired
// team below it, one tentative pairing is broken and re-matched. Every
// successful repair nets one extra completed pairing, so repair cannot
// cycle; the budget only caps how much of that work a round may spend.
func (s *SwissStage) pairRound(round int, rng *rand.Rand) ([][2]int, error) {
	n := s.model.Count()
	order := s.standingOrder()
	pos := make([]int, n)
	for p, t := range order {
		pos[t] = p
	}
	potSize := (n + s.cfg.Pots - 1) / s.cfg.Pots
	potOf := func(team int) int { return pos[team] / potSize }

	paired := make([]bool, n)
	pairs := make([][2]int, 0, n/2)
	repairs := 0

	for i := 0; i < n; i++ {
		u := order[i]
		if paired[u] {
			continue
		}

		var cands []int
		bestDist := n
		for j := i + 1; j < n; j++ {
			v := order[j]
			if paired[v] || s.faced[u][v] {
				continue
			}
			d := potOf(v) - potOf(u)
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				bestDist = d
				cands = cands[:0]
			}
			if d == bestDist {
				cands = append(cands, v)
			}
		}
		if len(cands) > 0 {
			v := cands[rng.Intn(len(cands))]
			paired[u] = true
			paired[v] = true
			pairs = append(pairs, [2]int{u, v})
			continue
		}

		repairs++
		if repairs > s.cfg.MaxRepairAttempts {
			return nil, errors.NewPairingError(round, fmt.Sprintf("repair budget of %d exhausted", s.cfg.MaxRepairAttempts))
		}
		var free []int
		for j := i + 1; j < n; j++ {
			if v := order[j]; !paired[v] {
				free = append(free, v)
			}
		}
		repaired, w, ok := s.repairPairing(u, free, pairs)
		if !ok {
			return nil, errors.NewPairingError(round, fmt.Sprintf("no legal opponent left for %s", s.model.Team(u).Name))
		}
		pairs = repaired
		paired[u] = true
		paired[w] = true
	}

	return pairs, nil
}

// repairPairing breaks one tentative pairing (a, b) so that the stuck team
// u and one still-unpaired team w both end up with legal partners. Pairs
// are scanned latest first: they sit closest to u in the standings, so the
// top of the table is disturbed least.
func (s *SwissStage) repairPairing(u int, free []int, pairs [][2]int) ([][2]int, int, bool) {
	for p := len(pairs) - 1; p >= 0; p-- {
		a, b := pairs[p][0], pairs[p][1]
		for _, w := range free {
			if !s.faced[u][a] && !s.faced[b][w] {
				pairs[p] = [2]int{u, a}
				return append(pairs, [2]int{b, w}), w, true
			}
			if !s.faced[u][b] && !s.faced[a][w] {
				pairs[p] = [2]int{u, b}
				return append(pairs, [2]int{a, w}), w, true
			}
		}
	}
	return pairs, 0, false
}
