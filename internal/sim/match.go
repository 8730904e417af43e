package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vytor/leaguesim/internal/errors"
)

// Outcome is the result of one simulated match from team A's point of view.
type Outcome int

const (
	WinA Outcome = iota
	Draw
	WinB
)

func (o Outcome) String() string {
	switch o {
	case WinA:
		return "win_a"
	case Draw:
		return "draw"
	case WinB:
		return "win_b"
	default:
		return "unknown"
	}
}

// Points returns the league points awarded to each side: 3 for a win, 1
// each for a draw, 0 for a loss.
func (o Outcome) Points() (int, int) {
	switch o {
	case WinA:
		return 3, 0
	case WinB:
		return 0, 3
	default:
		return 1, 1
	}
}

// MatchSimulator draws single match outcomes from two ratings. The draw
// probability is fixed regardless of the rating gap; the remaining
// probability mass is split by the Elo logistic curve.
type MatchSimulator struct {
	drawProb float64
}

// NewMatchSimulator validates the draw probability, which must lie in
// [0, 1). A draw probability of 1 would leave no mass for decisive results.
func NewMatchSimulator(drawProb float64) (*MatchSimulator, error) {
	if drawProb < 0 || drawProb >= 1 {
		return nil, errors.NewConfigurationError("draw_probability", fmt.Sprintf("must be in [0, 1), got %v", drawProb))
	}
	return &MatchSimulator{drawProb: drawProb}, nil
}

// DrawProbability returns the configured draw probability.
func (s *MatchSimulator) DrawProbability() float64 {
	return s.drawProb
}

// WinProbability returns the probability that a team rated a beats a team
// rated b, given the match is not drawn. Equal ratings give exactly 0.5.
func (s *MatchSimulator) WinProbability(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// Simulate draws one outcome. It consumes exactly one value from rng, so
// match sequences replay bit for bit under the same seed.
func (s *MatchSimulator) Simulate(ratingA, ratingB float64, rng *rand.Rand) Outcome {
	r := rng.Float64()
	if r < s.drawProb {
		return Draw
	}
	pWinA := s.WinProbability(ratingA, ratingB)
	if r < s.drawProb+(1-s.drawProb)*pWinA {
		return WinA
	}
	return WinB
}
