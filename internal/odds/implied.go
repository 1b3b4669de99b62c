// Package odds converts American moneylines into implied and vig-free probabilities and
// measures a model's edge over the fair market price.
package odds

import (
	"fmt"
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// ToImpliedProb converts American odds to the bookmaker's implied probability.
// Example: -150 → 0.6, +130 → 0.4348
func ToImpliedProb(american int) float64 {
	if american > 0 {
		return 100.0 / (float64(american) + 100.0)
	}
	abs := math.Abs(float64(american))
	return abs / (abs + 100.0)
}

// NoVigProbabilities strips the overround from a two-way market using the
// multiplicative (proportional) method, so ProbA + ProbB == 1.
func NoVigProbabilities(oddsA, oddsB int) (models.NoVigResult, error) {
	if oddsA == 0 || oddsB == 0 {
		return models.NoVigResult{}, fmt.Errorf("%w: %d/%d", models.ErrInvalidOdds, oddsA, oddsB)
	}

	rawA := ToImpliedProb(oddsA)
	rawB := ToImpliedProb(oddsB)
	overround := rawA + rawB
	if overround <= 0 {
		return models.NoVigResult{}, fmt.Errorf("%w: total implied probability %.4f", models.ErrInvalidOdds, overround)
	}

	return models.NoVigResult{
		RawA:       rawA,
		RawB:       rawB,
		Overround:  overround,
		VigPercent: (overround - 1) * 100,
		ProbA:      rawA / overround,
		ProbB:      rawB / overround,
	}, nil
}

// AmericanToDecimal converts American odds to decimal odds (stake included)
func AmericanToDecimal(american int) float64 {
	if american > 0 {
		return float64(american)/100.0 + 1
	}
	return 100.0/math.Abs(float64(american)) + 1
}

// ExpectedValue returns the expected profit in dollars per $100 staked
func ExpectedValue(prob float64, american int) float64 {
	profit := (AmericanToDecimal(american) - 1) * 100
	ev := prob*profit - (1-prob)*100
	return math.Round(ev*100) / 100
}
