package pricing

import (
	"fmt"
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// ProbabilityModel turns calibrated team stats into a home win probability
type ProbabilityModel interface {
	HomeWinProbability(stats models.CalibratedTeamStats) (float64, error)
}

// NormalApproxModel treats the final margin as normally distributed with mean equal to
// the expected margin and variance equal to the sum of both sides' scoring variances.
type NormalApproxModel struct{}

// HomeWinProbability returns P(margin > 0)
func (NormalApproxModel) HomeWinProbability(stats models.CalibratedTeamStats) (float64, error) {
	sigma := math.Sqrt(stats.HomeStdDev*stats.HomeStdDev + stats.AwayStdDev*stats.AwayStdDev)
	if sigma == 0 || math.IsNaN(sigma) {
		return 0, fmt.Errorf("%w: zero margin variance", models.ErrInvalidProbability)
	}
	return normalCDF(stats.ExpectedMargin() / sigma), nil
}

func normalCDF(z float64) float64 {
	return 0.5 * (1 + math.Erf(z/math.Sqrt2))
}
