package calibration

import "github.com/yourusername/edge-calibrator/internal/models"

const (
	// MarketWeight is the share of the expected score taken from the market line
	MarketWeight = 0.5

	// MinStdDev and MaxStdDev bound small-sample variance estimates
	MinStdDev = 5.0
	MaxStdDev = 20.0

	// DefaultStdDev is used for a side with no historical variance
	DefaultStdDev = 12.0

	// CoverBiasScale converts cover rate above .500 into points
	CoverBiasScale = 4.0
)

// BlendInput gathers everything needed to calibrate one game.
// Nil stats mean no historical data for that side.
type BlendInput struct {
	Line    models.MarketLine
	Home    *models.TeamCalibrationStats
	Away    *models.TeamCalibrationStats
	HomeATS models.ATSRecord
	AwayATS models.ATSRecord

	// DefaultStdDev overrides the package default for sides without history
	DefaultStdDev float64
}

// Blend mixes each side's historical home/away scoring with the market-implied score,
// clamps the variance, and nudges each expected score by its ATS cover bias.
// Both sides need history; otherwise the whole game is priced from the market line.
func Blend(in BlendInput) models.CalibratedTeamStats {
	out := MarketOnlyWithStdDev(in.Line, in.DefaultStdDev)
	if !hasHistory(in.Home) || !hasHistory(in.Away) {
		return out
	}

	out.HomeCoverBias = CoverBias(in.HomeATS.CoverRate)
	out.HomeExpected = blendScore(in.Home.HomeAvgScored, in.Line.HomeExpected()) + out.HomeCoverBias
	out.HomeStdDev = Clamp(in.Home.ScoringStdDev, MinStdDev, MaxStdDev)

	out.AwayCoverBias = CoverBias(in.AwayATS.CoverRate)
	out.AwayExpected = blendScore(in.Away.AwayAvgScored, in.Line.AwayExpected()) + out.AwayCoverBias
	out.AwayStdDev = Clamp(in.Away.ScoringStdDev, MinStdDev, MaxStdDev)

	out.DataSource = models.DataSourceBlended
	return out
}

// MarketOnly derives expected scores purely from the market line
func MarketOnly(line models.MarketLine) models.CalibratedTeamStats {
	return MarketOnlyWithStdDev(line, DefaultStdDev)
}

// MarketOnlyWithStdDev is MarketOnly with a caller-chosen spread, clamped into range.
// A non-positive stdDev selects DefaultStdDev.
func MarketOnlyWithStdDev(line models.MarketLine, stdDev float64) models.CalibratedTeamStats {
	if stdDev <= 0 {
		stdDev = DefaultStdDev
	}
	stdDev = Clamp(stdDev, MinStdDev, MaxStdDev)
	return models.CalibratedTeamStats{
		HomeExpected: line.HomeExpected(),
		AwayExpected: line.AwayExpected(),
		HomeStdDev:   stdDev,
		AwayStdDev:   stdDev,
		DataSource:   models.DataSourceMarketOnly,
	}
}

// CoverBias translates an ATS cover rate into a scoring nudge
func CoverBias(coverRate float64) float64 {
	return (coverRate - 0.5) * CoverBiasScale
}

func blendScore(historical, market float64) float64 {
	return historical*(1-MarketWeight) + market*MarketWeight
}

func hasHistory(s *models.TeamCalibrationStats) bool {
	return s != nil && s.GamesAnalyzed > 0
}
