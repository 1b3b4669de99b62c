// Package calibration reduces historical game results to the scoring and against-the-spread
// statistics used to calibrate a game simulator. Everything here is pure: no I/O, no clocks.
package calibration

import (
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// ComputeStats reduces a team's recent games to scoring mean, variance and home/away splits.
// An empty game list yields zero-valued stats with GamesAnalyzed == 0.
func ComputeStats(teamID, teamName string, league models.League, games []models.GameResult) models.TeamCalibrationStats {
	stats := models.TeamCalibrationStats{
		TeamID:        teamID,
		TeamName:      teamName,
		League:        league,
		GamesAnalyzed: len(games),
		Games:         games,
	}
	if len(games) == 0 {
		return stats
	}

	scored := make([]float64, 0, len(games))
	allowed := make([]float64, 0, len(games))
	var homeScored, homeAllowed, awayScored, awayAllowed []float64
	wins := 0

	for _, g := range games {
		s, a := float64(g.PointsScored), float64(g.PointsAllowed)
		scored = append(scored, s)
		allowed = append(allowed, a)
		if g.IsHome {
			homeScored = append(homeScored, s)
			homeAllowed = append(homeAllowed, a)
		} else {
			awayScored = append(awayScored, s)
			awayAllowed = append(awayAllowed, a)
		}
		if g.Won {
			wins++
		}
	}

	stats.AvgScored = Mean(scored)
	stats.AvgAllowed = Mean(allowed)
	stats.ScoringStdDev = SampleStdDev(scored)
	stats.DefenseStdDev = SampleStdDev(allowed)
	stats.HomeAvgScored = meanOr(homeScored, stats.AvgScored)
	stats.AwayAvgScored = meanOr(awayScored, stats.AvgScored)
	stats.HomeAvgAllowed = meanOr(homeAllowed, stats.AvgAllowed)
	stats.AwayAvgAllowed = meanOr(awayAllowed, stats.AvgAllowed)
	stats.RecentForm = float64(wins) / float64(len(games))

	return stats
}

// Mean returns the arithmetic mean, or 0 for an empty slice
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStdDev returns the sample standard deviation (n-1 denominator).
// Fewer than two observations yield 0.
func SampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := Mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

func meanOr(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return Mean(values)
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
