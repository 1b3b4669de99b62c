package calibration

import (
	"math"

	"github.com/yourusername/edge-calibrator/internal/models"
)

const (
	// PushTolerance is the cover margin inside which a game grades as a push
	PushTolerance = 0.5

	// TrendWindow is how many of the most recent spread games feed the trend
	TrendWindow = 5

	hotCovers  = 4
	coldCovers = 1
)

// SpreadBook maps a game date (YYYY-MM-DD) to the closing spread from the team's own
// perspective. Negative means the team was favored.
type SpreadBook map[string]float64

// CalculateATSRecord grades each game that has a known spread against that spread.
// Games must be in chronological order for the trend to mean "recent".
func CalculateATSRecord(teamName string, games []models.GameResult, spreads SpreadBook) models.ATSRecord {
	rec := models.NeutralATSRecord(teamName)

	var (
		marginSum               float64
		homeCovers, homeDecided int
		awayCovers, awayDecided int
		outcomes                []bool // true = cover, per spread game
	)

	for _, g := range games {
		spread, ok := spreads[g.Date]
		if !ok {
			continue
		}
		rec.GamesWithSpread++

		coverMargin := float64(g.Margin) - (-spread)
		if math.Abs(coverMargin) < PushTolerance {
			rec.Pushes++
			outcomes = append(outcomes, false)
			continue
		}

		marginSum += coverMargin
		if g.IsHome {
			homeDecided++
		} else {
			awayDecided++
		}

		if coverMargin > 0 {
			rec.Covers++
			if g.IsHome {
				homeCovers++
			} else {
				awayCovers++
			}
			outcomes = append(outcomes, true)
		} else {
			rec.Losses++
			outcomes = append(outcomes, false)
		}
	}

	if rec.GamesWithSpread == 0 {
		return rec
	}

	rec.CoverRate = float64(rec.Covers) / float64(rec.GamesWithSpread)
	if rec.Covers+rec.Losses > 0 {
		rec.AvgCoverMargin = marginSum / float64(rec.GamesWithSpread)
	}
	rec.HomeCoverRate = rateOr(homeCovers, homeDecided, 0.5)
	rec.AwayCoverRate = rateOr(awayCovers, awayDecided, 0.5)
	rec.RecentTrend = trend(outcomes)

	return rec
}

func trend(outcomes []bool) models.Trend {
	if len(outcomes) > TrendWindow {
		outcomes = outcomes[len(outcomes)-TrendWindow:]
	}
	covers := 0
	for _, covered := range outcomes {
		if covered {
			covers++
		}
	}
	switch {
	case covers >= hotCovers:
		return models.TrendHot
	case covers <= coldCovers:
		return models.TrendCold
	default:
		return models.TrendNeutral
	}
}

func rateOr(num, den int, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return float64(num) / float64(den)
}
