package calibration

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/edge-calibrator/internal/models"
)

func marginGame(date string, margin int, home bool) models.GameResult {
	return models.NewGameResult(date, "Opponent", 100+margin, 100, home, margin > 0)
}

func TestCalculateATSRecordMixedOutcomes(t *testing.T) {
	games := []models.GameResult{
		marginGame("2026-01-01", 5, true),   // -3: covers by 2
		marginGame("2026-01-02", -3, false), // +3: push
		marginGame("2026-01-03", 10, true),  // -7: covers by 3
		marginGame("2026-01-04", -2, false), // -1: loses by 3
		marginGame("2026-01-05", 1, true),   // +2: covers by 3
	}
	spreads := SpreadBook{
		"2026-01-01": -3,
		"2026-01-02": 3,
		"2026-01-03": -7,
		"2026-01-04": -1,
		"2026-01-05": 2,
	}

	rec := CalculateATSRecord("Boston Celtics", games, spreads)

	assert.Equal(t, 5, rec.GamesWithSpread)
	assert.Equal(t, 3, rec.Covers)
	assert.Equal(t, 1, rec.Pushes)
	assert.Equal(t, 1, rec.Losses)
	assert.InDelta(t, 0.6, rec.CoverRate, 1e-9)
	assert.Equal(t, rec.GamesWithSpread, rec.Covers+rec.Pushes+rec.Losses)

	// (2 + 3 - 3 + 3) / 5
	assert.InDelta(t, 1.0, rec.AvgCoverMargin, 1e-9)
	assert.InDelta(t, 1.0, rec.HomeCoverRate, 1e-9)
	assert.InDelta(t, 0.0, rec.AwayCoverRate, 1e-9)
	assert.Equal(t, models.TrendNeutral, rec.RecentTrend)
}

func TestCalculateATSRecordNoSpreads(t *testing.T) {
	games := []models.GameResult{marginGame("2026-01-01", 5, true)}

	rec := CalculateATSRecord("Boston Celtics", games, nil)

	assert.Equal(t, 0, rec.GamesWithSpread)
	assert.Equal(t, 0.5, rec.CoverRate)
	assert.Equal(t, 0.5, rec.HomeCoverRate)
	assert.Equal(t, 0.5, rec.AwayCoverRate)
	assert.Zero(t, rec.AvgCoverMargin)
	assert.Equal(t, models.TrendNeutral, rec.RecentTrend)
}

func TestCalculateATSRecordSkipsGamesWithoutSpread(t *testing.T) {
	games := []models.GameResult{
		marginGame("2026-01-01", 5, true),
		marginGame("2026-01-02", 7, true),
	}

	rec := CalculateATSRecord("Boston Celtics", games, SpreadBook{"2026-01-02": -2.5})

	assert.Equal(t, 1, rec.GamesWithSpread)
	assert.Equal(t, 1, rec.Covers)
	assert.Equal(t, 1.0, rec.CoverRate)
}

func TestCalculateATSRecordTrend(t *testing.T) {
	tests := []struct {
		name    string
		margins []int
		want    models.Trend
	}{
		{"four of last five covered", []int{-20, 10, 10, 10, 10, -10}, models.TrendHot},
		{"only last five count", []int{10, 10, 10, 10, -10, -10, -10, -10, 10}, models.TrendCold},
		{"two covers", []int{10, 10, -10, -10, -10}, models.TrendNeutral},
		{"three covers", []int{10, 10, 10, -10, -10}, models.TrendNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := make([]models.GameResult, 0, len(tt.margins))
			spreads := SpreadBook{}
			for i, m := range tt.margins {
				date := "2026-02-" + string(rune('a'+i))
				games = append(games, marginGame(date, m, i%2 == 0))
				spreads[date] = 0
			}

			rec := CalculateATSRecord("Team", games, spreads)
			assert.Equal(t, tt.want, rec.RecentTrend)
			assert.Equal(t, rec.GamesWithSpread, rec.Covers+rec.Pushes+rec.Losses)
		})
	}
}

func TestCalculateATSRecordPushTolerance(t *testing.T) {
	games := []models.GameResult{marginGame("2026-01-01", 3, true)}

	// 3 - 2.5 = 0.5 is outside the push band
	rec := CalculateATSRecord("Team", games, SpreadBook{"2026-01-01": -2.5})
	assert.Equal(t, 1, rec.Covers)

	// 3 - 3 = 0 is a push
	rec = CalculateATSRecord("Team", games, SpreadBook{"2026-01-01": -3})
	assert.Equal(t, 1, rec.Pushes)
	assert.Equal(t, 0.0, rec.CoverRate)
	assert.Equal(t, 0.5, rec.HomeCoverRate)
}
