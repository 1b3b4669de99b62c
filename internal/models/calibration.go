package models

import "time"

// TeamCalibrationStats summarizes a team's recent scoring distribution
type TeamCalibrationStats struct {
	TeamID         string       `json:"team_id"`
	TeamName       string       `json:"team_name"`
	League         League       `json:"league"`
	GamesAnalyzed  int          `json:"games_analyzed"`
	AvgScored      float64      `json:"avg_scored"`
	AvgAllowed     float64      `json:"avg_allowed"`
	ScoringStdDev  float64      `json:"scoring_std_dev"`
	DefenseStdDev  float64      `json:"defense_std_dev"`
	HomeAvgScored  float64      `json:"home_avg_scored"`
	AwayAvgScored  float64      `json:"away_avg_scored"`
	HomeAvgAllowed float64      `json:"home_avg_allowed"`
	AwayAvgAllowed float64      `json:"away_avg_allowed"`
	RecentForm     float64      `json:"recent_form"` // win fraction over the window
	Games          []GameResult `json:"games,omitempty"`
	// FetchedAt is when the underlying games were fetched upstream; cache freshness is
	// measured from it wherever the stats travel
	FetchedAt time.Time `json:"fetched_at"`
}

// DataSource tags where calibrated numbers came from
type DataSource string

const (
	DataSourceBlended    DataSource = "blended"
	DataSourceMarketOnly DataSource = "market_only"
)

// CalibratedTeamStats is the per-request simulator input. It is never cached because
// the market line it is blended with changes on every request.
type CalibratedTeamStats struct {
	HomeExpected  float64    `json:"home_expected"`
	AwayExpected  float64    `json:"away_expected"`
	HomeStdDev    float64    `json:"home_std_dev"`
	AwayStdDev    float64    `json:"away_std_dev"`
	HomeCoverBias float64    `json:"home_cover_bias"`
	AwayCoverBias float64    `json:"away_cover_bias"`
	DataSource    DataSource `json:"data_source"`
}

// ExpectedMargin is the home team's expected winning margin
func (c CalibratedTeamStats) ExpectedMargin() float64 {
	return c.HomeExpected - c.AwayExpected
}

// DerivedStats is the synchronously readable entry written by a cache warm
type DerivedStats struct {
	RecentAvgPoints  float64 `json:"recent_avg_points"`
	RecentAvgAllowed float64 `json:"recent_avg_allowed"`
	ScoringStdDev    float64 `json:"scoring_std_dev"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	PointsFor        float64 `json:"points_for"`
	PointsAgainst    float64 `json:"points_against"`
}
