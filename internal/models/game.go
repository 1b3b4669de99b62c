package models

// GameResult is one completed game from a single team's perspective
type GameResult struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Opponent      string `json:"opponent"`
	PointsScored  int    `json:"points_scored"`
	PointsAllowed int    `json:"points_allowed"`
	IsHome        bool   `json:"is_home"`
	Won           bool   `json:"won"`
	Margin        int    `json:"margin"` // positive = win
}

// NewGameResult builds a GameResult, deriving the margin from the two scores
func NewGameResult(date, opponent string, scored, allowed int, isHome, won bool) GameResult {
	return GameResult{
		Date:          date,
		Opponent:      opponent,
		PointsScored:  scored,
		PointsAllowed: allowed,
		IsHome:        isHome,
		Won:           won,
		Margin:        scored - allowed,
	}
}

// MarketLine is the live spread and total for a game.
// Spread is quoted from the home team's perspective: negative means the home team is favored.
type MarketLine struct {
	Spread float64 `json:"spread" yaml:"spread"`
	Total  float64 `json:"total" yaml:"total"`
}

// HomeExpected is the market-implied home score
func (m MarketLine) HomeExpected() float64 {
	return (m.Total - m.Spread) / 2
}

// AwayExpected is the market-implied away score
func (m MarketLine) AwayExpected() float64 {
	return (m.Total + m.Spread) / 2
}

// Matchup names two teams and, optionally, the market quoted on them
type Matchup struct {
	HomeTeam string `json:"home_team" yaml:"home_team"`
	AwayTeam string `json:"away_team" yaml:"away_team"`

	Spread   *float64 `json:"spread,omitempty" yaml:"spread,omitempty"`
	Total    *float64 `json:"total,omitempty" yaml:"total,omitempty"`
	HomeOdds *int     `json:"home_odds,omitempty" yaml:"home_odds,omitempty"`
	AwayOdds *int     `json:"away_odds,omitempty" yaml:"away_odds,omitempty"`
}

// Line resolves the matchup's market line, substituting league defaults for missing values
func (m Matchup) Line(league League) MarketLine {
	line := MarketLine{Total: league.DefaultTotal()}
	if m.Spread != nil {
		line.Spread = *m.Spread
	}
	if m.Total != nil {
		line.Total = *m.Total
	}
	return line
}
