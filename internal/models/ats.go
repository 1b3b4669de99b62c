package models

// Trend describes recent against-the-spread form
type Trend string

const (
	TrendHot     Trend = "hot"
	TrendCold    Trend = "cold"
	TrendNeutral Trend = "neutral"
)

// ATSRecord is a team's record against historical closing spreads
type ATSRecord struct {
	TeamName        string  `json:"team_name"`
	GamesWithSpread int     `json:"games_with_spread"`
	Covers          int     `json:"covers"`
	Pushes          int     `json:"pushes"`
	Losses          int     `json:"losses"`
	CoverRate       float64 `json:"cover_rate"`
	AvgCoverMargin  float64 `json:"avg_cover_margin"`
	HomeCoverRate   float64 `json:"home_cover_rate"`
	AwayCoverRate   float64 `json:"away_cover_rate"`
	RecentTrend     Trend   `json:"recent_trend"`
}

// NeutralATSRecord is the record used when no spread history is available
func NeutralATSRecord(teamName string) ATSRecord {
	return ATSRecord{
		TeamName:      teamName,
		CoverRate:     0.5,
		HomeCoverRate: 0.5,
		AwayCoverRate: 0.5,
		RecentTrend:   TrendNeutral,
	}
}
