package provider

import (
	"math"

	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/models"
)

const unknownOpponent = "Unknown"

// RecentGames maps the last lastN completed events of a schedule to results from
// teamID's perspective. Events missing a side, with an unparsable score, or with
// both scores at zero are skipped after the window is taken.
func RecentGames(schedule *datasource.Schedule, teamID string, lastN int) []models.GameResult {
	completed := schedule.Completed()
	if lastN > 0 && len(completed) > lastN {
		completed = completed[len(completed)-lastN:]
	}

	games := make([]models.GameResult, 0, len(completed))
	for _, event := range completed {
		team, opp := event.Competitor(teamID)
		if team == nil || opp == nil {
			continue
		}
		if team.Score == nil || opp.Score == nil {
			continue
		}
		scored := int(math.Trunc(*team.Score))
		allowed := int(math.Trunc(*opp.Score))
		if scored == 0 && allowed == 0 {
			continue
		}

		opponent := opp.TeamName
		if opponent == "" {
			opponent = unknownOpponent
		}

		games = append(games, models.NewGameResult(
			event.Date,
			opponent,
			scored,
			allowed,
			team.HomeAway == "home",
			team.Winner,
		))
	}
	return games
}
