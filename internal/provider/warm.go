package provider

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// recordWindow scales recent form into a win/loss record
const recordWindow = DefaultLastN

// Warm failure reasons
const (
	ReasonUnresolved = "unresolved"
	ReasonNoData     = "no_data"
)

// OddsEntry holds both sides' derived stats for a quoted game
type OddsEntry struct {
	Home models.DerivedStats `json:"home"`
	Away models.DerivedStats `json:"away"`
}

// WarmFailure records a team that produced no stats during a warm
type WarmFailure struct {
	Team   string `json:"team"`
	Reason string `json:"reason"`
}

// WarmedSlate is the result of a cache warm. It is immutable once returned, so its
// reads are synchronous and never block or fetch.
type WarmedSlate struct {
	league   models.League
	derived  map[string]models.DerivedStats
	byOdds   map[string]OddsEntry
	stats    map[string]*models.TeamCalibrationStats
	failures []WarmFailure
	duration time.Duration
}

// League returns the league the slate was warmed for
func (s *WarmedSlate) League() models.League {
	if s == nil {
		return ""
	}
	return s.league
}

// ReadCachedSync returns the derived stats written for teamName, if any
func (s *WarmedSlate) ReadCachedSync(teamName string) (*models.DerivedStats, bool) {
	if s == nil {
		return nil, false
	}
	d, ok := s.derived[teamName]
	if !ok {
		return nil, false
	}
	return &d, true
}

// ReadByOdds returns the derived stats stored under an OddsKey
func (s *WarmedSlate) ReadByOdds(key string) (*OddsEntry, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.byOdds[key]
	if !ok {
		return nil, false
	}
	return &e, true
}

// TeamStats returns the calibration stats fetched for teamName during the warm
func (s *WarmedSlate) TeamStats(teamName string) (*models.TeamCalibrationStats, bool) {
	if s == nil {
		return nil, false
	}
	st, ok := s.stats[teamName]
	return st, ok
}

// Failures lists teams that could not be warmed
func (s *WarmedSlate) Failures() []WarmFailure {
	if s == nil {
		return nil
	}
	return append([]WarmFailure(nil), s.failures...)
}

// WarmedTeams is the number of teams with derived stats
func (s *WarmedSlate) WarmedTeams() int {
	if s == nil {
		return 0
	}
	return len(s.derived)
}

// Duration is how long the warm took
func (s *WarmedSlate) Duration() time.Duration {
	if s == nil {
		return 0
	}
	return s.duration
}

// OddsKey formats the odds-keyed lookup used when team names are unavailable
func OddsKey(homeOdds, awayOdds int, spread, total float64) string {
	return fmt.Sprintf("%d:%d:%s:%s", homeOdds, awayOdds, formatNumber(spread), formatNumber(total))
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WarmCache fetches stats for every distinct team in games, concurrently and detached
// from ctx cancellation, then derives blended stats for each game where both teams
// have data. Individual failures are logged and never abort the warm.
func (p *Provider) WarmCache(ctx context.Context, league models.League, games ...models.Matchup) *WarmedSlate {
	start := time.Now()
	slate := &WarmedSlate{
		league:  league,
		derived: make(map[string]models.DerivedStats),
		byOdds:  make(map[string]OddsEntry),
		stats:   make(map[string]*models.TeamCalibrationStats),
	}

	var (
		mu       sync.Mutex
		detached = context.WithoutCancel(ctx)
		workers  = pool.New().WithMaxGoroutines(p.maxConcurrent)
	)

	fail := func(team, reason string) {
		mu.Lock()
		slate.failures = append(slate.failures, WarmFailure{Team: team, Reason: reason})
		mu.Unlock()
		metrics.RecordWarmFailure(league.String(), reason)
	}

	for _, name := range distinctTeams(games) {
		teamID, ok := p.ResolveTeamID(name, league)
		if !ok {
			p.logger.WithFields(logrus.Fields{"team": name, "league": league}).Warn("Team not resolved")
			fail(name, ReasonUnresolved)
			continue
		}

		name := name // per-iteration copy; go.mod targets go1.21 loop semantics
		workers.Go(func() {
			stats, ok := p.GetCalibrationStats(detached, teamID, league)
			if !ok {
				fail(name, ReasonNoData)
				return
			}
			mu.Lock()
			slate.stats[name] = stats
			mu.Unlock()
		})
	}
	workers.Wait()

	for _, g := range games {
		home, homeOK := slate.stats[g.HomeTeam]
		away, awayOK := slate.stats[g.AwayTeam]
		if !homeOK || !awayOK {
			continue
		}

		line := g.Line(league)
		homeEntry := DeriveStats(home, line, true, league)
		awayEntry := DeriveStats(away, line, false, league)
		slate.derived[g.HomeTeam] = homeEntry
		slate.derived[g.AwayTeam] = awayEntry

		if g.HomeOdds != nil && g.AwayOdds != nil {
			key := OddsKey(*g.HomeOdds, *g.AwayOdds, line.Spread, line.Total)
			slate.byOdds[key] = OddsEntry{Home: homeEntry, Away: awayEntry}
		}
	}

	slate.duration = time.Since(start)
	metrics.SetWarmedTeams(league.String(), len(slate.derived))
	p.logger.WithFields(logrus.Fields{
		"league":       league,
		"games":        len(games),
		"teams_warmed": len(slate.derived),
		"failures":     len(slate.failures),
		"duration_ms":  slate.duration.Milliseconds(),
	}).Info("Cache warm complete")

	return slate
}

// DeriveStats blends a team's venue-specific averages with the market-implied scores
func DeriveStats(stats *models.TeamCalibrationStats, line models.MarketLine, home bool, league models.League) models.DerivedStats {
	scored, allowed := stats.AwayAvgScored, stats.AwayAvgAllowed
	marketFor, marketAgainst := line.AwayExpected(), line.HomeExpected()
	if home {
		scored, allowed = stats.HomeAvgScored, stats.HomeAvgAllowed
		marketFor, marketAgainst = line.HomeExpected(), line.AwayExpected()
	}

	season := float64(league.SeasonGames())
	return models.DerivedStats{
		RecentAvgPoints:  (scored + marketFor) / 2,
		RecentAvgAllowed: (allowed + marketAgainst) / 2,
		ScoringStdDev:    calibration.Clamp(stats.ScoringStdDev, calibration.MinStdDev, calibration.MaxStdDev),
		Wins:             int(math.Round(stats.RecentForm * recordWindow)),
		Losses:           int(math.Round((1 - stats.RecentForm) * recordWindow)),
		PointsFor:        stats.AvgScored * season,
		PointsAgainst:    stats.AvgAllowed * season,
	}
}

func distinctTeams(games []models.Matchup) []string {
	seen := make(map[string]struct{}, len(games)*2)
	out := make([]string, 0, len(games)*2)
	for _, g := range games {
		for _, name := range []string{g.HomeTeam, g.AwayTeam} {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
