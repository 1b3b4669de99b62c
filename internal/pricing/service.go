// Package pricing warms calibration data for a slate and prices each game's moneyline.
package pricing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/odds"
	"github.com/yourusername/edge-calibrator/internal/provider"
	"github.com/yourusername/edge-calibrator/internal/staking"
)

// Warmer prepares calibration data for a slate
type Warmer interface {
	WarmCache(ctx context.Context, league models.League, games ...models.Matchup) *provider.WarmedSlate
}

// Config holds pricing parameters
type Config struct {
	Tiers         odds.EdgeTiers
	Policy        staking.KellyPolicy
	Bankroll      decimal.Decimal
	DefaultStdDev float64
}

// DefaultConfig returns the standard tiers and Kelly policy on a 1000 unit bankroll
func DefaultConfig() Config {
	return Config{
		Tiers:         odds.DefaultEdgeTiers(),
		Policy:        staking.DefaultKellyPolicy(),
		Bankroll:      decimal.NewFromInt(1000),
		DefaultStdDev: calibration.DefaultStdDev,
	}
}

// SideEvaluation is the edge and stake for one side's moneyline
type SideEvaluation struct {
	Team      string                     `json:"team"`
	Odds      int                        `json:"odds"`
	ModelProb float64                    `json:"model_prob"`
	Edge      models.EdgeResult          `json:"edge"`
	Stake     models.StakeRecommendation `json:"stake"`
}

// PricedGame is the full pricing output for one game
type PricedGame struct {
	HomeTeam    string                     `json:"home_team"`
	AwayTeam    string                     `json:"away_team"`
	Line        models.MarketLine          `json:"line"`
	Stats       models.CalibratedTeamStats `json:"stats"`
	HomeATS     models.ATSRecord           `json:"home_ats"`
	AwayATS     models.ATSRecord           `json:"away_ats"`
	HomeDerived *models.DerivedStats       `json:"home_derived,omitempty"`
	AwayDerived *models.DerivedStats       `json:"away_derived,omitempty"`
	HomeWinProb float64                    `json:"home_win_prob"`
	Home        *SideEvaluation            `json:"home,omitempty"`
	Away        *SideEvaluation            `json:"away,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

// SlateResult is the output of PriceSlate
type SlateResult struct {
	RequestID string                 `json:"request_id"`
	League    models.League          `json:"league"`
	Games     []PricedGame           `json:"games"`
	Failures  []provider.WarmFailure `json:"warm_failures,omitempty"`
}

// Service prices slates
type Service struct {
	warmer Warmer
	model  ProbabilityModel
	cfg    Config
	logger *logger.PricingLogger
}

// NewService creates a pricing service. A nil model selects NormalApproxModel.
func NewService(warmer Warmer, model ProbabilityModel, cfg Config, log *logrus.Logger) *Service {
	if model == nil {
		model = NormalApproxModel{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		warmer: warmer,
		model:  model,
		cfg:    cfg,
		logger: logger.NewPricingLogger(log),
	}
}

// PriceSlate warms the provider for every game, then calibrates and prices each one.
// Missing historical data degrades a game to market-only calibration; it never fails the slate.
func (s *Service) PriceSlate(ctx context.Context, league models.League, quotes []GameQuote) *SlateResult {
	start := time.Now()
	requestID := uuid.New().String()
	log := s.logger.WithRequest(requestID)

	matchups := Matchups(quotes)
	slate := s.warmer.WarmCache(ctx, league, matchups...)
	failures := slate.Failures()
	log.LogWarm(league, countTeams(matchups), slate.WarmedTeams(), len(failures), float64(slate.Duration().Milliseconds()))

	result := &SlateResult{
		RequestID: requestID,
		League:    league,
		Games:     make([]PricedGame, 0, len(quotes)),
		Failures:  failures,
	}
	for _, q := range quotes {
		result.Games = append(result.Games, s.priceGame(log, league, slate, q))
	}

	metrics.RecordSlateDuration(time.Since(start))
	return result
}

func (s *Service) priceGame(log *logger.PricingLogger, league models.League, slate *provider.WarmedSlate, q GameQuote) PricedGame {
	line := q.Line(league)
	out := PricedGame{
		HomeTeam: q.HomeTeam,
		AwayTeam: q.AwayTeam,
		Line:     line,
		HomeATS:  models.NeutralATSRecord(q.HomeTeam),
		AwayATS:  models.NeutralATSRecord(q.AwayTeam),
	}

	homeStats, homeOK := slate.TeamStats(q.HomeTeam)
	awayStats, awayOK := slate.TeamStats(q.AwayTeam)
	if homeOK {
		out.HomeATS = calibration.CalculateATSRecord(q.HomeTeam, homeStats.Games, q.HomeSpreads)
	}
	if awayOK {
		out.AwayATS = calibration.CalculateATSRecord(q.AwayTeam, awayStats.Games, q.AwaySpreads)
	}
	out.HomeDerived, _ = slate.ReadCachedSync(q.HomeTeam)
	out.AwayDerived, _ = slate.ReadCachedSync(q.AwayTeam)

	out.Stats = calibration.Blend(calibration.BlendInput{
		Line:          line,
		Home:          homeStats,
		Away:          awayStats,
		HomeATS:       out.HomeATS,
		AwayATS:       out.AwayATS,
		DefaultStdDev: s.cfg.DefaultStdDev,
	})
	if out.Stats.DataSource == models.DataSourceMarketOnly {
		log.LogFallback(q.HomeTeam, q.AwayTeam, fallbackReason(homeOK, awayOK))
	}
	metrics.RecordGamePriced(league.String(), string(out.Stats.DataSource))

	prob, err := s.model.HomeWinProbability(out.Stats)
	if err != nil {
		out.Error = err.Error()
		log.WithError(err).WithField("home_team", q.HomeTeam).Warn("Probability model failed")
		return out
	}
	out.HomeWinProb = prob

	if q.HomeOdds == nil || q.AwayOdds == nil {
		return out
	}

	home, err := s.evaluate(log, q.HomeTeam, q.AwayTeam, out.Stats, prob, *q.HomeOdds, *q.AwayOdds)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	away, err := s.evaluate(log, q.AwayTeam, q.HomeTeam, out.Stats, 1-prob, *q.AwayOdds, *q.HomeOdds)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Home, out.Away = home, away
	return out
}

func (s *Service) evaluate(log *logger.PricingLogger, team, opponent string, stats models.CalibratedTeamStats, prob float64, teamOdds, oppOdds int) (*SideEvaluation, error) {
	edge, err := s.cfg.Tiers.TrueEdge(prob, teamOdds, oppOdds)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{"team": team, "odds": teamOdds}).Warn("Skipping unpriceable moneyline")
		return nil, err
	}
	log.LogEdge(team, opponent, stats, prob, edge)
	metrics.RecordEdge(string(edge.Recommendation))

	stake := s.cfg.Policy.Size(prob, teamOdds, s.cfg.Bankroll)
	log.LogStake(team, teamOdds, stake)
	metrics.RecordStake(stake.Fraction)

	return &SideEvaluation{
		Team:      team,
		Odds:      teamOdds,
		ModelProb: prob,
		Edge:      edge,
		Stake:     stake,
	}, nil
}

func fallbackReason(homeOK, awayOK bool) string {
	switch {
	case !homeOK && !awayOK:
		return "no history for either team"
	case !homeOK:
		return "no history for home team"
	default:
		return "no history for away team"
	}
}

func countTeams(games []models.Matchup) int {
	seen := make(map[string]struct{}, len(games)*2)
	for _, g := range games {
		seen[g.HomeTeam] = struct{}{}
		seen[g.AwayTeam] = struct{}{}
	}
	return len(seen)
}
