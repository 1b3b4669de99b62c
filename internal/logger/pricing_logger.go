package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// PricingLogger provides dedicated logging for slate pricing.
type PricingLogger struct {
	*logrus.Entry
}

// NewPricingLogger creates a new pricing logger.
func NewPricingLogger(baseLogger *logrus.Logger) *PricingLogger {
	return &PricingLogger{
		Entry: baseLogger.WithField("component", "pricing"),
	}
}

// WithRequest tags subsequent entries with a slate request id.
func (pl *PricingLogger) WithRequest(requestID string) *PricingLogger {
	return &PricingLogger{Entry: pl.WithField("request_id", requestID)}
}

// LogWarm logs the outcome of a cache warm.
func (pl *PricingLogger) LogWarm(league models.League, teams, warmed, failed int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"league":           league,
		"teams_requested":  teams,
		"teams_warmed":     warmed,
		"teams_failed":     failed,
		"warm_duration_ms": durationMs,
	}).Info("Calibration cache warmed")
}

// LogFallback logs a game priced from the market line alone.
func (pl *PricingLogger) LogFallback(homeTeam, awayTeam, reason string) {
	pl.WithFields(logrus.Fields{
		"home_team":   homeTeam,
		"away_team":   awayTeam,
		"data_source": models.DataSourceMarketOnly,
		"reason":      reason,
	}).Warn("Pricing from market line only")
}

// LogEdge logs the edge found on one side of a game.
func (pl *PricingLogger) LogEdge(team, opponent string, stats models.CalibratedTeamStats, modelProb float64, edge models.EdgeResult) {
	pl.WithFields(logrus.Fields{
		"team":            team,
		"opponent":        opponent,
		"data_source":     stats.DataSource,
		"expected_margin": stats.ExpectedMargin(),
		"model_prob":      modelProb,
		"no_vig_prob":     edge.NoVigProb,
		"edge":            edge.Edge,
		"has_value":       edge.HasValue,
		"recommendation":  edge.Recommendation,
	}).Info("Edge evaluated")
}

// LogStake logs a stake recommendation.
func (pl *PricingLogger) LogStake(team string, odds int, stake models.StakeRecommendation) {
	pl.WithFields(logrus.Fields{
		"team":           team,
		"odds":           stake.SanitizedOdds,
		"quoted_odds":    odds,
		"kelly_raw":      stake.KellyRaw,
		"multiplier":     stake.Multiplier,
		"kelly_fraction": stake.Fraction,
		"stake_amount":   stake.Amount.StringFixed(2),
	}).Info("Stake sized")
}
