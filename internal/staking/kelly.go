// Package staking sizes wagers with a heavily capped fractional Kelly criterion.
package staking

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// KellyPolicy holds the risk-dampening constants applied on top of raw Kelly.
// The aggressive-multiplier rule is a product heuristic; keep it configurable.
type KellyPolicy struct {
	// Fractional scales raw Kelly in the normal case (quarter Kelly)
	Fractional float64 `mapstructure:"fractional" validate:"gt=0,lte=1"`
	// AggressiveThreshold is the raw Kelly above which AggressiveMultiplier is used instead
	AggressiveThreshold float64 `mapstructure:"aggressive_threshold" validate:"gt=0,lte=1"`
	// AggressiveMultiplier scales raw Kelly when it exceeds AggressiveThreshold
	AggressiveMultiplier float64 `mapstructure:"aggressive_multiplier" validate:"gt=0,lte=1"`
	// MaxFraction caps the stake as a share of bankroll
	MaxFraction float64 `mapstructure:"max_fraction" validate:"gt=0,lte=1"`
	// MinAbsOdds and MaxAbsOdds bound |american odds| before sizing
	MinAbsOdds int `mapstructure:"min_abs_odds" validate:"gte=100"`
	MaxAbsOdds int `mapstructure:"max_abs_odds" validate:"gtfield=MinAbsOdds"`
}

// DefaultKellyPolicy returns quarter Kelly, eighth Kelly above a 20% raw fraction,
// capped at 5% of bankroll with odds sanitized into ±[110, 10000].
func DefaultKellyPolicy() KellyPolicy {
	return KellyPolicy{
		Fractional:           0.25,
		AggressiveThreshold:  0.2,
		AggressiveMultiplier: 0.125,
		MaxFraction:          0.05,
		MinAbsOdds:           110,
		MaxAbsOdds:           10000,
	}
}

// SanitizeOdds clamps American odds into the policy's range, bounding leverage from
// bad consensus quotes such as +2 or -2. Zero is treated as a favorite.
func (p KellyPolicy) SanitizeOdds(american int) int {
	if american > 0 {
		return clampInt(american, p.MinAbsOdds, p.MaxAbsOdds)
	}
	return -clampInt(-american, p.MinAbsOdds, p.MaxAbsOdds)
}

// RawKelly returns the full Kelly fraction for sanitized odds. It may be negative.
func (p KellyPolicy) RawKelly(modelProb float64, american int) float64 {
	o := p.SanitizeOdds(american)

	var decimalOdds float64
	if o > 0 {
		decimalOdds = float64(o)/100 + 1
	} else {
		decimalOdds = 100/math.Abs(float64(o)) + 1
	}
	b := decimalOdds - 1
	q := 1 - modelProb

	return (b*modelProb - q) / b
}

// Multiplier picks the dampening factor for a raw Kelly fraction
func (p KellyPolicy) Multiplier(kelly float64) float64 {
	if kelly > p.AggressiveThreshold {
		return p.AggressiveMultiplier
	}
	return p.Fractional
}

// SafeKelly returns the recommended bankroll fraction, always within [0, MaxFraction]
func (p KellyPolicy) SafeKelly(modelProb float64, american int) float64 {
	kelly := p.RawKelly(modelProb, american)
	stake := kelly * p.Multiplier(kelly)
	if math.IsNaN(stake) {
		return 0
	}
	return math.Max(0, math.Min(stake, p.MaxFraction))
}

// Size produces a full stake recommendation for a bankroll
func (p KellyPolicy) Size(modelProb float64, american int, bankroll decimal.Decimal) models.StakeRecommendation {
	kelly := p.RawKelly(modelProb, american)
	fraction := p.SafeKelly(modelProb, american)

	return models.StakeRecommendation{
		Fraction:      fraction,
		Amount:        bankroll.Mul(decimal.NewFromFloat(fraction)).Round(2),
		KellyRaw:      kelly,
		Multiplier:    p.Multiplier(kelly),
		SanitizedOdds: p.SanitizeOdds(american),
	}
}

// SafeKelly sizes a stake with the default policy and the given fractional multiplier
func SafeKelly(modelProb float64, american int, fractional float64) float64 {
	p := DefaultKellyPolicy()
	p.Fractional = fractional
	return p.SafeKelly(modelProb, american)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
