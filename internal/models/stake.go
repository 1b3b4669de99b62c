package models

import "github.com/shopspring/decimal"

// StakeRecommendation is a bankroll fraction plus the currency amount it implies
type StakeRecommendation struct {
	Fraction      float64         `json:"fraction"`
	Amount        decimal.Decimal `json:"amount"`
	KellyRaw      float64         `json:"kelly_raw"`
	Multiplier    float64         `json:"multiplier"`
	SanitizedOdds int             `json:"sanitized_odds"`
}

// IsBet reports whether any stake is recommended
func (s StakeRecommendation) IsBet() bool {
	return s.Fraction > 0
}
