package models

// Recommendation is the tier assigned to a computed edge
type Recommendation string

const (
	RecommendationStrong   Recommendation = "strong"
	RecommendationValue    Recommendation = "value"
	RecommendationMarginal Recommendation = "marginal"
	RecommendationNoValue  Recommendation = "no_value"
)

// OddsPair is a two-way moneyline in American odds
type OddsPair struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NoVigResult holds the implied and vig-free probabilities of a two-way market
type NoVigResult struct {
	RawA       float64 `json:"raw_a"`
	RawB       float64 `json:"raw_b"`
	Overround  float64 `json:"overround"`
	VigPercent float64 `json:"vig_percent"`
	ProbA      float64 `json:"prob_a"`
	ProbB      float64 `json:"prob_b"`
}

// EdgeResult compares a model probability to the fair market probability
type EdgeResult struct {
	NoVigProb      float64        `json:"no_vig_prob"`
	Edge           float64        `json:"edge"` // percentage points
	HasValue       bool           `json:"has_value"`
	Recommendation Recommendation `json:"recommendation"`
}
