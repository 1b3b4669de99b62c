package odds

import (
	"fmt"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// Edge thresholds in percentage points. HasValueThreshold is deliberately distinct from
// MarginalEdgeThreshold: a marginal label does not by itself mean the bet has value.
const (
	StrongEdgeThreshold   = 7.0
	ValueEdgeThreshold    = 4.0
	MarginalEdgeThreshold = 2.0
	HasValueThreshold     = 3.0
)

// EdgeTiers holds the recommendation boundaries
type EdgeTiers struct {
	Strong   float64 `mapstructure:"strong" yaml:"strong"`
	Value    float64 `mapstructure:"value" yaml:"value"`
	Marginal float64 `mapstructure:"marginal" yaml:"marginal"`
	HasValue float64 `mapstructure:"has_value" yaml:"has_value"`
}

// DefaultEdgeTiers returns the standard thresholds
func DefaultEdgeTiers() EdgeTiers {
	return EdgeTiers{
		Strong:   StrongEdgeThreshold,
		Value:    ValueEdgeThreshold,
		Marginal: MarginalEdgeThreshold,
		HasValue: HasValueThreshold,
	}
}

// Classify maps an edge to its recommendation tier, checked in descending order
func (t EdgeTiers) Classify(edge float64) models.Recommendation {
	switch {
	case edge >= t.Strong:
		return models.RecommendationStrong
	case edge >= t.Value:
		return models.RecommendationValue
	case edge >= t.Marginal:
		return models.RecommendationMarginal
	default:
		return models.RecommendationNoValue
	}
}

// TrueEdge compares modelProb (for side A) against A's vig-free probability
func (t EdgeTiers) TrueEdge(modelProb float64, oddsA, oddsB int) (models.EdgeResult, error) {
	if modelProb < 0 || modelProb > 1 {
		return models.EdgeResult{}, fmt.Errorf("%w: got %.4f", models.ErrInvalidProbability, modelProb)
	}

	nv, err := NoVigProbabilities(oddsA, oddsB)
	if err != nil {
		return models.EdgeResult{}, err
	}

	edge := (modelProb - nv.ProbA) * 100
	return models.EdgeResult{
		NoVigProb:      nv.ProbA,
		Edge:           edge,
		HasValue:       edge >= t.HasValue,
		Recommendation: t.Classify(edge),
	}, nil
}

// Classify maps an edge to its tier using the default thresholds
func Classify(edge float64) models.Recommendation {
	return DefaultEdgeTiers().Classify(edge)
}

// TrueEdge computes the edge of modelProb over side A using the default thresholds
func TrueEdge(modelProb float64, oddsA, oddsB int) (models.EdgeResult, error) {
	return DefaultEdgeTiers().TrueEdge(modelProb, oddsA, oddsB)
}
