package pricing

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/models"
)

// GameQuote is one game to price: the matchup, its market and each side's spread history
type GameQuote struct {
	models.Matchup `yaml:",inline"`

	HomeSpreads calibration.SpreadBook `json:"home_spreads,omitempty" yaml:"home_spreads,omitempty"`
	AwaySpreads calibration.SpreadBook `json:"away_spreads,omitempty" yaml:"away_spreads,omitempty"`
}

// SlateFile is the on-disk description of a slate
type SlateFile struct {
	League string      `yaml:"league"`
	Games  []GameQuote `yaml:"games"`
}

// LoadSlateFile reads a YAML slate
func LoadSlateFile(path string) (*SlateFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read slate file: %w", err)
	}
	return ParseSlate(data)
}

// ParseSlate decodes a YAML slate and checks each game names both teams
func ParseSlate(data []byte) (*SlateFile, error) {
	var slate SlateFile
	if err := yaml.Unmarshal(data, &slate); err != nil {
		return nil, fmt.Errorf("failed to parse slate: %w", err)
	}
	if slate.League != "" {
		if _, err := models.ParseLeague(slate.League); err != nil {
			return nil, err
		}
	}
	for i, g := range slate.Games {
		if g.HomeTeam == "" || g.AwayTeam == "" {
			return nil, fmt.Errorf("slate game %d: home_team and away_team are required", i)
		}
	}
	return &slate, nil
}

// Matchups returns the matchups of the quotes
func Matchups(quotes []GameQuote) []models.Matchup {
	out := make([]models.Matchup, len(quotes))
	for i, q := range quotes {
		out[i] = q.Matchup
	}
	return out
}
