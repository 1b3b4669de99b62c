package models

import (
	"fmt"
	"strings"
)

// League identifies a competition supported by the upstream statistics provider
type League string

const (
	LeagueNBA   League = "nba"
	LeagueNCAAB League = "ncaab"
)

// ParseLeague parses a league name case-insensitively
func ParseLeague(s string) (League, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "nba", "basketball_nba":
		return LeagueNBA, nil
	case "ncaab", "cbb", "basketball_ncaab", "mens-college-basketball":
		return LeagueNCAAB, nil
	default:
		return "", fmt.Errorf("unsupported league %q", s)
	}
}

// SportPath returns the upstream URL path segment for the league
func (l League) SportPath() string {
	switch l {
	case LeagueNCAAB:
		return "basketball/mens-college-basketball"
	default:
		return "basketball/nba"
	}
}

// DefaultTotal is the market total assumed when a quote carries no over/under line
func (l League) DefaultTotal() float64 {
	if l == LeagueNCAAB {
		return 144
	}
	return 224
}

// SeasonGames is the regular-season length used to scale per-game averages
func (l League) SeasonGames() int {
	if l == LeagueNCAAB {
		return 31
	}
	return 82
}

// IsValid reports whether the league is one of the supported values
func (l League) IsValid() bool {
	return l == LeagueNBA || l == LeagueNCAAB
}

func (l League) String() string {
	return string(l)
}
