package models

import "errors"

// Custom errors
var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrNoData             = errors.New("no historical data")
	ErrInvalidOdds        = errors.New("invalid american odds")
	ErrInvalidProbability = errors.New("probability must be in (0, 1)")
)
