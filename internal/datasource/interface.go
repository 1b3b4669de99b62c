package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// ScheduleSource fetches a team's season schedule from an upstream statistics provider
type ScheduleSource interface {
	// FetchSchedule retrieves every scheduled and completed event for a team
	FetchSchedule(ctx context.Context, league models.League, teamID string) (*Schedule, error)

	// Name returns the name of the data source
	Name() string
}

// Schedule is a team's schedule normalized from any data source
type Schedule struct {
	TeamID   string        `json:"team_id"`
	TeamName string        `json:"team_name"` // Provider display name, may be empty
	League   models.League `json:"league"`
	Events   []Event       `json:"events"` // Chronological, as returned upstream
}

// Event is a single game on a schedule
type Event struct {
	ID          string       `json:"id"`
	Date        string       `json:"date"`       // YYYY-MM-DD
	StartTime   time.Time    `json:"start_time"` // Zero when the provider date could not be parsed
	Completed   bool         `json:"completed"`
	Competitors []Competitor `json:"competitors"`
}

// Competitor is one side of an Event
type Competitor struct {
	TeamID   string   `json:"team_id"`
	TeamName string   `json:"team_name"`
	HomeAway string   `json:"home_away"` // "home" or "away"
	Winner   bool     `json:"winner"`
	Score    *float64 `json:"score"` // nil when the provider score was missing or unparsable
}

// Competitor returns the competitor for teamID and the first competitor that is not teamID
func (e Event) Competitor(teamID string) (team, opponent *Competitor) {
	for i := range e.Competitors {
		c := &e.Competitors[i]
		if c.TeamID == teamID {
			if team == nil {
				team = c
			}
		} else if opponent == nil {
			opponent = c
		}
	}
	return team, opponent
}

// Completed returns the completed events in schedule order
func (s *Schedule) Completed() []Event {
	if s == nil {
		return nil
	}
	out := make([]Event, 0, len(s.Events))
	for _, e := range s.Events {
		if e.Completed {
			out = append(out, e)
		}
	}
	return out
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error that corresponds to the error code
func (e DataSourceError) Is(target error) bool {
	return codeSentinels[e.Code] == target
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

var codeSentinels = map[string]error{
	ErrCodeRateLimitExceeded:    ErrRateLimitExceeded,
	ErrCodeAuthenticationFailed: ErrAuthenticationFailed,
	ErrCodeNotFound:             ErrNotFound,
	ErrCodeInvalidData:          ErrInvalidData,
	ErrCodeNetworkError:         ErrNetworkError,
	ErrCodeServerError:          ErrServerError,
}

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the code of a DataSourceError, or ErrCodeUnknown
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeUnknown
}
