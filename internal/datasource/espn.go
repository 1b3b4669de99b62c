package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/edge-calibrator/internal/models"
)

const (
	espnSourceName = "espn"

	// DefaultESPNBaseURL is the public site API root; no key is required
	DefaultESPNBaseURL = "https://site.api.espn.com/apis/site/v2/sports"
)

// ESPNClient implements ScheduleSource for the ESPN site API
type ESPNClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// espnScheduleResponse represents the team schedule payload
type espnScheduleResponse struct {
	Team struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"team"`
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Status       *espnStatus       `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnStatus struct {
	Type struct {
		Name      string `json:"name"`
		State     string `json:"state"`
		Completed bool   `json:"completed"`
	} `json:"type"`
}

type espnCompetition struct {
	Status      *espnStatus      `json:"status"`
	Competitors []espnCompetitor `json:"competitors"`
}

type espnCompetitor struct {
	ID       string    `json:"id"`
	HomeAway string    `json:"homeAway"`
	Winner   bool      `json:"winner"`
	Score    espnScore `json:"score"`
	Team     struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"team"`
}

// espnScore accepts the score as a string, a number, or a {value, displayValue} object
type espnScore struct {
	Value *float64
}

func (s *espnScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		s.Value = nil
		return nil
	}

	switch data[0] {
	case '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		s.Value = parseScore(str)
	case '{':
		var obj struct {
			Value        *float64 `json:"value"`
			DisplayValue *string  `json:"displayValue"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.DisplayValue != nil {
			s.Value = parseScore(*obj.DisplayValue)
		} else {
			s.Value = obj.Value
		}
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			s.Value = nil
			return nil
		}
		s.Value = &f
	}
	return nil
}

// parseScore reads the leading integer of a score string, nil when there is none
func parseScore(s string) *float64 {
	s = strings.TrimSpace(s)
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) {
		f = math.Trunc(f)
		return &f
	}
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	f := float64(n)
	return &f
}

var espnDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

// NewESPNClient creates a new ESPN schedule client
func NewESPNClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *ESPNClient {
	if baseURL == "" {
		baseURL = DefaultESPNBaseURL
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &ESPNClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger.WithField("component", "espn_client"),
	}
}

// Name returns the data source name
func (c *ESPNClient) Name() string {
	return espnSourceName
}

// FetchSchedule retrieves a team's schedule
func (c *ESPNClient) FetchSchedule(ctx context.Context, league models.League, teamID string) (*Schedule, error) {
	if teamID == "" {
		return nil, NewDataSourceError(espnSourceName, ErrCodeInvalidData, "team id is required", nil)
	}

	url := fmt.Sprintf("%s/%s/teams/%s/schedule", c.baseURL, league.SportPath(), teamID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewDataSourceError(espnSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(espnSourceName, ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(espnSourceName, ErrCodeNotFound, "team not found: "+teamID, nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(espnSourceName, ErrCodeAuthenticationFailed, fmt.Sprintf("status %d", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(espnSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(espnSourceName, ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload espnScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(espnSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	schedule := c.convertSchedule(&payload, league, teamID)
	c.logger.WithFields(logrus.Fields{
		"team_id": teamID,
		"league":  league,
		"events":  len(schedule.Events),
	}).Debug("Fetched schedule")
	return schedule, nil
}

// convertSchedule converts the ESPN payload to a Schedule
func (c *ESPNClient) convertSchedule(payload *espnScheduleResponse, league models.League, teamID string) *Schedule {
	schedule := &Schedule{
		TeamID:   teamID,
		TeamName: payload.Team.DisplayName,
		League:   league,
		Events:   make([]Event, 0, len(payload.Events)),
	}

	for _, ev := range payload.Events {
		event := Event{
			ID:   ev.ID,
			Date: dateOnly(ev.Date),
		}
		for _, layout := range espnDateLayouts {
			if t, err := time.Parse(layout, ev.Date); err == nil {
				event.StartTime = t.UTC()
				break
			}
		}

		status := ev.Status
		if len(ev.Competitions) > 0 {
			comp := ev.Competitions[0]
			if comp.Status != nil {
				status = comp.Status
			}
			for _, cp := range comp.Competitors {
				id := cp.ID
				if id == "" {
					id = cp.Team.ID
				}
				event.Competitors = append(event.Competitors, Competitor{
					TeamID:   id,
					TeamName: cp.Team.DisplayName,
					HomeAway: cp.HomeAway,
					Winner:   cp.Winner,
					Score:    cp.Score.Value,
				})
			}
		}
		if status != nil {
			event.Completed = status.Type.Completed ||
				status.Type.State == "post" ||
				status.Type.Name == "STATUS_FINAL"
		}

		schedule.Events = append(schedule.Events, event)
	}

	return schedule
}

func dateOnly(s string) string {
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// BreakerOpen reports whether the upstream circuit breaker is currently rejecting requests
func (c *ESPNClient) BreakerOpen() bool {
	return c.httpClient != nil && c.httpClient.BreakerOpen()
}
