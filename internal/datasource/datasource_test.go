package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/config"
	"github.com/yourusername/edge-calibrator/internal/models"
)

func testHTTPConfig() HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	cfg.Timeout = 2 * time.Second
	cfg.MaxRetries = 0
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = time.Millisecond
	cfg.RateLimit = 0
	return cfg
}

func newTestESPN(t *testing.T, handler http.HandlerFunc) *ESPNClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewESPNClient(NewRateLimitedHTTPClient(testHTTPConfig(), nil), srv.URL, "", nil)
}

func TestESPNFetchSchedule(t *testing.T) {
	body, err := os.ReadFile("testdata/celtics_schedule.json")
	require.NoError(t, err)

	var gotPath, gotUA string
	client := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})

	schedule, err := client.FetchSchedule(context.Background(), models.LeagueNBA, "2")
	require.NoError(t, err)

	assert.Equal(t, "/basketball/nba/teams/2/schedule", gotPath)
	assert.NotEmpty(t, gotUA)
	assert.Equal(t, "Boston Celtics", schedule.TeamName)
	require.Len(t, schedule.Events, 4)

	first := schedule.Events[0]
	assert.Equal(t, "2024-01-02", first.Date)
	assert.Equal(t, 2024, first.StartTime.Year())
	assert.True(t, first.Completed)
	team, opp := first.Competitor("2")
	require.NotNil(t, team)
	require.NotNil(t, opp)
	assert.Equal(t, 120.0, *team.Score)
	assert.Equal(t, 110.0, *opp.Score)
	assert.Equal(t, "Miami Heat", opp.TeamName)

	// state "post" marks a game final even when the completed flag is false
	assert.True(t, schedule.Events[1].Completed)
	team, _ = schedule.Events[1].Competitor("2")
	assert.Equal(t, 101.0, *team.Score)

	// event-level status is used when the competition carries none
	assert.True(t, schedule.Events[2].Completed)
	_, opp = schedule.Events[2].Competitor("2")
	assert.Nil(t, opp.Score)

	assert.False(t, schedule.Events[3].Completed)
	assert.Len(t, schedule.Completed(), 3)
}

func TestESPNFetchScheduleErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		code     string
		sentinel error
	}{
		{"not found", http.StatusNotFound, "", ErrCodeNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, "", ErrCodeRateLimitExceeded, ErrRateLimitExceeded},
		{"forbidden", http.StatusForbidden, "", ErrCodeAuthenticationFailed, ErrAuthenticationFailed},
		{"malformed", http.StatusOK, "{not json", ErrCodeInvalidData, ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestESPN(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.FetchSchedule(context.Background(), models.LeagueNCAAB, "150")
			require.Error(t, err)
			assert.Equal(t, tt.code, ErrorCode(err))
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestESPNFetchScheduleRequiresTeam(t *testing.T) {
	client := NewESPNClient(NewRateLimitedHTTPClient(testHTTPConfig(), nil), "", "", nil)
	_, err := client.FetchSchedule(context.Background(), models.LeagueNBA, "")
	assert.Equal(t, ErrCodeInvalidData, ErrorCode(err))
	assert.Equal(t, "espn", client.Name())
}

func TestScoreShapes(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{`"112"`, ptr(112)},
		{`{"value": 98.0, "displayValue": "98"}`, ptr(98)},
		{`{"value": 87.0}`, ptr(87)},
		{`104`, ptr(104)},
		{`"104 (OT)"`, ptr(104)},
		{`""`, nil},
		{`"N/A"`, nil},
		{`null`, nil},
	}

	for _, tt := range tests {
		var s espnScore
		require.NoError(t, s.UnmarshalJSON([]byte(tt.raw)), tt.raw)
		if tt.want == nil {
			assert.Nil(t, s.Value, tt.raw)
			continue
		}
		require.NotNil(t, s.Value, tt.raw)
		assert.Equal(t, *tt.want, *s.Value, tt.raw)
	}
}

func TestCircuitBreakerOpensAndResets(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testHTTPConfig()
	cfg.CircuitBreakerMax = 2
	cfg.CircuitBreakerReset = time.Minute
	client := NewRateLimitedHTTPClient(cfg, nil)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		resp, err := client.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		resp.Body.Close()
	}
	assert.True(t, client.BreakerOpen())

	_, err := client.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	now = now.Add(2 * time.Minute)
	assert.False(t, client.BreakerOpen())
}

func TestFactory(t *testing.T) {
	f := NewFactory(nil)

	src, err := f.NewScheduleSource(config.ProviderConfig{Name: "espn", BaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.Equal(t, "espn", src.Name())

	_, err = f.NewScheduleSource(config.ProviderConfig{Name: "sportradar"})
	assert.Error(t, err)

	httpCfg := HTTPClientConfigFrom(config.ProviderConfig{HTTPTimeout: 3 * time.Second, MaxRetries: 1})
	assert.Equal(t, 3*time.Second, httpCfg.Timeout)
	assert.Equal(t, 1, httpCfg.MaxRetries)
	assert.Equal(t, DefaultHTTPClientConfig().RateLimit, httpCfg.RateLimit)
}

func ptr(f float64) *float64 { return &f }
