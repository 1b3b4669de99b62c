package provider

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/models"
)

func threeGameSchedule(teamID, name string) *datasource.Schedule {
	return schedule(teamID, name,
		final(true, 100, 90),
		final(false, 110, 100),
		final(true, 90, 95),
	)
}

func TestFetchRecentGamesFiltersAndWindows(t *testing.T) {
	src := newFakeSource()
	s := schedule("2", "Boston Celtics",
		final(true, 100, 90),
		final(false, 0, 0),
		result{home: true, scored: 0, allowed: 0, complete: false},
		final(false, 110, 115),
		final(true, 120, 100),
	)
	src.set("2", s)
	p := New(src, nil)

	games := p.FetchRecentGames(context.Background(), "2", models.LeagueNBA, 3)

	// the 0-0 game falls inside the window and is dropped after windowing
	require.Len(t, games, 2)
	assert.Equal(t, "2024-01-04", games[0].Date)
	assert.False(t, games[0].IsHome)
	assert.Equal(t, -5, games[0].Margin)
	assert.False(t, games[0].Won)
	assert.Equal(t, 120, games[1].PointsScored)
	assert.True(t, games[1].Won)
	assert.Equal(t, "Opponent", games[1].Opponent)
}

func TestFetchRecentGamesSkipsMalformedEvents(t *testing.T) {
	score := 101.0
	s := &datasource.Schedule{TeamID: "2", Events: []datasource.Event{
		{Date: "2024-01-01", Completed: true, Competitors: []datasource.Competitor{
			{TeamID: "2", Score: &score},
		}},
		{Date: "2024-01-02", Completed: true, Competitors: []datasource.Competitor{
			{TeamID: "2", Score: &score},
			{TeamID: "9", Score: nil},
		}},
		{Date: "2024-01-03", Completed: true, Competitors: []datasource.Competitor{
			{TeamID: "2", HomeAway: "home", Score: &score, Winner: true},
			{TeamID: "9", Score: ptr(99)},
		}},
	}}

	games := RecentGames(s, "2", 15)
	require.Len(t, games, 1)
	assert.Equal(t, "Unknown", games[0].Opponent)
	assert.True(t, games[0].IsHome)
	assert.Equal(t, 2, games[0].Margin)
}

func TestFetchRecentGamesUpstreamFailure(t *testing.T) {
	src := newFakeSource()
	src.errs["2"] = errUpstream
	p := New(src, nil)

	games := p.FetchRecentGames(context.Background(), "2", models.LeagueNBA, 15)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestFetchRecentGamesTimeout(t *testing.T) {
	src := newFakeSource()
	src.set("2", threeGameSchedule("2", "Boston Celtics"))
	src.release = make(chan struct{})
	defer close(src.release)

	p := New(src, nil, WithFetchTimeout(20*time.Millisecond))

	start := time.Now()
	games := p.FetchRecentGames(context.Background(), "2", models.LeagueNBA, 15)
	assert.Empty(t, games)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGetCalibrationStatsTTL(t *testing.T) {
	src := newFakeSource()
	src.set("2", threeGameSchedule("2", "Boston Celtics"))
	clock := newFakeClock()
	p := New(src, nil, WithClock(clock))
	ctx := context.Background()

	stats, ok := p.GetCalibrationStats(ctx, "2", models.LeagueNBA)
	require.True(t, ok)
	assert.Equal(t, 3, stats.GamesAnalyzed)
	assert.Equal(t, "Boston Celtics", stats.TeamName)
	assert.InDelta(t, 100.0, stats.AvgScored, 1e-9)
	assert.Equal(t, 1, src.callsFor("2"))
	assert.Equal(t, clock.Now(), stats.FetchedAt)
	assert.Equal(t, CacheStats{Hits: 0, Misses: 1, Items: 1}, p.CacheStats(), "one cold lookup is one miss")

	clock.Advance(5*time.Hour + 59*time.Minute)
	_, ok = p.GetCalibrationStats(ctx, "2", models.LeagueNBA)
	require.True(t, ok)
	assert.Equal(t, 1, src.callsFor("2"))

	clock.Advance(2 * time.Minute)
	_, ok = p.GetCalibrationStats(ctx, "2", models.LeagueNBA)
	require.True(t, ok)
	assert.Equal(t, 2, src.callsFor("2"))

	cs := p.CacheStats()
	assert.Equal(t, uint64(1), cs.Hits)
	assert.Equal(t, uint64(2), cs.Misses)
}

func TestGetCalibrationStatsKeyedByLeague(t *testing.T) {
	src := newFakeSource()
	src.set("12", threeGameSchedule("12", "Clippers"))
	p := New(src, nil)
	ctx := context.Background()

	_, ok := p.GetCalibrationStats(ctx, "12", models.LeagueNBA)
	require.True(t, ok)
	_, ok = p.GetCalibrationStats(ctx, "12", models.LeagueNCAAB)
	require.True(t, ok)
	assert.Equal(t, 2, src.callsFor("12"))
}

func TestGetCalibrationStatsSingleFetchUnderConcurrency(t *testing.T) {
	src := newFakeSource()
	src.set("2", threeGameSchedule("2", "Boston Celtics"))
	src.release = make(chan struct{})
	p := New(src, nil)

	const callers = 10
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA); ok {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}

	require.Eventually(t, func() bool { return src.callsFor("2") == 1 }, time.Second, 5*time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, callers, oks)
	assert.Equal(t, 1, src.callsFor("2"))
}

func TestGetCalibrationStatsZeroGamesNotCached(t *testing.T) {
	src := newFakeSource()
	src.set("2", schedule("2", "Boston Celtics", result{complete: false}))
	p := New(src, nil)
	ctx := context.Background()

	stats, ok := p.GetCalibrationStats(ctx, "2", models.LeagueNBA)
	assert.False(t, ok)
	assert.Nil(t, stats)

	src.set("2", threeGameSchedule("2", "Boston Celtics"))
	stats, ok = p.GetCalibrationStats(ctx, "2", models.LeagueNBA)
	require.True(t, ok)
	assert.Equal(t, 3, stats.GamesAnalyzed)
	assert.Equal(t, 2, src.callsFor("2"))
}

func TestGetCalibrationStatsCallerCancelStillPopulates(t *testing.T) {
	src := newFakeSource()
	src.set("2", threeGameSchedule("2", "Boston Celtics"))
	src.release = make(chan struct{})
	p := New(src, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() {
		_, ok := p.GetCalibrationStats(ctx, "2", models.LeagueNBA)
		done <- ok
	}()

	require.Eventually(t, func() bool { return src.callsFor("2") == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.False(t, <-done)

	close(src.release)
	key := CacheKey{League: models.LeagueNBA, TeamID: "2"}
	assert.Eventually(t, func() bool {
		_, ok := p.cache.Get(key)
		return ok
	}, time.Second, 5*time.Millisecond)
}

type nilSource struct{}

func (nilSource) Name() string { return "nil" }

func (nilSource) FetchSchedule(context.Context, models.League, string) (*datasource.Schedule, error) {
	return nil, nil
}

func TestFetchRecentGamesNilSchedule(t *testing.T) {
	p := New(nilSource{}, nil)

	games := p.FetchRecentGames(context.Background(), "2", models.LeagueNBA, 5)
	assert.NotNil(t, games)
	assert.Empty(t, games)

	_, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
	assert.False(t, ok)
}

func TestFetchRecentGamesPanicIsContained(t *testing.T) {
	src := newFakeSource()
	src.panics["2"] = true
	p := New(src, nil)

	var games []models.GameResult
	assert.NotPanics(t, func() {
		games = p.FetchRecentGames(context.Background(), "2", models.LeagueNBA, 5)
	})
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestGetCalibrationStatsPanicIsContained(t *testing.T) {
	src := newFakeSource()
	src.panics["2"] = true
	p := New(src, nil)

	stats, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
	assert.False(t, ok)
	assert.Nil(t, stats)
}

func TestGetCalibrationStatsSharedStore(t *testing.T) {
	key := CacheKey{League: models.LeagueNBA, TeamID: "2"}

	t.Run("hit skips upstream", func(t *testing.T) {
		src := newFakeSource()
		store := &mockStore{}
		clock := newFakeClock()
		shared := &models.TeamCalibrationStats{TeamID: "2", GamesAnalyzed: 5, AvgScored: 111, FetchedAt: clock.Now()}
		store.On("Get", mock.Anything, key).Return(shared, true, nil).Once()

		p := New(src, nil, WithSharedStore(store), WithClock(clock))
		for i := 0; i < 2; i++ {
			stats, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
			require.True(t, ok)
			assert.Equal(t, 111.0, stats.AvgScored)
		}
		assert.Equal(t, 0, src.callsFor("2"))
		store.AssertExpectations(t)
	})

	t.Run("shared entry keeps its original age", func(t *testing.T) {
		src := newFakeSource()
		src.set("2", threeGameSchedule("2", "Boston Celtics"))
		store := &mockStore{}
		clock := newFakeClock()
		shared := &models.TeamCalibrationStats{TeamID: "2", GamesAnalyzed: 5, AvgScored: 111, FetchedAt: clock.Now().Add(-5*time.Hour - 58*time.Minute)}
		store.On("Get", mock.Anything, key).Return(shared, true, nil).Twice()
		store.On("Set", mock.Anything, key, mock.Anything, DefaultTTL).Return(nil).Once()

		p := New(src, nil, WithSharedStore(store), WithClock(clock))
		stats, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
		require.True(t, ok)
		assert.Equal(t, 111.0, stats.AvgScored)

		// two minutes later the shared entry is six hours old and must not be served
		clock.Advance(2 * time.Minute)
		stats, ok = p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
		require.True(t, ok)
		assert.InDelta(t, 100.0, stats.AvgScored, 1e-9)
		assert.Equal(t, 1, src.callsFor("2"))
		store.AssertExpectations(t)
	})

	t.Run("expired or undated shared entry is refetched", func(t *testing.T) {
		for name, fetchedAt := range map[string]time.Time{
			"expired": newFakeClock().Now().Add(-DefaultTTL),
			"undated": {},
		} {
			t.Run(name, func(t *testing.T) {
				src := newFakeSource()
				src.set("2", threeGameSchedule("2", "Boston Celtics"))
				store := &mockStore{}
				shared := &models.TeamCalibrationStats{TeamID: "2", GamesAnalyzed: 5, AvgScored: 111, FetchedAt: fetchedAt}
				store.On("Get", mock.Anything, key).Return(shared, true, nil).Once()
				store.On("Set", mock.Anything, key, mock.Anything, DefaultTTL).Return(nil).Once()

				p := New(src, nil, WithSharedStore(store), WithClock(newFakeClock()))
				stats, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
				require.True(t, ok)
				assert.InDelta(t, 100.0, stats.AvgScored, 1e-9)
				assert.Equal(t, 1, src.callsFor("2"))
				store.AssertExpectations(t)
			})
		}
	})

	t.Run("miss fetches and writes back", func(t *testing.T) {
		src := newFakeSource()
		src.set("2", threeGameSchedule("2", "Boston Celtics"))
		store := &mockStore{}
		store.On("Get", mock.Anything, key).Return(nil, false, nil).Once()
		store.On("Set", mock.Anything, key, mock.AnythingOfType("*models.TeamCalibrationStats"), 2*time.Hour).Return(nil).Once()

		p := New(src, nil, WithSharedStore(store), WithTTL(2*time.Hour))
		_, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
		require.True(t, ok)
		assert.Equal(t, 1, src.callsFor("2"))
		store.AssertExpectations(t)
	})

	t.Run("store errors are ignored", func(t *testing.T) {
		src := newFakeSource()
		src.set("2", threeGameSchedule("2", "Boston Celtics"))
		store := &mockStore{}
		store.On("Get", mock.Anything, key).Return(nil, false, errUpstream).Once()
		store.On("Set", mock.Anything, key, mock.Anything, DefaultTTL).Return(errUpstream).Once()

		p := New(src, nil, WithSharedStore(store))
		_, ok := p.GetCalibrationStats(context.Background(), "2", models.LeagueNBA)
		assert.True(t, ok)
		store.AssertExpectations(t)
	})
}

func TestResolveTeamIDWithoutResolver(t *testing.T) {
	p := New(newFakeSource(), nil)
	_, ok := p.ResolveTeamID("Boston Celtics", models.LeagueNBA)
	assert.False(t, ok)

	p = New(newFakeSource(), fakeResolver{"Boston Celtics": "2"})
	id, ok := p.ResolveTeamID("Boston Celtics", models.LeagueNBA)
	assert.True(t, ok)
	assert.Equal(t, "2", id)
}

func ptr(f float64) *float64 { return &f }
