package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeSource serves canned schedules and counts calls per team
type fakeSource struct {
	mu        sync.Mutex
	schedules map[string]*datasource.Schedule
	errs      map[string]error
	panics    map[string]bool
	calls     map[string]int
	release   chan struct{} // when set, fetches wait for it or for ctx
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		schedules: map[string]*datasource.Schedule{},
		errs:      map[string]error{},
		panics:    map[string]bool{},
		calls:     map[string]int{},
	}
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchSchedule(ctx context.Context, league models.League, teamID string) (*datasource.Schedule, error) {
	f.mu.Lock()
	f.calls[teamID]++
	release := f.release
	sched, err, boom := f.schedules[teamID], f.errs[teamID], f.panics[teamID]
	f.mu.Unlock()

	if boom {
		panic("upstream exploded")
	}
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if sched == nil {
		return nil, datasource.NewDataSourceError("fake", datasource.ErrCodeNotFound, "no schedule", nil)
	}
	return sched, nil
}

func (f *fakeSource) set(teamID string, s *datasource.Schedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[teamID] = s
}

func (f *fakeSource) callsFor(teamID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[teamID]
}

// fakeResolver maps names straight to ids
type fakeResolver map[string]string

func (r fakeResolver) Resolve(name string, _ models.League) (string, bool) {
	id, ok := r[name]
	return id, ok
}

type result struct {
	home     bool
	scored   float64
	allowed  float64
	winner   bool
	complete bool
}

func final(home bool, scored, allowed float64) result {
	return result{home: home, scored: scored, allowed: allowed, winner: scored > allowed, complete: true}
}

// schedule builds a chronological schedule for teamID against a rotating opponent
func schedule(teamID, teamName string, results ...result) *datasource.Schedule {
	s := &datasource.Schedule{TeamID: teamID, TeamName: teamName, League: models.LeagueNBA}
	for i, r := range results {
		scored, allowed := r.scored, r.allowed
		side, oppSide := "away", "home"
		if r.home {
			side, oppSide = "home", "away"
		}
		s.Events = append(s.Events, datasource.Event{
			ID:        fmt.Sprintf("%s-%d", teamID, i),
			Date:      fmt.Sprintf("2024-01-%02d", i+1),
			Completed: r.complete,
			Competitors: []datasource.Competitor{
				{TeamID: teamID, TeamName: teamName, HomeAway: side, Winner: r.winner, Score: &scored},
				{TeamID: "opp", TeamName: "Opponent", HomeAway: oppSide, Winner: !r.winner, Score: &allowed},
			},
		})
	}
	return s
}

var errUpstream = errors.New("connection reset")

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key CacheKey) (*models.TeamCalibrationStats, bool, error) {
	args := m.Called(ctx, key)
	stats, _ := args.Get(0).(*models.TeamCalibrationStats)
	return stats, args.Bool(1), args.Error(2)
}

func (m *mockStore) Set(ctx context.Context, key CacheKey, stats *models.TeamCalibrationStats, ttl time.Duration) error {
	args := m.Called(ctx, key, stats, ttl)
	return args.Error(0)
}
