package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/edge-calibrator/internal/logger"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/pricing"
)

func noop(context.Context) error { return nil }

func TestScheduleAndStart(t *testing.T) {
	s := NewScheduler(logger.Discard())

	err := s.Start()
	assert.Error(t, err, "start without jobs")

	_, err = s.Schedule("not a cron", "bad", noop)
	assert.Error(t, err)

	id, err := s.Schedule("*/15 * * * *", "warm", noop)
	require.NoError(t, err)
	assert.Len(t, s.Entries(), 1)
	assert.True(t, s.GetNextRun().IsZero(), "no next run before start")

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())
	assert.Eventually(t, func() bool { return !s.GetNextRun().IsZero() }, time.Second, 10*time.Millisecond)

	_, err = s.Schedule("@hourly", "late", noop)
	assert.Error(t, err)
	assert.Error(t, s.RemoveJob(id))

	s.Stop()
	assert.False(t, s.IsRunning())
	s.Stop()

	require.NoError(t, s.RemoveJob(id))
	assert.Empty(t, s.Entries())
}

func TestWrapBoundsJobWithTimeout(t *testing.T) {
	s := NewScheduler(logger.Discard())
	ran := false
	s.wrap("failing", func(ctx context.Context) error {
		ran = true
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return assert.AnError
	})()
	assert.True(t, ran)
}

type mockPricer struct {
	mock.Mock
}

func (m *mockPricer) PriceSlate(ctx context.Context, league models.League, quotes []pricing.GameQuote) *pricing.SlateResult {
	args := m.Called(ctx, league, quotes)
	res, _ := args.Get(0).(*pricing.SlateResult)
	return res
}

func writeSlate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSlateWarmJob(t *testing.T) {
	path := writeSlate(t, "league: ncaab\ngames:\n  - home_team: Duke\n    away_team: North Carolina\n")

	pricer := new(mockPricer)
	pricer.On("PriceSlate", mock.Anything, models.LeagueNCAAB, mock.MatchedBy(func(q []pricing.GameQuote) bool {
		return len(q) == 1 && q[0].HomeTeam == "Duke"
	})).Return(&pricing.SlateResult{RequestID: "r1", League: models.LeagueNCAAB}).Once()

	job := NewSlateWarmJob(pricer, path, models.LeagueNBA, logger.Discard())
	require.NoError(t, job(context.Background()))
	pricer.AssertExpectations(t)
}

func TestSlateWarmJobDefaultsAndErrors(t *testing.T) {
	pricer := new(mockPricer)
	pricer.On("PriceSlate", mock.Anything, models.LeagueNBA, mock.Anything).Return(nil).Once()

	path := writeSlate(t, "games:\n  - home_team: Boston Celtics\n    away_team: Miami Heat\n")
	job := NewSlateWarmJob(pricer, path, models.LeagueNBA, logger.Discard())
	assert.Error(t, job(context.Background()), "nil result")

	empty := NewSlateWarmJob(pricer, writeSlate(t, "league: nba\ngames: []\n"), models.LeagueNBA, logger.Discard())
	assert.NoError(t, empty(context.Background()))

	missing := NewSlateWarmJob(pricer, filepath.Join(t.TempDir(), "nope.yaml"), models.LeagueNBA, logger.Discard())
	assert.Error(t, missing(context.Background()))

	pricer.AssertExpectations(t)
}
