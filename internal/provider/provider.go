// Package provider fetches and caches per-team calibration statistics from an upstream
// schedule source and warms them ahead of slate pricing.
package provider

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/edge-calibrator/internal/calibration"
	"github.com/yourusername/edge-calibrator/internal/datasource"
	"github.com/yourusername/edge-calibrator/internal/metrics"
	"github.com/yourusername/edge-calibrator/internal/models"
	"github.com/yourusername/edge-calibrator/internal/teams"
)

const (
	DefaultTTL                  = 6 * time.Hour
	DefaultLastN                = 15
	DefaultFetchTimeout         = 5 * time.Second
	DefaultMaxConcurrentFetches = 8
)

// Provider serves per-team calibration stats, fetching from the upstream source on a miss
type Provider struct {
	source   datasource.ScheduleSource
	resolver teams.Resolver

	clock           Clock
	ttl             time.Duration
	cleanupInterval time.Duration
	lastN           int
	fetchTimeout    time.Duration
	maxConcurrent   int
	shared          SharedStore
	logger          *logrus.Entry

	cache  *StatsCache
	flight singleflight.Group
}

// Option configures a Provider
type Option func(*Provider)

// WithClock sets the clock used for cache expiry
func WithClock(c Clock) Option {
	return func(p *Provider) { p.clock = c }
}

// WithTTL sets how long fetched stats stay fresh
func WithTTL(ttl time.Duration) Option {
	return func(p *Provider) { p.ttl = ttl }
}

// WithCleanupInterval sets how often expired entries are reclaimed
func WithCleanupInterval(d time.Duration) Option {
	return func(p *Provider) { p.cleanupInterval = d }
}

// WithLastN sets how many completed games feed the stats
func WithLastN(n int) Option {
	return func(p *Provider) { p.lastN = n }
}

// WithFetchTimeout bounds each upstream fetch
func WithFetchTimeout(d time.Duration) Option {
	return func(p *Provider) { p.fetchTimeout = d }
}

// WithLogger sets the logger
func WithLogger(l *logrus.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l.WithField("component", "provider")
		}
	}
}

// WithSharedStore mirrors stats into a store shared between processes
func WithSharedStore(s SharedStore) Option {
	return func(p *Provider) { p.shared = s }
}

// WithMaxConcurrentFetches bounds the fan-out of a cache warm
func WithMaxConcurrentFetches(n int) Option {
	return func(p *Provider) { p.maxConcurrent = n }
}

// New creates a Provider
func New(source datasource.ScheduleSource, resolver teams.Resolver, opts ...Option) *Provider {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Provider{
		source:        source,
		resolver:      resolver,
		clock:         SystemClock(),
		ttl:           DefaultTTL,
		lastN:         DefaultLastN,
		fetchTimeout:  DefaultFetchTimeout,
		maxConcurrent: DefaultMaxConcurrentFetches,
		logger:        discard.WithField("component", "provider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.ttl <= 0 {
		p.ttl = DefaultTTL
	}
	if p.lastN <= 0 {
		p.lastN = DefaultLastN
	}
	if p.fetchTimeout <= 0 {
		p.fetchTimeout = DefaultFetchTimeout
	}
	if p.maxConcurrent <= 0 {
		p.maxConcurrent = DefaultMaxConcurrentFetches
	}
	p.cache = NewStatsCache(p.ttl, p.cleanupInterval, p.clock)
	return p
}

// ResolveTeamID maps a team name to the upstream id
func (p *Provider) ResolveTeamID(name string, league models.League) (string, bool) {
	if p.resolver == nil {
		return "", false
	}
	return p.resolver.Resolve(name, league)
}

// CacheStats reports the calibration cache hit and miss counts
func (p *Provider) CacheStats() CacheStats {
	return p.cache.Stats()
}

// FetchRecentGames returns the team's last lastN completed games, oldest first.
// Upstream failures, timeouts and malformed payloads yield an empty slice.
func (p *Provider) FetchRecentGames(ctx context.Context, teamID string, league models.League, lastN int) []models.GameResult {
	games, _ := p.fetch(ctx, teamID, league, lastN)
	return games
}

func (p *Provider) fetch(ctx context.Context, teamID string, league models.League, lastN int) (games []models.GameResult, teamName string) {
	if lastN <= 0 {
		lastN = p.lastN
	}

	log := p.logger.WithFields(logrus.Fields{
		"team_id": teamID,
		"league":  league,
	})

	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordUpstreamFetch(league.String(), metrics.OutcomeError, time.Since(start))
			log.WithField("panic", r).Error("Schedule fetch panicked")
			games, teamName = []models.GameResult{}, ""
		}
	}()

	schedule, err := p.source.FetchSchedule(fetchCtx, league, teamID)
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		metrics.RecordUpstreamFetch(league.String(), outcome, elapsed)
		log.WithError(err).WithField("code", datasource.ErrorCode(err)).Warn("Schedule fetch failed")
		return []models.GameResult{}, ""
	}
	if schedule == nil {
		metrics.RecordUpstreamFetch(league.String(), metrics.OutcomeEmpty, elapsed)
		log.Warn("Schedule source returned no schedule")
		return []models.GameResult{}, ""
	}

	games = RecentGames(schedule, teamID, lastN)
	outcome := metrics.OutcomeSuccess
	if len(games) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.RecordUpstreamFetch(league.String(), outcome, elapsed)
	log.WithFields(logrus.Fields{
		"games":       len(games),
		"duration_ms": elapsed.Milliseconds(),
	}).Debug("Fetched recent games")

	return games, schedule.TeamName
}

// GetCalibrationStats returns cached stats for the team, fetching on a miss.
// A team with no completed games yields (nil, false) and nothing is cached.
// Concurrent misses for the same team share one upstream fetch; a caller whose ctx
// ends first returns early while the fetch completes and populates the cache.
func (p *Provider) GetCalibrationStats(ctx context.Context, teamID string, league models.League) (*models.TeamCalibrationStats, bool) {
	key := CacheKey{League: league, TeamID: teamID}
	if stats, ok := p.cache.Get(key); ok {
		metrics.RecordCacheHit(league.String())
		return stats, true
	}
	metrics.RecordCacheMiss(league.String())

	detached := context.WithoutCancel(ctx)
	ch := p.flight.DoChan(key.String(), func() (v interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				p.logger.WithFields(logrus.Fields{"key": key.String(), "panic": r}).Error("Calibration load panicked")
				v = (*models.TeamCalibrationStats)(nil)
			}
		}()
		return p.load(detached, key), nil
	})

	select {
	case res := <-ch:
		stats, _ := res.Val.(*models.TeamCalibrationStats)
		return stats, stats != nil
	case <-ctx.Done():
		return nil, false
	}
}

func (p *Provider) load(ctx context.Context, key CacheKey) *models.TeamCalibrationStats {
	if stats, ok := p.cache.peek(key); ok {
		return stats
	}

	if p.shared != nil {
		stats, ok, err := p.shared.Get(ctx, key)
		if err != nil {
			metrics.RecordSharedStoreError("get")
			p.logger.WithError(err).WithField("key", key.String()).Warn("Shared store read failed")
		} else if ok && stats != nil && p.cache.Fresh(stats.FetchedAt) {
			p.cache.SetAt(key, stats, stats.FetchedAt)
			return stats
		} else if ok {
			p.logger.WithField("key", key.String()).Debug("Shared store entry expired, refetching")
		}
	}

	games, teamName := p.fetch(ctx, key.TeamID, key.League, p.lastN)
	if len(games) == 0 {
		return nil
	}
	if teamName == "" {
		teamName = key.TeamID
	}

	computed := calibration.ComputeStats(key.TeamID, teamName, key.League, games)
	computed.FetchedAt = p.clock.Now()
	stats := &computed
	p.cache.Set(key, stats)

	if p.shared != nil {
		if err := p.shared.Set(ctx, key, stats, p.ttl); err != nil {
			metrics.RecordSharedStoreError("set")
			p.logger.WithError(err).WithField("key", key.String()).Warn("Shared store write failed")
		}
	}
	return stats
}
