package provider

import (
	"fmt"
	"sync/atomic"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/edge-calibrator/internal/models"
)

// CacheKey identifies a team's calibration stats
type CacheKey struct {
	League models.League
	TeamID string
}

// String returns the "league:teamID" form of the key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.League, k.TeamID)
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Items  int    `json:"items"`
}

type cacheEntry struct {
	stats    *models.TeamCalibrationStats
	storedAt time.Time
}

// StatsCache holds calibration stats for a fixed TTL measured on the injected clock.
// The underlying go-cache janitor only reclaims memory; freshness is decided here.
type StatsCache struct {
	store *cache.Cache
	clock Clock
	ttl   time.Duration

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewStatsCache creates a cache whose entries are valid for ttl
func NewStatsCache(ttl, cleanupInterval time.Duration, clock Clock) *StatsCache {
	if clock == nil {
		clock = SystemClock()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = ttl
	}
	return &StatsCache{
		// wall-clock expiry is a backstop at twice the TTL
		store: cache.New(2*ttl, cleanupInterval),
		clock: clock,
		ttl:   ttl,
	}
}

// Get returns the entry for key if it was stored less than ttl ago
func (c *StatsCache) Get(key CacheKey) (*models.TeamCalibrationStats, bool) {
	stats, ok := c.lookup(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return stats, ok
}

// peek is Get without touching the hit and miss counters
func (c *StatsCache) peek(key CacheKey) (*models.TeamCalibrationStats, bool) {
	return c.lookup(key)
}

func (c *StatsCache) lookup(key CacheKey) (*models.TeamCalibrationStats, bool) {
	k := key.String()
	v, found := c.store.Get(k)
	if !found {
		return nil, false
	}
	entry := v.(cacheEntry)
	if c.Fresh(entry.storedAt) {
		return entry.stats, true
	}
	c.store.Delete(k)
	return nil, false
}

// Fresh reports whether something stamped at t is still inside the TTL.
// A zero time is never fresh.
func (c *StatsCache) Fresh(t time.Time) bool {
	return !t.IsZero() && c.clock.Now().Sub(t) < c.ttl
}

// Set stores stats under key, stamped with the current clock time
func (c *StatsCache) Set(key CacheKey, stats *models.TeamCalibrationStats) {
	c.SetAt(key, stats, c.clock.Now())
}

// SetAt stores stats under key as if stored at storedAt, so an entry copied from
// elsewhere keeps its original age. Times in the future are clamped to now.
func (c *StatsCache) SetAt(key CacheKey, stats *models.TeamCalibrationStats, storedAt time.Time) {
	if stats == nil {
		return
	}
	if now := c.clock.Now(); storedAt.After(now) {
		storedAt = now
	}
	c.store.SetDefault(key.String(), cacheEntry{stats: stats, storedAt: storedAt})
}

// Delete removes a key
func (c *StatsCache) Delete(key CacheKey) {
	c.store.Delete(key.String())
}

// Flush removes every entry
func (c *StatsCache) Flush() {
	c.store.Flush()
}

// Stats returns hit and miss counts
func (c *StatsCache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Items:  c.store.ItemCount(),
	}
}
