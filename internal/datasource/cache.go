package datasource

import (
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// FeedCache is a TTL cache for feed responses. Historical schedules and
// as-of stat payloads do not change once published, so caching them for a
// short window only saves round trips; no freshness guarantee is claimed
// and none is needed.
type FeedCache struct {
	store      *gocache.Cache
	maxEntries int
	hits       atomic.Int64
	misses     atomic.Int64
}

// CacheStats is a point-in-time snapshot of cache effectiveness
type CacheStats struct {
	Entries int     `json:"entries"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// NewFeedCache creates a feed cache with the given TTL and entry ceiling
func NewFeedCache(ttl time.Duration, maxEntries int) *FeedCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 1000
	}

	return &FeedCache{
		store:      gocache.New(ttl, 2*ttl),
		maxEntries: maxEntries,
	}
}

func scheduleCacheKey(date time.Time) string {
	return "schedule:" + date.Format("2006-01-02")
}

func statsCacheKey(team string, asOf time.Time) string {
	return fmt.Sprintf("stats:%s:%s", team, asOf.Format("2006-01-02"))
}

// GetSchedule returns the cached listings for a date, if present
func (c *FeedCache) GetSchedule(date time.Time) ([]GameListing, bool) {
	value, found := c.store.Get(scheduleCacheKey(date))
	if !found {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return value.([]GameListing), true
}

// PutSchedule stores the listings for a date
func (c *FeedCache) PutSchedule(date time.Time, listings []GameListing) {
	c.evictIfFull()
	c.store.SetDefault(scheduleCacheKey(date), listings)
}

// GetStats returns the cached stat payload for a team and date, if present
func (c *FeedCache) GetStats(team string, asOf time.Time) (*TeamStats, bool) {
	value, found := c.store.Get(statsCacheKey(team, asOf))
	if !found {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return value.(*TeamStats), true
}

// PutStats stores the stat payload for a team and date
func (c *FeedCache) PutStats(team string, asOf time.Time, stats *TeamStats) {
	c.evictIfFull()
	c.store.SetDefault(statsCacheKey(team, asOf), stats)
}

// evictIfFull clears expired entries when the cache reaches its ceiling.
// go-cache otherwise only sweeps on its background interval.
func (c *FeedCache) evictIfFull() {
	if c.store.ItemCount() >= c.maxEntries {
		c.store.DeleteExpired()
	}
}

// Stats returns a snapshot of the cache counters
func (c *FeedCache) Stats() CacheStats {
	hits := c.hits.Load()
	misses := c.misses.Load()

	rate := 0.0
	if hits+misses > 0 {
		rate = float64(hits) / float64(hits+misses)
	}

	return CacheStats{
		Entries: c.store.ItemCount(),
		Hits:    hits,
		Misses:  misses,
		HitRate: rate,
	}
}

// Flush drops every cached entry and resets the counters
func (c *FeedCache) Flush() {
	c.store.Flush()
	c.hits.Store(0)
	c.misses.Store(0)
}
