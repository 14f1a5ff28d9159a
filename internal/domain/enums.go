package domain

import "time"

// CacheStrategy names a fixed per-category TTL so callers do not hardcode
// durations. Tuning happens here, in one place.
type CacheStrategy string

const (
	// CacheStrategyProfile covers identity and profile data.
	CacheStrategyProfile CacheStrategy = "profile"
	// CacheStrategyNewsFeed covers the live news feed.
	CacheStrategyNewsFeed CacheStrategy = "news_feed"
	// CacheStrategyCatalog covers static reference content such as the
	// book catalog.
	CacheStrategyCatalog CacheStrategy = "catalog"
	// CacheStrategyGroups covers study group listings.
	CacheStrategyGroups CacheStrategy = "groups"
	// CacheStrategyChat covers recent group chat snapshots.
	CacheStrategyChat CacheStrategy = "chat"
)

var cacheStrategyTTLs = map[CacheStrategy]time.Duration{
	CacheStrategyProfile:  24 * time.Hour,
	CacheStrategyNewsFeed: 30 * time.Minute,
	CacheStrategyCatalog:  7 * 24 * time.Hour,
	CacheStrategyGroups:   time.Hour,
	CacheStrategyChat:     5 * time.Minute,
}

// TTL returns the fixed duration for the strategy, or false if the strategy
// name is unknown.
func (s CacheStrategy) TTL() (time.Duration, bool) {
	d, ok := cacheStrategyTTLs[s]
	return d, ok
}
