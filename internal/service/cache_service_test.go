package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/internal/storage/memory"
	"studylink/mocks"
)

func newTestCache(t *testing.T, cfg *config.CacheConfig) (*cacheService, *time.Time) {
	t.Helper()
	if cfg == nil {
		cfg = &config.CacheConfig{
			Namespace:        "test_cache",
			MaxBytes:         100 * 1024 * 1024,
			CleanupThreshold: 0.85,
			EvictFraction:    0.2,
		}
	}
	svc := NewCacheService(memory.NewKVStore(), cfg).(*cacheService)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, &clock
}

func TestCacheSetGetRoundtrip(t *testing.T) {
	svc, _ := newTestCache(t, nil)
	ctx := context.Background()

	type profile struct {
		Name  string `json:"name"`
		Level int    `json:"level"`
	}
	err := svc.Set(ctx, "profile:42", profile{Name: "Ada", Level: 3}, time.Hour)
	require.NoError(t, err)

	var got profile
	assert.True(t, svc.Get(ctx, "profile:42", &got))
	assert.Equal(t, profile{Name: "Ada", Level: 3}, got)
	assert.True(t, svc.Has(ctx, "profile:42"))
	assert.False(t, svc.Has(ctx, "profile:other"))
}

func TestCacheExpiryIsLazy(t *testing.T) {
	svc, clock := newTestCache(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "chat:1", "hello", 5*time.Minute))

	*clock = clock.Add(4 * time.Minute)
	assert.True(t, svc.Has(ctx, "chat:1"))

	*clock = clock.Add(2 * time.Minute)
	var out string
	assert.False(t, svc.Get(ctx, "chat:1", &out))

	// The expired read must have removed both the entry and its index record.
	raw, ok, err := svc.store.GetItem(ctx, svc.entryKey("chat:1"))
	require.NoError(t, err)
	assert.False(t, ok, "expired entry should be deleted, got %q", raw)
	index := svc.loadIndex(ctx)
	assert.NotContains(t, index, "chat:1")
}

func TestCacheStrategyTTLs(t *testing.T) {
	svc, clock := newTestCache(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.SetWithStrategy(ctx, "feed", []string{"a"}, domain.CacheStrategyNewsFeed))

	*clock = clock.Add(29 * time.Minute)
	assert.True(t, svc.Has(ctx, "feed"))

	*clock = clock.Add(2 * time.Minute)
	assert.False(t, svc.Has(ctx, "feed"))

	err := svc.SetWithStrategy(ctx, "x", "y", domain.CacheStrategy("bogus"))
	assert.ErrorIs(t, err, domain.ErrUnknownCacheStrategy)
}

func TestCacheEvictsOldestUnderSizePressure(t *testing.T) {
	// Ceiling sized so one ~450-byte entry fits but two cross the
	// threshold, forcing an eviction on every write after the first.
	cfg := &config.CacheConfig{
		Namespace:        "test_cache",
		MaxBytes:         1000,
		CleanupThreshold: 0.85,
		EvictFraction:    0.2,
	}
	svc, clock := newTestCache(t, cfg)
	ctx := context.Background()

	payload := strings.Repeat("x", 400)
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, svc.Set(ctx, key, payload, 24*time.Hour))
		*clock = clock.Add(time.Minute)
	}

	// Nothing is expired, so pressure falls through to oldest-first
	// eviction: "a" goes when "b" lands, "b" goes when "c" lands.
	index := svc.loadIndex(ctx)
	assert.NotContains(t, index, "a")
	assert.NotContains(t, index, "b")
	assert.Contains(t, index, "c")
	assert.False(t, svc.Has(ctx, "a"))
	assert.True(t, svc.Has(ctx, "c"))
}

func TestCacheExpiredReclaimedBeforeEviction(t *testing.T) {
	cfg := &config.CacheConfig{
		Namespace:        "test_cache",
		MaxBytes:         1000,
		CleanupThreshold: 0.85,
		EvictFraction:    0.2,
	}
	svc, clock := newTestCache(t, cfg)
	ctx := context.Background()

	payload := strings.Repeat("x", 400)
	require.NoError(t, svc.Set(ctx, "stale", payload, time.Minute))
	*clock = clock.Add(2 * time.Minute)

	// The write crosses the threshold, but reclaiming the expired entry
	// relieves the pressure before any live entry is evicted.
	require.NoError(t, svc.Set(ctx, "live", payload, 24*time.Hour))

	index := svc.loadIndex(ctx)
	assert.NotContains(t, index, "stale")
	assert.Contains(t, index, "live")
	assert.True(t, svc.Has(ctx, "live"))
}

func TestCacheSetPropagatesStoreErrors(t *testing.T) {
	store := new(mocks.MockKeyValueStore)
	store.On("SetItem", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	cfg := &config.CacheConfig{Namespace: "test_cache", MaxBytes: 1 << 20, CleanupThreshold: 0.85, EvictFraction: 0.2}
	svc := NewCacheService(store, cfg)

	err := svc.Set(context.Background(), "k", "v", time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCacheGetSwallowsStoreErrors(t *testing.T) {
	store := new(mocks.MockKeyValueStore)
	store.On("GetItem", mock.Anything, mock.Anything).Return("", false, errors.New("backend down"))

	cfg := &config.CacheConfig{Namespace: "test_cache", MaxBytes: 1 << 20, CleanupThreshold: 0.85, EvictFraction: 0.2}
	svc := NewCacheService(store, cfg)

	var out string
	assert.False(t, svc.Get(context.Background(), "k", &out))
}

func TestCacheCorruptEntryTreatedAsMiss(t *testing.T) {
	svc, _ := newTestCache(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.store.SetItem(ctx, svc.entryKey("bad"), "{not json"))
	var out string
	assert.False(t, svc.Get(ctx, "bad", &out))

	_, ok, err := svc.store.GetItem(ctx, svc.entryKey("bad"))
	require.NoError(t, err)
	assert.False(t, ok, "corrupt entry should be removed on read")
}

func TestCacheCleanupExpiredCountsRemovals(t *testing.T) {
	svc, clock := newTestCache(t, nil)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "short1", 1, time.Minute))
	require.NoError(t, svc.Set(ctx, "short2", 2, time.Minute))
	require.NoError(t, svc.Set(ctx, "long", 3, time.Hour))

	*clock = clock.Add(5 * time.Minute)
	assert.Equal(t, 2, svc.CleanupExpired(ctx))
	assert.True(t, svc.Has(ctx, "long"))
}

func TestCacheCleanupOldestOrdering(t *testing.T) {
	svc, clock := newTestCache(t, nil)
	ctx := context.Background()

	for _, key := range []string{"first", "second", "third"} {
		require.NoError(t, svc.Set(ctx, key, key, time.Hour))
		*clock = clock.Add(time.Minute)
	}

	assert.Equal(t, 2, svc.CleanupOldest(ctx, 2))
	assert.False(t, svc.Has(ctx, "first"))
	assert.False(t, svc.Has(ctx, "second"))
	assert.True(t, svc.Has(ctx, "third"))

	// Asking for more than exists removes what is there.
	assert.Equal(t, 1, svc.CleanupOldest(ctx, 10))
}
