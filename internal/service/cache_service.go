package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"studylink/internal/config"
	"studylink/internal/domain"
	"studylink/internal/port"
)

// CacheService stores JSON-serializable values under string keys with
// TTL-based expiry, an aggregate size bound, and oldest-first eviction under
// size pressure. It is purely advisory: read-path failures surface as cache
// misses, never as errors.
type CacheService interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetWithStrategy(ctx context.Context, key string, value any, strategy domain.CacheStrategy) error
	Get(ctx context.Context, key string, out any) bool
	Has(ctx context.Context, key string) bool
	Remove(ctx context.Context, key string)
	CleanupExpired(ctx context.Context) int
	CleanupOldest(ctx context.Context, n int) int
}

// cacheEnvelope is the serialized form of a cache entry.
type cacheEnvelope struct {
	Key       string          `json:"key"`
	TTLMillis int64           `json:"ttl"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds of last write
}

// indexRecord tracks the approximate serialized size and write time of one
// entry. The index exists only for aggregate-size accounting and eviction
// ordering; entry validity always comes from the envelope itself.
type indexRecord struct {
	Size      int64 `json:"size"`
	WrittenAt int64 `json:"writtenAt"`
}

type cacheService struct {
	store         port.KeyValueStore
	namespace     string
	maxBytes      int64
	threshold     float64
	evictFraction float64

	// mu guards read-modify-write cycles on the index record.
	mu  sync.Mutex
	now func() time.Time
}

// NewCacheService creates a CacheService over the given key-value store.
func NewCacheService(store port.KeyValueStore, cfg *config.CacheConfig) CacheService {
	return &cacheService{
		store:         store,
		namespace:     cfg.Namespace,
		maxBytes:      cfg.MaxBytes,
		threshold:     cfg.CleanupThreshold,
		evictFraction: cfg.EvictFraction,
		now:           time.Now,
	}
}

func (c *cacheService) entryKey(key string) string { return c.namespace + ":" + key }
func (c *cacheService) indexKey() string           { return c.namespace + ":__index__" }

func (c *cacheService) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cacheService.Set: serializing %q: %w", key, err)
	}

	env := cacheEnvelope{
		Key:       key,
		TTLMillis: ttl.Milliseconds(),
		Data:      data,
		Timestamp: c.now().UnixMilli(),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("cacheService.Set: serializing envelope for %q: %w", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.SetItem(ctx, c.entryKey(key), string(raw)); err != nil {
		return fmt.Errorf("cacheService.Set: storing %q: %w", key, err)
	}

	index := c.loadIndex(ctx)
	index[key] = indexRecord{Size: int64(len(raw)), WrittenAt: env.Timestamp}
	if err := c.saveIndex(ctx, index); err != nil {
		return fmt.Errorf("cacheService.Set: updating index for %q: %w", key, err)
	}

	c.checkAndCleanup(ctx, index)
	return nil
}

func (c *cacheService) SetWithStrategy(ctx context.Context, key string, value any, strategy domain.CacheStrategy) error {
	ttl, ok := strategy.TTL()
	if !ok {
		return fmt.Errorf("cacheService.SetWithStrategy: %q: %w", strategy, domain.ErrUnknownCacheStrategy)
	}
	return c.Set(ctx, key, value, ttl)
}

// Get unmarshals the cached value for key into out and reports whether a
// live entry was found. Expiry is discovered lazily here: an expired entry
// is removed (entry and index record) on the read that finds it.
func (c *cacheService) Get(ctx context.Context, key string, out any) bool {
	raw, ok, err := c.store.GetItem(ctx, c.entryKey(key))
	if err != nil {
		log.Printf("cacheService.Get: read error for %q, treating as miss: %v", key, err)
		return false
	}
	if !ok {
		return false
	}

	var env cacheEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Printf("cacheService.Get: corrupt entry %q, removing: %v", key, err)
		c.Remove(ctx, key)
		return false
	}

	if c.now().UnixMilli()-env.Timestamp > env.TTLMillis {
		c.Remove(ctx, key)
		return false
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			log.Printf("cacheService.Get: decode error for %q, treating as miss: %v", key, err)
			return false
		}
	}
	return true
}

func (c *cacheService) Has(ctx context.Context, key string) bool {
	var raw json.RawMessage
	return c.Get(ctx, key, &raw)
}

// Remove deletes the entry and its index record as one logical operation,
// entry first, tolerating either side being already absent.
func (c *cacheService) Remove(ctx context.Context, key string) {
	if err := c.store.RemoveItem(ctx, c.entryKey(key)); err != nil {
		log.Printf("cacheService.Remove: removing %q: %v", key, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	index := c.loadIndex(ctx)
	if _, ok := index[key]; !ok {
		return
	}
	delete(index, key)
	if err := c.saveIndex(ctx, index); err != nil {
		log.Printf("cacheService.Remove: updating index for %q: %v", key, err)
	}
}

// CleanupExpired scans every entry and removes those whose TTL has lapsed.
// Returns the number of entries removed.
func (c *cacheService) CleanupExpired(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleanupExpiredLocked(ctx)
}

func (c *cacheService) cleanupExpiredLocked(ctx context.Context) int {
	keys, err := c.store.GetAllKeys(ctx)
	if err != nil {
		log.Printf("cacheService.CleanupExpired: listing keys: %v", err)
		return 0
	}

	prefix := c.namespace + ":"
	nowMillis := c.now().UnixMilli()
	var expired []string

	for _, storeKey := range keys {
		if !strings.HasPrefix(storeKey, prefix) || storeKey == c.indexKey() {
			continue
		}
		cacheKey := strings.TrimPrefix(storeKey, prefix)

		raw, ok, err := c.store.GetItem(ctx, storeKey)
		if err != nil || !ok {
			continue
		}
		var env cacheEnvelope
		if err := json.Unmarshal([]byte(raw), &env); err != nil {
			// Unparseable entries count as expired.
			expired = append(expired, cacheKey)
			continue
		}
		if nowMillis-env.Timestamp > env.TTLMillis {
			expired = append(expired, cacheKey)
		}
	}

	if len(expired) == 0 {
		return 0
	}
	c.removeBatchLocked(ctx, expired)
	log.Printf("cacheService.CleanupExpired: removed %d expired entries", len(expired))
	return len(expired)
}

// CleanupOldest removes the n entries with the smallest write time according
// to the index, without consulting TTLs. Returns the number removed.
func (c *cacheService) CleanupOldest(ctx context.Context, n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cleanupOldestLocked(ctx, n)
}

func (c *cacheService) cleanupOldestLocked(ctx context.Context, n int) int {
	if n <= 0 {
		return 0
	}
	index := c.loadIndex(ctx)

	keys := make([]string, 0, len(index))
	for k := range index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return index[keys[i]].WrittenAt < index[keys[j]].WrittenAt
	})

	if n > len(keys) {
		n = len(keys)
	}
	c.removeBatchLocked(ctx, keys[:n])
	log.Printf("cacheService.CleanupOldest: evicted %d oldest entries", n)
	return n
}

// removeBatchLocked removes entries and their index records, entries first.
func (c *cacheService) removeBatchLocked(ctx context.Context, cacheKeys []string) {
	storeKeys := make([]string, 0, len(cacheKeys))
	for _, k := range cacheKeys {
		storeKeys = append(storeKeys, c.entryKey(k))
	}
	if err := c.store.MultiRemove(ctx, storeKeys); err != nil {
		log.Printf("cacheService: batch remove: %v", err)
	}

	index := c.loadIndex(ctx)
	for _, k := range cacheKeys {
		delete(index, k)
	}
	if err := c.saveIndex(ctx, index); err != nil {
		log.Printf("cacheService: batch index update: %v", err)
	}
}

// checkAndCleanup runs after every Set. Once aggregate size crosses the
// threshold it removes definitely-stale entries first and only then falls
// back to evicting a fixed fraction of the oldest entries.
func (c *cacheService) checkAndCleanup(ctx context.Context, index map[string]indexRecord) {
	limit := int64(float64(c.maxBytes) * c.threshold)
	if indexSize(index) <= limit {
		return
	}

	log.Printf("cacheService: size %d over threshold %d, cleaning up", indexSize(index), limit)
	c.cleanupExpiredLocked(ctx)

	index = c.loadIndex(ctx)
	if indexSize(index) <= limit {
		return
	}
	n := int(math.Ceil(c.evictFraction * float64(len(index))))
	c.cleanupOldestLocked(ctx, n)
}

func indexSize(index map[string]indexRecord) int64 {
	var total int64
	for _, rec := range index {
		total += rec.Size
	}
	return total
}

// loadIndex reads the size index, treating a missing or corrupt index as
// empty; it is rebuilt incrementally by subsequent writes and cleanups.
func (c *cacheService) loadIndex(ctx context.Context) map[string]indexRecord {
	raw, ok, err := c.store.GetItem(ctx, c.indexKey())
	if err != nil || !ok {
		if err != nil {
			log.Printf("cacheService: loading index: %v", err)
		}
		return make(map[string]indexRecord)
	}
	index := make(map[string]indexRecord)
	if err := json.Unmarshal([]byte(raw), &index); err != nil {
		log.Printf("cacheService: corrupt index, resetting: %v", err)
		return make(map[string]indexRecord)
	}
	return index
}

func (c *cacheService) saveIndex(ctx context.Context, index map[string]indexRecord) error {
	raw, err := json.Marshal(index)
	if err != nil {
		return err
	}
	return c.store.SetItem(ctx, c.indexKey(), string(raw))
}
