package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sille/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

// ErrCacheMiss is returned by a Store when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Store is the shared cache tier (Redis in production). Implementations
// must tolerate concurrent per-key access.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

const (
	localCacheSweepInterval = 10 * time.Minute
	localRefillTTL          = 10 * time.Minute
)

// TieredCache memoizes pipeline artifacts in a bounded in-process tier
// backed by a shared store. Entries carry the same TTL in both tiers, so
// nothing outlives its expiry even if the process runs for months. The
// cache is never authoritative: every failure path degrades to a miss and
// the caller recomputes.
type TieredCache struct {
	local *gocache.Cache
	store Store
}

// NewTieredCache builds a cache over the given shared store. A nil store
// leaves only the local tier active.
func NewTieredCache(store Store) *TieredCache {
	return &TieredCache{
		local: gocache.New(gocache.NoExpiration, localCacheSweepInterval),
		store: store,
	}
}

// GetJSON loads key into dest, trying the local tier first. A corrupt
// payload counts as a miss and evicts the entry.
func (c *TieredCache) GetJSON(ctx context.Context, key string, dest any) bool {
	if raw, ok := c.local.Get(key); ok {
		if data, ok := raw.([]byte); ok {
			if err := json.Unmarshal(data, dest); err == nil {
				cacheHitsTotal.WithLabelValues("local").Inc()
				return true
			}
			c.local.Delete(key)
		}
	}

	if c.store == nil {
		cacheMissesTotal.Inc()
		return false
	}

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			logger.Warn("cache store read failed, recomputing", "key", key, "error", err)
		}
		cacheMissesTotal.Inc()
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn("corrupt cache entry treated as miss", "key", key, "error", err)
		_ = c.store.Del(ctx, key)
		cacheMissesTotal.Inc()
		return false
	}

	// repopulate the local tier on a shared-tier hit; the short refill
	// TTL keeps the local copy from outliving a shared-tier eviction
	c.local.Set(key, data, localRefillTTL)
	cacheHitsTotal.WithLabelValues("shared").Inc()
	return true
}

// SetJSON writes key to both tiers with the given TTL. Store failures are
// logged and swallowed; losing a cache write only costs recomputation.
func (c *TieredCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Error("failed to marshal cache entry", "key", key, "error", err)
		return
	}

	c.local.Set(key, data, ttl)

	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache store write failed", "key", key, "error", err)
	}
}

// Delete drops key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) {
	c.local.Delete(key)
	if c.store == nil {
		return
	}
	if err := c.store.Del(ctx, key); err != nil {
		logger.Warn("cache store delete failed", "key", key, "error", err)
	}
}

// ---- cache keys ----

const (
	keyVocabulary = "reco:vocabulary"
	keyMatrix     = "reco:matrix"
)

func keyPreference(userID uint) string {
	return fmt.Sprintf("reco:pref:user:%d", userID)
}

func keyResults(userID uint, alpha float64) string {
	return fmt.Sprintf("reco:results:user:%d:alpha:%.3f", userID, alpha)
}
