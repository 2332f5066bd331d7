package config

import (
    "strings"
    "time"
)

// CacheConfig defines settings for the response cache middleware and the
// collection read-through cache.  When Enabled is false or no Redis client
// is configured, caching is disabled.
type CacheConfig struct {
    Enabled         bool
    Methods         map[string]bool
    TTL             time.Duration
    KeyStrategy     string
    Prefix          string
    MaxBodyBytes    int
    CollectionTTL   time.Duration // lifetime of cached storage collections
    CollectionCache bool          // cache storage collections in Redis
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
func LoadCacheConfig() CacheConfig {
    return CacheConfig{
        Enabled:         envBool("CACHE_ENABLED", true),
        Methods:         parseMethods(envStr("CACHE_METHODS", "GET")),
        TTL:             envDur("CACHE_TTL", 30*time.Second),
        KeyStrategy:     envStr("CACHE_KEY_STRATEGY", "route_query"),
        Prefix:          envStr("CACHE_PREFIX", "cache"),
        MaxBodyBytes:    envInt("CACHE_MAX_BODY_BYTES", 1048576),
        CollectionTTL:   envDur("COLLECTION_CACHE_TTL", 10*time.Minute),
        CollectionCache: envBool("COLLECTION_CACHE_ENABLED", true),
    }
}

func parseMethods(s string) map[string]bool {
    m := map[string]bool{}
    for _, p := range strings.Split(s, ",") {
        p = strings.TrimSpace(strings.ToUpper(p))
        if p != "" {
            m[p] = true
        }
    }
    return m
}
