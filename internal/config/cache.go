package config

import (
    "os"
    "time"
)

// CacheConfig defines settings for the seat layout cache.  When Enabled
// is false or no Redis client is configured, layouts are always computed
// from MySQL.  TTL bounds how long an entry may outlive a change that
// failed to invalidate it.  Prefix namespaces the keys.
type CacheConfig struct {
    Enabled bool
    TTL     time.Duration
    Prefix  string
}

// LoadCacheConfig reads LAYOUT_CACHE_* variables.  Defaults are used when
// variables are not set.
func LoadCacheConfig() CacheConfig {
    cfg := CacheConfig{
        Enabled: envBool("LAYOUT_CACHE_ENABLED", true),
        TTL:     parseDur(getenv("LAYOUT_CACHE_TTL", "30s")),
        Prefix:  getenv("LAYOUT_CACHE_PREFIX", "layout"),
    }
    if cfg.TTL <= 0 {
        cfg.TTL = 30 * time.Second
    }
    return cfg
}

// Helper functions reused from redis.go and ratelimit.go
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func parseDur(s string) time.Duration {
    d, err := time.ParseDuration(s)
    if err != nil {
        return time.Second
    }
    return d
}
