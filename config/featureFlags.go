package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SummaryCacheEnabled gates the redis-backed summary cache. The summary is
// always recomputable from raw transactions, so the cache is strictly an
// optimization and ships disabled.
//
// Set via env:
// - ENABLE_SUMMARY_CACHE=true
func SummaryCacheEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("ENABLE_SUMMARY_CACHE")))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

// SummaryCacheTTL reads SUMMARY_CACHE_TTL_SECONDS (default 120s).
func SummaryCacheTTL() time.Duration {
	ttl := 120
	if v := strings.TrimSpace(os.Getenv("SUMMARY_CACHE_TTL_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}
