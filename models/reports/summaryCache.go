package reports

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/grupoavance/lending_backend/config"
	"bitbucket.org/grupoavance/lending_backend/models"
)

// summaryCache wraps a Summarizer with a short-lived redis cache. The summary
// stays a pure recompute of the transaction store; the cache only trades
// freshness (bounded by the TTL) for repeated-dashboard-refresh load.
type summaryCache struct {
	inner Summarizer
	ttl   time.Duration
}

// WithSummaryCache returns inner unchanged unless ENABLE_SUMMARY_CACHE is on.
func WithSummaryCache(inner Summarizer) Summarizer {
	if !config.SummaryCacheEnabled() {
		return inner
	}
	return &summaryCache{inner: inner, ttl: config.SummaryCacheTTL()}
}

func summaryCacheKey(startDate models.MyDateString, endDate models.MyDateString, routeId *int) string {
	route := 0
	if routeId != nil {
		route = *routeId
	}
	return fmt.Sprintf("summary:%s:%s:%d",
		time.Time(startDate).UTC().Format("2006-01-02"),
		time.Time(endDate).UTC().Format("2006-01-02"),
		route,
	)
}

func (c *summaryCache) Summarize(ctx context.Context, startDate models.MyDateString, endDate models.MyDateString, routeId *int) ([]*LocalitySummary, error) {
	key := summaryCacheKey(startDate, endDate, routeId)

	var cached []*LocalitySummary
	if hit, err := config.GetRedisObject(key, &cached); err == nil && hit {
		return cached, nil
	}

	results, err := c.inner.Summarize(ctx, startDate, endDate, routeId)
	if err != nil {
		return nil, err
	}
	if err := config.SetRedisObject(key, results, c.ttl); err != nil {
		config.LogError(config.GetLogger(), "summaryCache.go", "Summarize", "SetRedisObject", key, err)
	}
	return results, nil
}
