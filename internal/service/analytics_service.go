package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/query-triage/internal/events"
	"github.com/spec-kit/query-triage/internal/persistence"
	"github.com/spec-kit/query-triage/internal/repository"
	apperrors "github.com/spec-kit/query-triage/pkg/util/errorutil"
)

const overviewCacheKey = "analytics:overview"

// Default report windows in days, applied when the caller passes no period
// or a non-positive one.
const (
	DefaultResponseTimePeriodDays = 7
	DefaultTrendPeriodDays        = 30
)

// AnalyticsService serves reporting aggregates. The overview snapshot is
// cached in Redis under a TTL and invalidated whenever a write event fires;
// cache failures degrade to direct reads.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	cache     *persistence.Redis
	logger    *zap.Logger
	ttl       time.Duration
}

// NewAnalyticsService creates the service.
func NewAnalyticsService(analytics repository.AnalyticsRepository, cache *persistence.Redis, logger *zap.Logger, ttl time.Duration) *AnalyticsService {
	return &AnalyticsService{
		analytics: analytics,
		cache:     cache,
		logger:    logger,
		ttl:       ttl,
	}
}

// RegisterHandlers subscribes cache invalidation to write events.
func (a *AnalyticsService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventQueryCreated,
		events.EventQueryStatusChanged,
		events.EventQueryAssigned,
		events.EventQueryPriorityChanged,
		events.EventQueriesBulkUpdated,
		events.EventQueryDeleted,
	} {
		dispatcher.Subscribe(eventType, a.invalidateOverview)
	}
}

// Overview returns query volume and latency aggregates.
func (a *AnalyticsService) Overview(ctx context.Context) (*repository.OverviewStats, error) {
	if cached := a.cachedOverview(ctx); cached != nil {
		return cached, nil
	}

	stats, err := a.analytics.Overview(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	a.storeOverview(ctx, stats)
	return stats, nil
}

// TagDistribution returns per-tag query counts.
func (a *AnalyticsService) TagDistribution(ctx context.Context) (map[string]int64, error) {
	result, err := a.analytics.TagDistribution(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ResponseTimes returns resolution latency aggregates over the last
// periodDays days, including per-day buckets.
func (a *AnalyticsService) ResponseTimes(ctx context.Context, periodDays int) (*repository.ResponseTimeStats, error) {
	if periodDays <= 0 {
		periodDays = DefaultResponseTimePeriodDays
	}
	stats, err := a.analytics.ResponseTimes(ctx, periodDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// Trends returns daily query counts broken down by channel and priority over
// the last periodDays days.
func (a *AnalyticsService) Trends(ctx context.Context, periodDays int) ([]repository.TrendBucket, error) {
	if periodDays <= 0 {
		periodDays = DefaultTrendPeriodDays
	}
	buckets, err := a.analytics.Trends(ctx, periodDays)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return buckets, nil
}

// TeamPerformance returns per-team workload and latency aggregates.
func (a *AnalyticsService) TeamPerformance(ctx context.Context) ([]repository.TeamPerformance, error) {
	result, err := a.analytics.TeamPerformance(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

func (a *AnalyticsService) cachedOverview(ctx context.Context) *repository.OverviewStats {
	if a.cache == nil || a.cache.Client == nil || a.ttl <= 0 {
		return nil
	}
	raw, err := a.cache.Client.Get(ctx, overviewCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var stats repository.OverviewStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil
	}
	return &stats
}

func (a *AnalyticsService) storeOverview(ctx context.Context, stats *repository.OverviewStats) {
	if a.cache == nil || a.cache.Client == nil || a.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := a.cache.Client.Set(ctx, overviewCacheKey, raw, a.ttl).Err(); err != nil {
		a.logger.Debug("overview cache write failed", zap.Error(err))
	}
}

func (a *AnalyticsService) invalidateOverview(ctx context.Context, _ events.Event) error {
	if a.cache == nil || a.cache.Client == nil {
		return nil
	}
	if err := a.cache.Client.Del(ctx, overviewCacheKey).Err(); err != nil {
		a.logger.Debug("overview cache invalidation failed", zap.Error(err))
	}
	return nil
}
