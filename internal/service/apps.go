package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/metrics"
	"github.com/BarkinBalci/app-stats-service/internal/repository"
)

const dashboardTopEvents = 5

// Apps enumerates applications and composes their summaries
type Apps struct {
	store repository.Store
	stats StatsReader
	cache DashboardCache
	now   func() time.Time
	log   *zap.Logger
}

// NewApps creates a new app directory. cache may be nil.
func NewApps(store repository.Store, stats StatsReader, cache DashboardCache, log *zap.Logger) *Apps {
	return &Apps{
		store: store,
		stats: stats,
		cache: cache,
		now:   time.Now,
		log:   log,
	}
}

// ListApps returns every app that owns at least one counter, alphabetically
func (a *Apps) ListApps(ctx context.Context) ([]string, error) {
	apps := []string{}
	if err := a.store.Select(ctx, &apps, "SELECT DISTINCT app_id FROM stats ORDER BY app_id ASC"); err != nil {
		return nil, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, nil
}

// ListAppSummaries returns the summary of every app, alphabetically
func (a *Apps) ListAppSummaries(ctx context.Context) ([]AppSummary, error) {
	apps, err := a.ListApps(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]AppSummary, 0, len(apps))
	for _, appID := range apps {
		summary, err := a.Summary(ctx, appID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// Summary counts the events and counters of an app. Unknown apps get a
// zero-valued summary.
func (a *Apps) Summary(ctx context.Context, appID string) (*AppSummary, error) {
	if appID == "" {
		return nil, domain.NewValidationError("app_id", "is required")
	}

	eventCount, err := a.store.Count(ctx, "SELECT COUNT(*) FROM events WHERE app_id = ?", appID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	statCount, err := a.store.Count(ctx, "SELECT COUNT(*) FROM stats WHERE app_id = ?", appID)
	if err != nil {
		return nil, fmt.Errorf("failed to count stats: %w", err)
	}

	lastEventAt, err := a.store.Count(ctx, "SELECT COALESCE(MAX(timestamp), 0) FROM events WHERE app_id = ?", appID)
	if err != nil {
		return nil, fmt.Errorf("failed to get last event time: %w", err)
	}

	categories, err := a.stats.GroupByCategory(ctx, appID)
	if err != nil {
		return nil, err
	}

	return &AppSummary{
		AppID:       appID,
		EventCount:  eventCount,
		StatCount:   statCount,
		LastEventAt: lastEventAt,
		Categories:  categories,
	}, nil
}

// Dashboard extends the summary with the trailing 24 hour totals and the
// most frequent event types of the trailing 7 days
func (a *Apps) Dashboard(ctx context.Context, appID string) (*Dashboard, error) {
	if appID == "" {
		return nil, domain.NewValidationError("app_id", "is required")
	}

	if cached := a.cachedDashboard(ctx, appID); cached != nil {
		return cached, nil
	}

	summary, err := a.Summary(ctx, appID)
	if err != nil {
		return nil, err
	}

	now := a.now().Unix()
	dayAgo := now - int64((24 * time.Hour).Seconds())
	weekAgo := now - int64((7 * 24 * time.Hour).Seconds())

	var last24h WindowTotals
	if _, err := a.store.Get(ctx, &last24h,
		`SELECT COUNT(*) AS event_count, COALESCE(CAST(SUM(value) AS BIGINT), 0) AS value_total
		FROM events
		WHERE app_id = ? AND timestamp >= ?`,
		appID, dayAgo); err != nil {
		return nil, fmt.Errorf("failed to get 24h totals: %w", err)
	}

	topEvents := []EventTypeCount{}
	if err := a.store.Select(ctx, &topEvents,
		`SELECT event_type, COUNT(*) AS event_count
		FROM events
		WHERE app_id = ? AND timestamp >= ?
		GROUP BY event_type
		ORDER BY event_count DESC, event_type ASC
		LIMIT ?`,
		appID, weekAgo, dashboardTopEvents); err != nil {
		return nil, fmt.Errorf("failed to get top event types: %w", err)
	}

	dashboard := &Dashboard{
		AppSummary:  *summary,
		Last24h:     last24h,
		TopEvents7d: topEvents,
		GeneratedAt: now,
	}

	if a.cache != nil {
		if err := a.cache.SetDashboard(ctx, dashboard); err != nil {
			a.log.Warn("Failed to cache dashboard", zap.Error(err), zap.String("app_id", appID))
		}
	}

	return dashboard, nil
}

// cachedDashboard returns a cached dashboard, or nil on a miss. Cache
// failures fall through to the store.
func (a *Apps) cachedDashboard(ctx context.Context, appID string) *Dashboard {
	if a.cache == nil {
		return nil
	}

	dashboard, found, err := a.cache.GetDashboard(ctx, appID)
	switch {
	case err != nil:
		metrics.DashboardCache.WithLabelValues("error").Inc()
		a.log.Warn("Dashboard cache lookup failed", zap.Error(err), zap.String("app_id", appID))
		return nil
	case !found:
		metrics.DashboardCache.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.DashboardCache.WithLabelValues("hit").Inc()
		return dashboard
	}
}
