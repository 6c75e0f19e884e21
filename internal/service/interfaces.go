package service

import (
	"context"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
)

// EventRecorder is the only writer of events and stats
type EventRecorder interface {
	Record(ctx context.Context, appID string, event EventInput) (*RecordResult, error)
	RecordBatch(ctx context.Context, appID string, events []EventInput) (*BatchResult, error)
}

// StatsReader answers queries against the counter table
type StatsReader interface {
	ListStats(ctx context.Context, appID string, filter StatsFilter, page Page, format StatsFormat) (*StatsList, error)
	GroupByCategory(ctx context.Context, appID string) (map[string]int64, error)
	TopMetrics(ctx context.Context, appID string, query TopQuery) ([]domain.Stat, error)
}

// TimeseriesQuerier reconstructs bucketed series from the event log
type TimeseriesQuerier interface {
	Query(ctx context.Context, query SeriesQuery) (*Series, error)
	QueryMulti(ctx context.Context, query SeriesQuery) (*SeriesTable, error)
}

// AppLister enumerates applications and composes their summaries
type AppLister interface {
	ListApps(ctx context.Context) ([]string, error)
	ListAppSummaries(ctx context.Context) ([]AppSummary, error)
	Summary(ctx context.Context, appID string) (*AppSummary, error)
	Dashboard(ctx context.Context, appID string) (*Dashboard, error)
}

// DashboardCache stores recently computed dashboards
type DashboardCache interface {
	GetDashboard(ctx context.Context, appID string) (*Dashboard, bool, error)
	SetDashboard(ctx context.Context, dashboard *Dashboard) error
}
