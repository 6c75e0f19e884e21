package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/metrics"
	"github.com/BarkinBalci/app-stats-service/internal/repository"
)

const (
	DefaultSeriesLimit  = 30
	MaxSeriesLimit      = 1000
	MaxSeriesMetrics    = 5
	DefaultSeriesWindow = 30 * 24 * time.Hour
)

// Timeseries rebuilds bucketed sums from the raw event log
type Timeseries struct {
	store repository.Store
	now   func() time.Time
	log   *zap.Logger
}

// NewTimeseries creates a new timeseries engine
func NewTimeseries(store repository.Store, log *zap.Logger) *Timeseries {
	return &Timeseries{
		store: store,
		now:   time.Now,
		log:   log,
	}
}

// seriesParams is a validated SeriesQuery with defaults applied
type seriesParams struct {
	appID   string
	metrics []string
	period  domain.Period
	from    int64
	to      int64
	country string
	limit   int
}

// Query returns the most recent buckets of a single metric in ascending order
func (t *Timeseries) Query(ctx context.Context, query SeriesQuery) (*Series, error) {
	if len(query.Metrics) != 1 {
		return nil, domain.NewValidationError("metric", "exactly one metric is required")
	}

	params, err := t.normalize(query)
	if err != nil {
		return nil, err
	}

	buckets, err := t.bucketMetric(ctx, params, params.metrics[0])
	if err != nil {
		metrics.SeriesQueries.WithLabelValues(string(params.period), metrics.StatusStorageError).Inc()
		return nil, err
	}
	metrics.SeriesQueries.WithLabelValues(string(params.period), metrics.StatusSuccess).Inc()

	keys := lastN(sortedKeys(buckets), params.limit)
	points := make([]SeriesPoint, len(keys))
	for i, key := range keys {
		points[i] = SeriesPoint{Bucket: key, Value: buckets[key]}
	}

	return &Series{
		Metric: params.metrics[0],
		Period: params.period,
		From:   params.from,
		To:     params.to,
		Points: points,
	}, nil
}

// QueryMulti computes up to MaxSeriesMetrics series and merges them onto a
// common time axis. Every row carries a value for every metric, zero when
// the metric had no events in that bucket.
func (t *Timeseries) QueryMulti(ctx context.Context, query SeriesQuery) (*SeriesTable, error) {
	params, err := t.normalize(query)
	if err != nil {
		return nil, err
	}

	perMetric := make([]map[string]int64, len(params.metrics))
	g, gctx := errgroup.WithContext(ctx)
	for i, metric := range params.metrics {
		i, metric := i, metric
		g.Go(func() error {
			buckets, err := t.bucketMetric(gctx, params, metric)
			if err != nil {
				return err
			}
			perMetric[i] = buckets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.SeriesQueries.WithLabelValues(string(params.period), metrics.StatusStorageError).Inc()
		return nil, err
	}
	metrics.SeriesQueries.WithLabelValues(string(params.period), metrics.StatusSuccess).Inc()

	union := make(map[string]int64)
	for _, buckets := range perMetric {
		for key := range buckets {
			union[key] = 0
		}
	}

	keys := lastN(sortedKeys(union), params.limit)
	rows := make([]SeriesRow, len(keys))
	for i, key := range keys {
		values := make(map[string]int64, len(params.metrics))
		for m, metric := range params.metrics {
			values[metric] = perMetric[m][key]
		}
		rows[i] = SeriesRow{Bucket: key, Values: values}
	}

	return &SeriesTable{
		Metrics: params.metrics,
		Period:  params.period,
		From:    params.from,
		To:      params.to,
		Rows:    rows,
	}, nil
}

func (t *Timeseries) normalize(query SeriesQuery) (*seriesParams, error) {
	if query.AppID == "" {
		return nil, domain.NewValidationError("app_id", "is required")
	}

	period, err := domain.ParsePeriod(query.Period)
	if err != nil {
		return nil, err
	}

	metricList := make([]string, 0, len(query.Metrics))
	seen := make(map[string]bool, len(query.Metrics))
	for _, metric := range query.Metrics {
		if metric == "" {
			return nil, domain.NewValidationError("metrics", "metric names must not be empty")
		}
		if !seen[metric] {
			seen[metric] = true
			metricList = append(metricList, metric)
		}
	}
	if len(metricList) == 0 {
		return nil, domain.NewValidationError("metrics", "at least one metric is required")
	}
	if len(metricList) > MaxSeriesMetrics {
		return nil, domain.NewValidationError("metrics", fmt.Sprintf("at most %d metrics can be compared, got %d", MaxSeriesMetrics, len(metricList)))
	}

	to := t.now().Unix()
	if query.To != nil {
		to = *query.To
	}
	from := to - int64(DefaultSeriesWindow/time.Second)
	if query.From != nil {
		from = *query.From
	}
	if from > to {
		return nil, domain.NewValidationError("from", "must be less than or equal to to")
	}

	limit := query.Limit
	if limit < 0 {
		return nil, domain.NewValidationError("limit", "must not be negative")
	}
	if limit == 0 {
		limit = DefaultSeriesLimit
	}
	if limit > MaxSeriesLimit {
		limit = MaxSeriesLimit
	}

	return &seriesParams{
		appID:   query.AppID,
		metrics: metricList,
		period:  period,
		from:    from,
		to:      to,
		country: query.Country,
		limit:   limit,
	}, nil
}

// bucketMetric sums the events of one metric per bucket
func (t *Timeseries) bucketMetric(ctx context.Context, params *seriesParams, metric string) (map[string]int64, error) {
	eventType, qualifier := domain.SplitMetricKey(metric)

	query := `SELECT timestamp, CAST(SUM(value) AS BIGINT) AS value
		FROM events
		WHERE app_id = ? AND event_type = ? AND timestamp >= ? AND timestamp <= ?`
	args := []interface{}{params.appID, eventType, params.from, params.to}

	// A metric without qualifier must not match qualified events
	if qualifier == nil {
		query += " AND qualifier IS NULL"
	} else {
		query += " AND qualifier = ?"
		args = append(args, *qualifier)
	}
	if params.country != "" {
		query += " AND country = ?"
		args = append(args, params.country)
	}
	query += " GROUP BY timestamp"

	var rows []struct {
		Timestamp int64 `db:"timestamp"`
		Value     int64 `db:"value"`
	}
	if err := t.store.Select(ctx, &rows, query, args...); err != nil {
		t.log.Error("Failed to query events for series",
			zap.Error(err),
			zap.String("app_id", params.appID),
			zap.String("metric", metric))
		return nil, fmt.Errorf("failed to query series for %s: %w", metric, err)
	}

	buckets := make(map[string]int64)
	for _, row := range rows {
		buckets[params.period.BucketKey(row.Timestamp)] += row.Value
	}
	return buckets, nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// lastN keeps the final n elements of an ascending slice
func lastN(keys []string, n int) []string {
	if len(keys) <= n {
		return keys
	}
	return keys[len(keys)-n:]
}
