package service

import (
	"github.com/BarkinBalci/app-stats-service/internal/domain"
)

// EventInput is one inbound event before defaults are applied.
// Nil fields take their defaults: value 1, timestamp now, category derived
// from the event type.
type EventInput struct {
	EventType string
	Qualifier *string
	Value     *int64
	Category  *string
	Timestamp *int64
	Country   *string
}

// RecordResult is returned by a single record call
type RecordResult struct {
	Metric          string `json:"metric"`
	Category        string `json:"category"`
	CumulativeValue int64  `json:"cumulative_value"`
}

// RecordedMetric identifies the counter one batch item incremented
type RecordedMetric struct {
	Metric   string `json:"metric"`
	Category string `json:"category"`
}

// BatchResult is returned by a batch record call
type BatchResult struct {
	Recorded int              `json:"recorded"`
	Metrics  []RecordedMetric `json:"metrics"`
}

// StatsFormat selects the shape of ListStats results
type StatsFormat string

const (
	FormatSimple   StatsFormat = "simple"
	FormatDetailed StatsFormat = "detailed"
)

// StatsFilter narrows ListStats by metric prefix and category
type StatsFilter struct {
	Prefix   string
	Category string
}

// Page is a limit/offset window; a zero limit disables paging
type Page struct {
	Limit  int
	Offset int
}

// Pagination describes the window a detailed listing was cut from
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// StatsList holds either the simple or the detailed listing
type StatsList struct {
	Format     StatsFormat
	Simple     map[string]int64
	Detailed   []domain.Stat
	Pagination *Pagination
}

// TopQuery parameterizes TopMetrics
type TopQuery struct {
	Category string
	Limit    int
	Sort     string
}

// SeriesQuery parameterizes timeseries queries. Nil From/To and a zero
// Limit take their defaults.
type SeriesQuery struct {
	AppID   string
	Metrics []string
	Period  string
	From    *int64
	To      *int64
	Country string
	Limit   int
}

// SeriesPoint is the summed value of one bucket
type SeriesPoint struct {
	Bucket string `json:"bucket"`
	Value  int64  `json:"value"`
}

// Series is the bucketed history of a single metric
type Series struct {
	Metric string        `json:"metric"`
	Period domain.Period `json:"period"`
	From   int64         `json:"from"`
	To     int64         `json:"to"`
	Points []SeriesPoint `json:"points"`
}

// SeriesRow is one bucket of a multi-metric table, holding a value for
// every requested metric
type SeriesRow struct {
	Bucket string           `json:"bucket"`
	Values map[string]int64 `json:"values"`
}

// SeriesTable is the dense multi-metric result
type SeriesTable struct {
	Metrics []string      `json:"metrics"`
	Period  domain.Period `json:"period"`
	From    int64         `json:"from"`
	To      int64         `json:"to"`
	Rows    []SeriesRow   `json:"rows"`
}

// AppSummary aggregates the state of one application
type AppSummary struct {
	AppID       string           `json:"app_id"`
	EventCount  int64            `json:"event_count"`
	StatCount   int64            `json:"stat_count"`
	LastEventAt int64            `json:"last_event_at"`
	Categories  map[string]int64 `json:"categories"`
}

// WindowTotals counts events and sums their values over a time window
type WindowTotals struct {
	EventCount int64 `db:"event_count" json:"event_count"`
	ValueTotal int64 `db:"value_total" json:"value_total"`
}

// EventTypeCount is the number of events of one type
type EventTypeCount struct {
	EventType string `db:"event_type" json:"event_type"`
	Count     int64  `db:"event_count" json:"count"`
}

// Dashboard extends the summary with recent activity
type Dashboard struct {
	AppSummary
	Last24h     WindowTotals     `json:"last_24h"`
	TopEvents7d []EventTypeCount `json:"top_events_7d"`
	GeneratedAt int64            `json:"generated_at"`
}
