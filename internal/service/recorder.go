package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/metrics"
	"github.com/BarkinBalci/app-stats-service/internal/repository"
)

// MaxBatchSize is the largest number of events accepted by RecordBatch
const MaxBatchSize = 100

const (
	insertEventQuery = `INSERT INTO events (app_id, event_type, event_category, qualifier, value, timestamp, country)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	// The increment happens inside the store so concurrent writers never
	// lose updates. Category is overwritten by the latest event.
	upsertStatQuery = `INSERT INTO stats (app_id, metric, category, value, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (app_id, metric) DO UPDATE SET
			value = stats.value + excluded.value,
			category = excluded.category,
			last_updated = excluded.last_updated`

	selectStatValueQuery = `SELECT value FROM stats WHERE app_id = ? AND metric = ?`
)

// Recorder appends events and increments their counters atomically
type Recorder struct {
	store repository.Store
	now   func() time.Time
	log   *zap.Logger
}

// NewRecorder creates a new event recorder
func NewRecorder(store repository.Store, log *zap.Logger) *Recorder {
	return &Recorder{
		store: store,
		now:   time.Now,
		log:   log,
	}
}

// Record stores one event and returns the counter value after the commit.
// Re-sending the same event records it twice.
func (r *Recorder) Record(ctx context.Context, appID string, input EventInput) (*RecordResult, error) {
	if appID == "" {
		r.countCall("single", metrics.StatusValidationError)
		return nil, domain.NewValidationError("app_id", "is required")
	}
	if input.EventType == "" {
		r.countCall("single", metrics.StatusValidationError)
		return nil, domain.NewValidationError("event_type", "is required")
	}

	event := r.resolve(appID, input)
	metric := event.Metric()

	if err := r.store.ExecBatch(ctx, buildStatements(event)); err != nil {
		r.countCall("single", metrics.StatusStorageError)
		r.log.Error("Failed to record event",
			zap.Error(err),
			zap.String("app_id", appID),
			zap.String("metric", metric))
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	r.countCall("single", metrics.StatusSuccess)
	metrics.EventsRecorded.WithLabelValues(event.EventCategory).Inc()
	metrics.BatchSize.Observe(1)

	// Read back separately: other writers may have incremented the same
	// counter since our commit.
	var value int64
	found, err := r.store.Get(ctx, &value, selectStatValueQuery, appID, metric)
	if err != nil {
		r.log.Error("Failed to read back counter",
			zap.Error(err),
			zap.String("app_id", appID),
			zap.String("metric", metric))
		return nil, fmt.Errorf("failed to read counter: %w", err)
	}
	if !found {
		r.log.Warn("Counter missing after commit",
			zap.String("app_id", appID),
			zap.String("metric", metric))
	}

	r.log.Debug("Event recorded",
		zap.String("app_id", appID),
		zap.String("metric", metric),
		zap.Int64("cumulative_value", value))

	return &RecordResult{
		Metric:          metric,
		Category:        event.EventCategory,
		CumulativeValue: value,
	}, nil
}

// RecordBatch stores up to MaxBatchSize events as a single atomic batch.
// Every event is validated before anything is written.
func (r *Recorder) RecordBatch(ctx context.Context, appID string, inputs []EventInput) (*BatchResult, error) {
	if err := ValidateBatch(appID, inputs); err != nil {
		status := metrics.StatusValidationError
		if errors.Is(err, domain.ErrCapacity) {
			status = metrics.StatusCapacityError
		}
		r.countCall("batch", status)
		r.log.Warn("Rejected event batch",
			zap.Error(err),
			zap.String("app_id", appID),
			zap.Int("event_count", len(inputs)))
		return nil, err
	}

	events := make([]*domain.Event, len(inputs))
	statements := make([]repository.Statement, 0, 2*len(inputs))
	for i, input := range inputs {
		events[i] = r.resolve(appID, input)
		statements = append(statements, buildStatements(events[i])...)
	}

	if err := r.store.ExecBatch(ctx, statements); err != nil {
		r.countCall("batch", metrics.StatusStorageError)
		r.log.Error("Failed to record event batch",
			zap.Error(err),
			zap.String("app_id", appID),
			zap.Int("event_count", len(events)))
		return nil, fmt.Errorf("failed to record event batch: %w", err)
	}

	r.countCall("batch", metrics.StatusSuccess)
	metrics.BatchSize.Observe(float64(len(events)))

	result := &BatchResult{
		Recorded: len(events),
		Metrics:  make([]RecordedMetric, len(events)),
	}
	for i, event := range events {
		metrics.EventsRecorded.WithLabelValues(event.EventCategory).Inc()
		result.Metrics[i] = RecordedMetric{
			Metric:   event.Metric(),
			Category: event.EventCategory,
		}
	}

	r.log.Info("Event batch recorded",
		zap.String("app_id", appID),
		zap.Int("event_count", len(events)))

	return result, nil
}

// ValidateBatch checks a batch without writing it: app_id, emptiness,
// capacity, then every item in order.
func ValidateBatch(appID string, inputs []EventInput) error {
	if appID == "" {
		return domain.NewValidationError("app_id", "is required")
	}
	if len(inputs) == 0 {
		return domain.NewValidationError("events", "must contain at least one event")
	}
	if len(inputs) > MaxBatchSize {
		return &domain.CapacityError{Limit: MaxBatchSize, Got: len(inputs)}
	}
	for i, input := range inputs {
		if input.EventType == "" {
			return domain.NewBatchValidationError(i, "event_type", "is required")
		}
	}
	return nil
}

// resolve applies defaults to an input. Empty optional strings count as absent.
func (r *Recorder) resolve(appID string, input EventInput) *domain.Event {
	event := &domain.Event{
		AppID:     appID,
		EventType: input.EventType,
		Qualifier: nonEmpty(input.Qualifier),
		Value:     1,
		Timestamp: r.now().Unix(),
		Country:   nonEmpty(input.Country),
	}

	if input.Value != nil {
		event.Value = *input.Value
	}
	if input.Timestamp != nil {
		event.Timestamp = *input.Timestamp
	}
	if category := nonEmpty(input.Category); category != nil {
		event.EventCategory = *category
	} else {
		event.EventCategory = domain.Categorize(input.EventType)
	}

	return event
}

// buildStatements returns the event append and the counter upsert for one event
func buildStatements(event *domain.Event) []repository.Statement {
	return []repository.Statement{
		repository.NewStatement(insertEventQuery,
			event.AppID,
			event.EventType,
			event.EventCategory,
			nullable(event.Qualifier),
			event.Value,
			event.Timestamp,
			nullable(event.Country),
		),
		repository.NewStatement(upsertStatQuery,
			event.AppID,
			event.Metric(),
			event.EventCategory,
			event.Value,
			event.Timestamp,
		),
	}
}

func (r *Recorder) countCall(kind, status string) {
	metrics.RecordCalls.WithLabelValues(kind, status).Inc()
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
