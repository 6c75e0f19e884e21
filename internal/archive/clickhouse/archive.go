package clickhouse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
)

// Archive keeps an append-only copy of committed events for offline analysis.
// The relational store stays the source of truth for counters and series.
type Archive struct {
	client *Client
	now    func() time.Time
	log    *zap.Logger
}

// NewArchive creates a new ClickHouse event archive
func NewArchive(client *Client, log *zap.Logger) *Archive {
	return &Archive{
		client: client,
		now:    time.Now,
		log:    log,
	}
}

// InitSchema creates the archive table
func (a *Archive) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS events_archive (
		batch_id String,
		app_id LowCardinality(String),
		event_type LowCardinality(String),
		event_category LowCardinality(String),
		metric String,
		qualifier Nullable(String),
		value Int64,
		timestamp Int64,
		country Nullable(String),
		ingested_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = MergeTree()
	ORDER BY (app_id, metric, timestamp)
	PARTITION BY toYYYYMM(toDateTime(timestamp))
	SETTINGS index_granularity = 8192
	`

	if err := a.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create events_archive table: %w", err)
	}

	a.log.Info("ClickHouse archive schema initialized successfully")
	return nil
}

// ArchiveBatch appends one committed batch to the archive
func (a *Archive) ArchiveBatch(ctx context.Context, batchID string, events []*domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := a.client.Conn().PrepareBatch(ctx, "INSERT INTO events_archive")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	ingestedAt := a.now()
	for _, event := range events {
		if err := batch.Append(archiveRow(batchID, event, ingestedAt)...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("failed to append event to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	a.log.Debug("Archived event batch",
		zap.String("batch_id", batchID),
		zap.Int("event_count", len(events)))

	return nil
}

// archiveRow lays out an event in events_archive column order
func archiveRow(batchID string, event *domain.Event, ingestedAt time.Time) []interface{} {
	return []interface{}{
		batchID,
		event.AppID,
		event.EventType,
		event.EventCategory,
		event.Metric(),
		event.Qualifier,
		event.Value,
		event.Timestamp,
		event.Country,
		ingestedAt,
	}
}

// Ping checks if the ClickHouse connection is alive
func (a *Archive) Ping(ctx context.Context) error {
	return a.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (a *Archive) Close() error {
	return a.client.Close()
}
