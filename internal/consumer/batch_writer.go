package consumer

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/dto"
	"github.com/BarkinBalci/app-stats-service/internal/metrics"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

const defaultShutdownFlushTimeout = 10 * time.Second

// BatchWriterConfig configures the batch writer
type BatchWriterConfig struct {
	MaxBatchSize         int
	FlushTimeout         time.Duration
	ShutdownFlushTimeout time.Duration
}

// BatchWriter buffers envelopes and records each one as an atomic batch
type BatchWriter struct {
	recorder service.EventRecorder
	archiver EventArchiver
	config   BatchWriterConfig
	now      func() time.Time
	log      *zap.Logger
}

// NewBatchWriter creates a new batch writer. archiver may be nil.
func NewBatchWriter(recorder service.EventRecorder, archiver EventArchiver, config BatchWriterConfig, log *zap.Logger) *BatchWriter {
	if config.ShutdownFlushTimeout <= 0 {
		config.ShutdownFlushTimeout = defaultShutdownFlushTimeout
	}
	return &BatchWriter{
		recorder: recorder,
		archiver: archiver,
		config:   config,
		now:      time.Now,
		log:      log,
	}
}

// Start begins buffering envelopes and flushing them by size or timeout
func (w *BatchWriter) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	pending := make([]*Envelope, 0, w.config.MaxBatchSize)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Batch writer shutting down")
			w.flushFinal(ctx, pending)
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Batch writer input channel closed")
				w.flushFinal(ctx, pending)
				return
			}

			pending = append(pending, envelope)

			if len(pending) >= w.config.MaxBatchSize {
				w.log.Debug("Batch size threshold reached", zap.Int("envelope_count", len(pending)))
				w.processEnvelopes(ctx, pending)
				pending = make([]*Envelope, 0, w.config.MaxBatchSize)
				ticker.Reset(w.config.FlushTimeout)
			}

		case <-ticker.C:
			if len(pending) > 0 {
				w.log.Debug("Batch timeout reached", zap.Int("envelope_count", len(pending)))
				w.processEnvelopes(ctx, pending)
				pending = make([]*Envelope, 0, w.config.MaxBatchSize)
			}
		}
	}
}

// flushFinal writes what is left on shutdown. The parent context may already
// be cancelled, so the flush gets its own deadline.
func (w *BatchWriter) flushFinal(ctx context.Context, pending []*Envelope) {
	if len(pending) == 0 {
		return
	}

	w.log.Info("Flushing final envelopes", zap.Int("envelope_count", len(pending)))

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.ShutdownFlushTimeout)
	defer cancel()

	w.processEnvelopes(flushCtx, pending)
}

// processEnvelopes records every envelope in arrival order
func (w *BatchWriter) processEnvelopes(ctx context.Context, envelopes []*Envelope) {
	for _, envelope := range envelopes {
		w.processEnvelope(ctx, envelope)
	}
}

// processEnvelope records one queued batch. Success and permanent rejection
// both remove the message; storage failures leave it for redelivery.
func (w *BatchWriter) processEnvelope(ctx context.Context, envelope *Envelope) {
	batch := envelope.Batch
	inputs := dto.ToEventInputs(batch.Events)

	// Fix missing timestamps once so the store and the archive agree
	now := w.now().Unix()
	for i := range inputs {
		if inputs[i].Timestamp == nil {
			inputs[i].Timestamp = &now
		}
	}

	logFields := []zap.Field{
		zap.String("batch_id", batch.BatchID),
		zap.String("app_id", batch.AppID),
		zap.String("message_id", envelope.MessageID),
		zap.Int("event_count", len(inputs)),
	}

	result, err := w.recorder.RecordBatch(ctx, batch.AppID, inputs)
	switch {
	case err == nil:
		metrics.ConsumerMessages.WithLabelValues("recorded").Inc()
		w.log.Info("Recorded queued batch", logFields...)
		w.archive(ctx, batch.BatchID, batch.AppID, inputs, result)
		if err := envelope.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", append(logFields, zap.Error(err))...)
		}

	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrCapacity):
		metrics.ConsumerMessages.WithLabelValues("rejected").Inc()
		w.log.Warn("Dropping invalid queued batch", append(logFields, zap.Error(err))...)
		if err := envelope.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", append(logFields, zap.Error(err))...)
		}

	default:
		metrics.ConsumerMessages.WithLabelValues("retried").Inc()
		w.log.Error("Failed to record queued batch", append(logFields, zap.Error(err))...)
		if err := envelope.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", append(logFields, zap.Error(err))...)
		}
	}
}

// archive mirrors a committed batch. The store is authoritative, so archive
// failures are only logged.
func (w *BatchWriter) archive(ctx context.Context, batchID, appID string, inputs []service.EventInput, result *service.BatchResult) {
	if w.archiver == nil {
		return
	}

	events := make([]*domain.Event, len(inputs))
	for i, input := range inputs {
		events[i] = archivedEvent(appID, input, result.Metrics[i])
	}

	if err := w.archiver.ArchiveBatch(ctx, batchID, events); err != nil {
		w.log.Warn("Failed to archive batch",
			zap.String("batch_id", batchID),
			zap.String("app_id", appID),
			zap.Error(err))
	}
}

// archivedEvent rebuilds the event row the recorder committed
func archivedEvent(appID string, input service.EventInput, recorded service.RecordedMetric) *domain.Event {
	event := &domain.Event{
		AppID:         appID,
		EventType:     input.EventType,
		EventCategory: recorded.Category,
		Qualifier:     nonEmpty(input.Qualifier),
		Value:         1,
		Country:       nonEmpty(input.Country),
	}
	if input.Value != nil {
		event.Value = *input.Value
	}
	if input.Timestamp != nil {
		event.Timestamp = *input.Timestamp
	}
	return event
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
