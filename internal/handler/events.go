package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/dto"
	"github.com/BarkinBalci/app-stats-service/internal/queue"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

// recordEvent handles POST /apps/:app_id/events
func (h *Handler) recordEvent(c *gin.Context) {
	appID := c.Param("app_id")

	var req dto.RecordEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid event request")
		return
	}

	result, err := h.recorder.Record(c.Request.Context(), appID, req.ToEventInput())
	if err != nil {
		h.serviceError(c, err, "Failed to record event",
			zap.String("app_id", appID),
			zap.String("event_type", req.EventType))
		return
	}

	c.JSON(http.StatusOK, dto.RecordEventResponse{
		Metric:          result.Metric,
		Category:        result.Category,
		CumulativeValue: result.CumulativeValue,
	})
}

// recordBatch handles POST /apps/:app_id/events/batch
func (h *Handler) recordBatch(c *gin.Context) {
	appID := c.Param("app_id")

	var req dto.RecordBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid batch request")
		return
	}

	result, err := h.recorder.RecordBatch(c.Request.Context(), appID, dto.ToEventInputs(req.Events))
	if err != nil {
		h.serviceError(c, err, "Failed to record event batch",
			zap.String("app_id", appID),
			zap.Int("event_count", len(req.Events)))
		return
	}

	response := dto.RecordBatchResponse{
		Recorded: result.Recorded,
		Metrics:  make([]dto.RecordedMetric, len(result.Metrics)),
	}
	for i, metric := range result.Metrics {
		response.Metrics[i] = dto.RecordedMetric{
			Metric:   metric.Metric,
			Category: metric.Category,
		}
	}

	c.JSON(http.StatusOK, response)
}

// publishBatch handles POST /apps/:app_id/events/async
func (h *Handler) publishBatch(c *gin.Context) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "unavailable",
			Message: "asynchronous ingestion is not configured",
		})
		return
	}

	appID := c.Param("app_id")

	var req dto.RecordBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err, "Invalid async batch request")
		return
	}

	// Reject now what the consumer would drop later
	if err := service.ValidateBatch(appID, dto.ToEventInputs(req.Events)); err != nil {
		h.serviceError(c, err, "Invalid async batch")
		return
	}

	// Queued events are timed at acceptance, not when the consumer gets to them
	now := time.Now().Unix()
	for i := range req.Events {
		if req.Events[i].Timestamp == nil {
			req.Events[i].Timestamp = &now
		}
	}

	batch := &queue.BatchMessage{
		BatchID: uuid.NewString(),
		AppID:   appID,
		Events:  req.Events,
	}

	if err := h.publisher.PublishBatch(c.Request.Context(), batch); err != nil {
		h.serviceError(c, err, "Failed to publish event batch",
			zap.String("app_id", appID),
			zap.String("batch_id", batch.BatchID))
		return
	}

	h.log.Info("Event batch queued",
		zap.String("app_id", appID),
		zap.String("batch_id", batch.BatchID),
		zap.Int("event_count", len(req.Events)))

	c.JSON(http.StatusAccepted, dto.AsyncEventsResponse{
		BatchID:  batch.BatchID,
		Accepted: len(req.Events),
		Status:   "accepted",
	})
}
