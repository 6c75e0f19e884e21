package queue

import (
	"github.com/BarkinBalci/app-stats-service/internal/dto"
)

// BatchMessage is the body of one queued ingestion message. Every message
// is recorded as one atomic batch by the consumer.
type BatchMessage struct {
	BatchID string                   `json:"batch_id"`
	AppID   string                   `json:"app_id"`
	Events  []dto.RecordEventRequest `json:"events"`
}
