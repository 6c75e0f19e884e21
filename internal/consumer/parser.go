package consumer

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/BarkinBalci/app-stats-service/internal/queue"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

// JSONBatchParser implements MessageParser for JSON-formatted batch messages
type JSONBatchParser struct{}

// NewJSONBatchParser creates a new JSON batch parser
func NewJSONBatchParser() *JSONBatchParser {
	return &JSONBatchParser{}
}

// Parse parses a JSON message body into a batch. Messages that could never
// be recorded are rejected here so they are not redelivered.
func (p *JSONBatchParser) Parse(body []byte) (*queue.BatchMessage, error) {
	var batch queue.BatchMessage
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if batch.AppID == "" {
		return nil, errors.New("message has no app_id")
	}
	if len(batch.Events) == 0 {
		return nil, errors.New("message has no events")
	}
	if len(batch.Events) > service.MaxBatchSize {
		return nil, fmt.Errorf("message has %d events, limit is %d", len(batch.Events), service.MaxBatchSize)
	}

	if batch.BatchID == "" {
		batch.BatchID = uuid.NewString()
	}

	return &batch, nil
}
