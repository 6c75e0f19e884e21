package consumer

import (
	"context"

	"github.com/BarkinBalci/app-stats-service/internal/domain"
	"github.com/BarkinBalci/app-stats-service/internal/queue"
)

// MessageParser defines the interface for parsing raw message bytes into batches
type MessageParser interface {
	Parse(body []byte) (*queue.BatchMessage, error)
}

// EventArchiver mirrors committed events into long-term storage
type EventArchiver interface {
	ArchiveBatch(ctx context.Context, batchID string, events []*domain.Event) error
}
