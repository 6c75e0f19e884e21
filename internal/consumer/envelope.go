package consumer

import (
	"context"

	"github.com/BarkinBalci/app-stats-service/internal/queue"
)

// Envelope wraps a queued batch with acknowledgment callbacks
type Envelope struct {
	Batch     *queue.BatchMessage
	MessageID string
	ack       func(context.Context) error
	nack      func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(batch *queue.BatchMessage, messageID string, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Batch:     batch,
		MessageID: messageID,
		ack:       ack,
		nack:      nack,
	}
}

// Ack removes the message from the queue
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack leaves the message for redelivery
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
