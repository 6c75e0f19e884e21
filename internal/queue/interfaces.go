package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// QueuePublisher defines the interface for publishing event batches to a queue
type QueuePublisher interface {
	PublishBatch(ctx context.Context, batch *BatchMessage) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
