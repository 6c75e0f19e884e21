package consumer

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/queue"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

const stageBufferSize = 100

// Consumer orchestrates a pipeline of stages to process SQS messages
type Consumer struct {
	receiver    *Receiver
	parser      *ParserStage
	batchWriter *BatchWriter
}

// NewConsumer creates a new consumer with a pipeline architecture. archiver may be nil.
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, recorder service.EventRecorder, archiver EventArchiver, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     10,
		WaitTimeSeconds: 20,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONBatchParser(), log)

	batchWriter := NewBatchWriter(recorder, archiver, BatchWriterConfig{
		MaxBatchSize: cfg.Consumer.BatchSizeMax,
		FlushTimeout: time.Duration(cfg.Consumer.BatchTimeoutSec) * time.Second,
	}, log)

	return &Consumer{
		receiver:    receiver,
		parser:      parser,
		batchWriter: batchWriter,
	}
}

// Start runs the pipeline until ctx is cancelled and every stage has drained
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, stageBufferSize)
	envelopeChan := make(chan *Envelope, stageBufferSize)

	var wg sync.WaitGroup
	wg.Add(3)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Record each envelope as one batch
	go func() {
		defer wg.Done()
		c.batchWriter.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
