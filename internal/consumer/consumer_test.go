package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/config"
	"github.com/BarkinBalci/app-stats-service/internal/repository/sqlstore"
	"github.com/BarkinBalci/app-stats-service/internal/service"
)

func testConsumerConfig() *config.Config {
	return &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:    10,
			BatchTimeoutSec: 1,
		},
	}
}

func TestConsumer_Start_RecordsQueuedBatch(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	log := zap.NewNop()

	store, err := sqlstore.Open(context.Background(), config.Database{
		Driver: sqlstore.DriverSQLite,
		DSN:    ":memory:",
	}, log)
	require.NoError(t, err)
	defer store.Close()

	recorder := service.NewRecorder(store, log)
	stats := service.NewStats(store, log)

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{
			batchMessage("msg-1", `{"batch_id":"b-1","app_id":"app1","events":[
				{"event_type":"purchase","qualifier":"gold","value":999,"timestamp":1710504000},
				{"event_type":"purchase","qualifier":"gold","value":999,"timestamp":1710504060}
			]}`),
			batchMessage("msg-2", `{"batch_id":"b-2","app_id":"app1","events":[{"event_type":""}]}`),
		}}, nil).Once()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)

	consumer := NewConsumer(testConsumerConfig(), mockConsumer, recorder, nil, log)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	err = consumer.Start(ctx)
	require.NoError(t, err)

	list, err := stats.ListStats(context.Background(), "app1", service.StatsFilter{}, service.Page{}, service.FormatSimple)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"purchase.gold": 1998}, list.Simple)

	// Both messages are removed: one recorded, one permanently rejected
	mockConsumer.AssertNumberOfCalls(t, "DeleteMessage", 2)
}

func TestConsumer_Start_GracefulShutdown(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockRecorder := new(MockRecorder)

	mockConsumer.On("QueueURL").Return(testQueueURL).Maybe()
	mockConsumer.On("ReceiveMessages", mock.Anything, mock.AnythingOfType("*sqs.ReceiveMessageInput")).
		Return(&sqs.ReceiveMessageOutput{Messages: []types.Message{}}, nil).Maybe()

	consumer := NewConsumer(testConsumerConfig(), mockConsumer, mockRecorder, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan bool)
	go func() {
		err := consumer.Start(ctx)
		assert.NoError(t, err)
		done <- true
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Graceful shutdown took too long")
	}

	mockRecorder.AssertNotCalled(t, "RecordBatch", mock.Anything, mock.Anything, mock.Anything)
}

func TestConsumer_NewConsumer_ComponentInitialization(t *testing.T) {
	cfg := &config.Config{
		Consumer: config.Consumer{
			BatchSizeMax:    100,
			BatchTimeoutSec: 5,
		},
	}

	consumer := NewConsumer(cfg, new(MockQueueConsumer), new(MockRecorder), new(MockArchiver), zap.NewNop())

	require.NotNil(t, consumer)
	assert.NotNil(t, consumer.receiver)
	assert.NotNil(t, consumer.parser)
	require.NotNil(t, consumer.batchWriter)
	assert.Equal(t, 100, consumer.batchWriter.config.MaxBatchSize)
	assert.Equal(t, 5*time.Second, consumer.batchWriter.config.FlushTimeout)
	assert.NotNil(t, consumer.batchWriter.archiver)
}
