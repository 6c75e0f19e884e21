package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/app-stats-service/internal/dto"
	"github.com/BarkinBalci/app-stats-service/internal/queue"
)

// MockMessageParser is a mock implementation of MessageParser
type MockMessageParser struct {
	mock.Mock
}

func (m *MockMessageParser) Parse(body []byte) (*queue.BatchMessage, error) {
	args := m.Called(body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queue.BatchMessage), args.Error(1)
}

func testBatch(batchID, appID string, eventTypes ...string) *queue.BatchMessage {
	events := make([]dto.RecordEventRequest, len(eventTypes))
	for i, eventType := range eventTypes {
		events[i] = dto.RecordEventRequest{EventType: eventType}
	}
	return &queue.BatchMessage{BatchID: batchID, AppID: appID, Events: events}
}

// drainEnvelopes collects envelopes until out closes or the timeout passes
func drainEnvelopes(out <-chan *Envelope, timeout time.Duration) []*Envelope {
	var envelopes []*Envelope
	deadline := time.After(timeout)
	for {
		select {
		case envelope, ok := <-out:
			if !ok {
				return envelopes
			}
			envelopes = append(envelopes, envelope)
		case <-deadline:
			return envelopes
		}
	}
}

func TestParserStage_Start_Success(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)

	parserStage := NewParserStage(mockConsumer, mockParser, zap.NewNop())

	body := `{"batch_id":"b-1","app_id":"app1","events":[{"event_type":"install"}]}`
	mockParser.On("Parse", []byte(body)).Return(testBatch("b-1", "app1", "install"), nil)

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(context.Background(), in, out)

	in <- batchMessage("msg-1", body)
	close(in)

	envelopes := drainEnvelopes(out, 100*time.Millisecond)

	require.Len(t, envelopes, 1)
	assert.Equal(t, "msg-1", envelopes[0].MessageID)
	assert.Equal(t, "b-1", envelopes[0].Batch.BatchID)
	assert.Equal(t, "app1", envelopes[0].Batch.AppID)

	mockParser.AssertExpectations(t)
	mockConsumer.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)
}

func TestParserStage_Envelope_AckDeletesMessage(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)

	parserStage := NewParserStage(mockConsumer, mockParser, zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("DeleteMessage", mock.Anything, mock.MatchedBy(func(input *sqs.DeleteMessageInput) bool {
		return aws.ToString(input.QueueUrl) == testQueueURL &&
			aws.ToString(input.ReceiptHandle) == "receipt-msg-1"
	})).Return(&sqs.DeleteMessageOutput{}, nil).Once()
	mockParser.On("Parse", mock.Anything).Return(testBatch("b-1", "app1", "tap"), nil)

	envelope := parserStage.parseMessage(context.Background(), batchMessage("msg-1", "{}"))
	require.NotNil(t, envelope)

	// Nack leaves the message for redelivery
	require.NoError(t, envelope.Nack(context.Background()))
	mockConsumer.AssertNotCalled(t, "DeleteMessage", mock.Anything, mock.Anything)

	require.NoError(t, envelope.Ack(context.Background()))
	mockConsumer.AssertExpectations(t)
}

func TestParserStage_Start_MalformedMessage(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)

	parserStage := NewParserStage(mockConsumer, mockParser, zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)
	mockParser.On("Parse", []byte(`{invalid json}`)).Return(nil, errors.New("invalid JSON format"))

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(context.Background(), in, out)

	in <- batchMessage("msg-1", `{invalid json}`)
	close(in)

	envelopes := drainEnvelopes(out, 100*time.Millisecond)

	assert.Empty(t, envelopes, "Should not receive any envelope for malformed message")
	mockParser.AssertExpectations(t)
	mockConsumer.AssertNumberOfCalls(t, "DeleteMessage", 1)
}

func TestParserStage_Start_DeleteMessageFailure(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	mockParser := new(MockMessageParser)

	parserStage := NewParserStage(mockConsumer, mockParser, zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(nil, errors.New("failed to delete message from SQS"))
	mockParser.On("Parse", []byte(`{invalid}`)).Return(nil, errors.New("invalid JSON"))

	in := make(chan types.Message, 1)
	out := make(chan *Envelope, 1)

	go parserStage.Start(context.Background(), in, out)

	in <- batchMessage("msg-1", `{invalid}`)
	close(in)

	envelopes := drainEnvelopes(out, 100*time.Millisecond)

	assert.Empty(t, envelopes)
	mockConsumer.AssertCalled(t, "DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput"))
}

func TestParserStage_Start_ContextCancellation(t *testing.T) {
	parserStage := NewParserStage(new(MockQueueConsumer), new(MockMessageParser), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := make(chan types.Message)
	out := make(chan *Envelope, 1)

	parserStage.Start(ctx, in, out)

	_, ok := <-out
	assert.False(t, ok, "Output channel should be closed after context cancellation")
}

func TestParserStage_Start_InputChannelClosed(t *testing.T) {
	parserStage := NewParserStage(new(MockQueueConsumer), new(MockMessageParser), zap.NewNop())

	in := make(chan types.Message)
	out := make(chan *Envelope, 1)
	close(in)

	parserStage.Start(context.Background(), in, out)

	_, ok := <-out
	assert.False(t, ok, "Output channel should be closed when input channel is closed")
}

func TestParserStage_Start_MultipleMessages(t *testing.T) {
	mockConsumer := new(MockQueueConsumer)
	parserStage := NewParserStage(mockConsumer, NewJSONBatchParser(), zap.NewNop())

	mockConsumer.On("QueueURL").Return(testQueueURL)
	mockConsumer.On("DeleteMessage", mock.Anything, mock.AnythingOfType("*sqs.DeleteMessageInput")).
		Return(&sqs.DeleteMessageOutput{}, nil)

	in := make(chan types.Message, 3)
	out := make(chan *Envelope, 3)

	go parserStage.Start(context.Background(), in, out)

	in <- batchMessage("msg-1", `{"batch_id":"b-1","app_id":"app1","events":[{"event_type":"install"}]}`)
	in <- batchMessage("msg-2", `{"app_id":"app1","events":[]}`)
	in <- batchMessage("msg-3", `{"batch_id":"b-3","app_id":"app2","events":[{"event_type":"tap"},{"event_type":"login"}]}`)
	close(in)

	envelopes := drainEnvelopes(out, 100*time.Millisecond)

	// The empty batch is deleted instead of forwarded
	require.Len(t, envelopes, 2)
	assert.Equal(t, "b-1", envelopes[0].Batch.BatchID)
	assert.Equal(t, "b-3", envelopes[1].Batch.BatchID)
	assert.Len(t, envelopes[1].Batch.Events, 2)
	mockConsumer.AssertNumberOfCalls(t, "DeleteMessage", 1)
}
