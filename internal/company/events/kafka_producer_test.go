package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/drosetti/interbanking/internal/company/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// MockKafkaWriter implements KafkaWriter for testing
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testAdhesion(t *testing.T, id string) *models.Adhesion {
	t.Helper()
	company, err := models.NewCompanyPyme("c-1", "Test Pyme", "20-12345678-5", "test@pyme.com", 10, 1000000, time.Time{})
	require.NoError(t, err)
	adhesion, err := models.NewAdhesion(id, company, time.Time{}, models.StatusPending)
	require.NoError(t, err)
	return adhesion
}

func TestProducer_Produce(t *testing.T) {
	t.Run("successful produce", func(t *testing.T) {
		producer := &Producer{
			events: make(chan Event, 10),
			logger: zaptest.NewLogger(t),
		}

		producer.Produce(AdhesionRegistered, testAdhesion(t, "a-1"))

		assert.Equal(t, 1, len(producer.events))
	})

	t.Run("dropped event when queue full", func(t *testing.T) {
		core, recorded := observer.New(zap.WarnLevel)
		producer := &Producer{
			events: make(chan Event, 1),
			logger: zap.New(core),
		}
		adhesion := testAdhesion(t, "a-1")

		// Fill the channel
		producer.Produce(AdhesionRegistered, adhesion)
		producer.Produce(AdhesionRegistered, adhesion) // This should be dropped

		assert.Equal(t, 1, recorded.FilterMessage("Kafka producer queue full, dropping event").Len())
	})
}

func TestProducer_SendEvent(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	adhesion := testAdhesion(t, "a-42")

	producer := &Producer{
		writer: mockWriter,
		logger: zaptest.NewLogger(t),
	}

	t.Run("successful send", func(t *testing.T) {
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

		producer.sendEvent(context.Background(), Event{Type: AdhesionRegistered, Adhesion: adhesion})

		require.Len(t, mockWriter.Calls, 1)
		msgs := mockWriter.Calls[0].Arguments.Get(1).([]kafka.Message)
		require.Len(t, msgs, 1)
		assert.Equal(t, []byte(adhesion.ID()), msgs[0].Key)

		var payload struct {
			Type     string                 `json:"type"`
			Adhesion map[string]interface{} `json:"adhesion"`
		}
		require.NoError(t, json.Unmarshal(msgs[0].Value, &payload))
		assert.Equal(t, string(AdhesionRegistered), payload.Type)
		assert.Equal(t, "a-42", payload.Adhesion["id"])
		assert.Equal(t, "PENDING", payload.Adhesion["status"])
	})

	t.Run("serialization error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)

		oldMarshal := jsonMarshal
		jsonMarshal = func(_ interface{}) ([]byte, error) {
			return nil, errors.New("mock marshal error")
		}
		defer func() { jsonMarshal = oldMarshal }()

		producer.sendEvent(context.Background(), Event{Type: AdhesionRegistered, Adhesion: adhesion})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to serialize event").Len())
		assert.Equal(t, 1, recorded.FilterField(zap.String("adhesion_id", adhesion.ID())).Len())
	})

	t.Run("write error", func(t *testing.T) {
		core, recorded := observer.New(zap.ErrorLevel)
		producer.logger = zap.New(core)
		mockWriter.ExpectedCalls = nil
		mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("kafka error"))

		producer.sendEvent(context.Background(), Event{Type: AdhesionApproved, Adhesion: adhesion})

		assert.Equal(t, 1, recorded.FilterMessage("Failed to produce event").Len())
	})
}

func TestProducer_Close(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("Close").Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		closeChan: make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}

	producer.Close()

	select {
	case <-producer.closeChan:
	default:
		t.Error("closeChan not closed")
	}

	mockWriter.AssertCalled(t, "Close")
}

func TestProducer_EventLoop(t *testing.T) {
	mockWriter := new(MockKafkaWriter)
	mockWriter.On("WriteMessages", mock.Anything, mock.Anything).Return(nil)

	producer := &Producer{
		writer:    mockWriter,
		events:    make(chan Event, 1),
		closeChan: make(chan struct{}),
		logger:    zaptest.NewLogger(t),
	}

	go producer.eventLoop()
	defer close(producer.closeChan)

	producer.events <- Event{Type: AdhesionRejected, Adhesion: testAdhesion(t, "a-loop")}

	// Give the loop time to drain the channel
	time.Sleep(100 * time.Millisecond)

	mockWriter.AssertCalled(t, "WriteMessages", mock.Anything, mock.Anything)
}
