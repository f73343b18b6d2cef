// Package events publishes and consumes adhesion lifecycle events over Kafka.
package events

import (
	"context"
	"encoding/json"

	"github.com/cenkalti/backoff/v4"
	"github.com/drosetti/interbanking/internal/company/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

type EventType string

const (
	AdhesionRegistered EventType = "adhesion_registered"
	AdhesionApproved   EventType = "adhesion_approved"
	AdhesionRejected   EventType = "adhesion_rejected"
)

type Event struct {
	Type     EventType
	Adhesion *models.Adhesion
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer sends adhesion events asynchronously through a buffered channel so
// publishing never blocks the registration path. When the queue is full events
// are dropped with a warning rather than backpressuring the caller.
type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer dials the broker (retrying with exponential backoff while it
// comes up), ensures the topic exists, and starts the send loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	var conn *kafka.Conn
	err := backoff.Retry(func() error {
		var dialErr error
		conn, dialErr = kafka.Dial("tcp", brokers[0])
		return dialErr
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	topicConfigs := []kafka.TopicConfig{
		{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		},
	}

	if err := conn.CreateTopics(topicConfigs...); err != nil {
		logger.Warn("failed to create topic (may already exist)", zap.Error(err))
	}
	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
			Topic:    topic,
		},
		events:    make(chan Event, 1000),
		logger:    logger.Named("kafka_producer"),
		closeChan: make(chan struct{}),
	}

	go p.eventLoop()
	return p, nil
}

func (p *Producer) Produce(eventType EventType, adhesion *models.Adhesion) {
	select {
	case p.events <- Event{Type: eventType, Adhesion: adhesion}:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(eventType)),
			zap.String("adhesion_id", adhesion.ID()),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(map[string]interface{}{
		"type":     string(event.Type),
		"adhesion": event.Adhesion.JSON(),
	})
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("adhesion_id", event.Adhesion.ID()),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Adhesion.ID()),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("adhesion_id", event.Adhesion.ID()),
		)
		return
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}
