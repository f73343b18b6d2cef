package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// auditEvent is the wire form of a published adhesion event. The adhesion
// payload is kept as raw JSON; the audit path only inspects the type.
type auditEvent struct {
	Type     EventType       `json:"type"`
	Adhesion json.RawMessage `json:"adhesion"`
}

// Consumer reads adhesion events from Kafka, e.g. for the audit log.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler func(context.Context, EventType, json.RawMessage) error
}

// NewConsumer builds a consumer for the given topic and consumer group.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger: logger.Named("kafka_consumer"),
	}
}

// RegisterHandler sets the callback invoked for each decoded event. Must be
// called before Start.
func (c *Consumer) RegisterHandler(fn func(context.Context, EventType, json.RawMessage) error) {
	c.handler = fn
}

// Start consumes messages until ctx is cancelled. Malformed or unhandled
// messages are logged and skipped; offsets are committed only after the
// handler succeeds.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("Failed to fetch message", zap.Error(err))
				continue
			}

			var event auditEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				c.logger.Error("Failed to parse event",
					zap.Error(err),
					zap.ByteString("value", msg.Value),
				)
				continue
			}

			if err := c.handler(ctx, event.Type, event.Adhesion); err != nil {
				c.logger.Error("Failed to handle event",
					zap.Error(err),
					zap.String("event_type", string(event.Type)),
				)
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("Failed to commit message",
					zap.Error(err),
					zap.String("event_type", string(event.Type)),
				)
			}
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("Failed to close Kafka reader", zap.Error(err))
	}
}
