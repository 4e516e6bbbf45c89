package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/contacerta/backend/internal/application/adapter"
)

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher publishes expense lifecycle events to a Kafka topic.
// Messages are keyed by owner so one owner's events stay ordered.
type KafkaEventPublisher struct {
	writer       messageWriter
	writeTimeout time.Duration
}

// NewKafkaEventPublisher creates a publisher writing to topic on brokers.
func NewKafkaEventPublisher(brokers []string, topic string, writeTimeout time.Duration) *KafkaEventPublisher {
	return newKafkaEventPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
	}, writeTimeout)
}

func newKafkaEventPublisher(writer messageWriter, writeTimeout time.Duration) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer:       writer,
		writeTimeout: writeTimeout,
	}
}

// PublishExpenseEvent writes the event as a JSON message.
func (p *KafkaEventPublisher) PublishExpenseEvent(ctx context.Context, event adapter.ExpenseEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode expense event: %w", err)
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OwnerID.String()),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Close flushes pending messages and closes the writer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

// NoopEventPublisher discards every event. Used when no brokers are configured.
type NoopEventPublisher struct{}

// PublishExpenseEvent implements adapter.EventPublisher.
func (NoopEventPublisher) PublishExpenseEvent(context.Context, adapter.ExpenseEvent) error {
	return nil
}

var (
	_ adapter.EventPublisher = (*KafkaEventPublisher)(nil)
	_ adapter.EventPublisher = NoopEventPublisher{}
)
