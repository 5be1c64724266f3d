package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the subset of kafka.Writer used by the sink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink forwards dispatched events to Kafka topics named <prefix>.<event_type>.
type KafkaSink struct {
	writer MessageWriter
	prefix string
}

// NewKafkaSink builds a sink writing to the given brokers. Writes are queued
// asynchronously so publishing never blocks the request that raised the event;
// delivery failures are logged by the writer's completion callback.
func NewKafkaSink(brokers []string, prefix string, logger *zap.Logger) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka sink requires at least one broker")
	}
	return NewKafkaSinkWithWriter(newKafkaWriter(brokers, logger), prefix), nil
}

const (
	kafkaBatchTimeout = 10 * time.Millisecond
	kafkaWriteTimeout = 5 * time.Second
)

func newKafkaWriter(brokers []string, logger *zap.Logger) *kafka.Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		Async:                  true,
		BatchTimeout:           kafkaBatchTimeout,
		WriteTimeout:           kafkaWriteTimeout,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, msg := range messages {
				logger.Error("kafka delivery failed",
					zap.String("topic", msg.Topic),
					zap.ByteString("key", msg.Key),
					zap.Error(err),
				)
			}
		},
	}
}

// NewKafkaSinkWithWriter wraps an existing writer.
func NewKafkaSinkWithWriter(writer MessageWriter, prefix string) *KafkaSink {
	return &KafkaSink{writer: writer, prefix: prefix}
}

// Topic returns the topic an event type is published to.
func (s *KafkaSink) Topic(eventType EventType) string {
	if s.prefix == "" {
		return string(eventType)
	}
	return s.prefix + "." + string(eventType)
}

// Handle publishes one event; events for the same listing share a partition.
func (s *KafkaSink) Handle(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Topic: s.Topic(event.Type),
		Key:   []byte(event.PropertyID),
		Value: payload,
		Time:  ts,
	})
}

// Attach subscribes the sink to every event type.
func (s *KafkaSink) Attach(dispatcher Dispatcher) {
	for _, eventType := range AllEventTypes() {
		dispatcher.Subscribe(eventType, s.Handle)
	}
}

// Close flushes and closes the writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
