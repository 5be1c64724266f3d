package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	closed   bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	t.Parallel()
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventInquiryCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventInquiryCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventVisitRequested, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	if err := d.Publish(context.Background(), New(EventInquiryCreated, "p1", nil, nil)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestKafkaSinkPublishesKeyedJSON(t *testing.T) {
	t.Parallel()
	writer := &recordingWriter{}
	sink := NewKafkaSinkWithWriter(writer, "goldennest")
	d := NewInMemoryDispatcher(nil)
	sink.Attach(d)

	actor := "u1"
	event := New(EventPropertyStatusChanged, "p42", &actor, PropertyStatusChangedPayload{
		OldStatus: "PENDING",
		NewStatus: "APPROVED",
	})
	if err := d.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(writer.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(writer.messages))
	}
	msg := writer.messages[0]
	if msg.Topic != "goldennest.property_status_changed" {
		t.Fatalf("topic = %q", msg.Topic)
	}
	if string(msg.Key) != "p42" {
		t.Fatalf("key = %q", msg.Key)
	}
	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded["id"] != event.ID || decoded["type"] != "property_status_changed" {
		t.Fatalf("payload = %v", decoded)
	}

	if err := sink.Close(); err != nil || !writer.closed {
		t.Fatalf("close: %v closed=%v", err, writer.closed)
	}
}

func TestKafkaSinkRequiresBrokers(t *testing.T) {
	t.Parallel()
	if _, err := NewKafkaSink(nil, "x", nil); err == nil {
		t.Fatalf("expected error without brokers")
	}
	if got := NewKafkaSinkWithWriter(&recordingWriter{}, "").Topic(EventVisitRequested); got != "visit_requested" {
		t.Fatalf("topic = %q", got)
	}
}

func TestKafkaWriterDoesNotBlockPublishers(t *testing.T) {
	t.Parallel()
	sink, err := NewKafkaSink([]string{"localhost:9092"}, "goldennest", nil)
	if err != nil {
		t.Fatalf("NewKafkaSink: %v", err)
	}
	t.Cleanup(func() { _ = sink.Close() })
	w, ok := sink.writer.(*kafka.Writer)
	if !ok {
		t.Fatalf("writer = %T, want *kafka.Writer", sink.writer)
	}
	if !w.Async {
		t.Fatalf("writer must be async")
	}
	if w.BatchTimeout <= 0 || w.BatchTimeout > 50*time.Millisecond {
		t.Fatalf("BatchTimeout = %v", w.BatchTimeout)
	}
	if w.Completion == nil {
		t.Fatalf("Completion callback missing; delivery errors would be dropped")
	}
	w.Completion([]kafka.Message{{Topic: "goldennest.property_created"}}, errors.New("broker down"))
}
