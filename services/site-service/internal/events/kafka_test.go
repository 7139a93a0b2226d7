package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	closed bool
	err    error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) snapshot() ([]kafka.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...), w.closed
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestKafkaPublisher_FlushesOnShutdown(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, discardLogger(), KafkaConfig{BatchSize: 10, FlushEvery: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	evt, err := New(context.Background(), TypeContactReceived, "c-1", map[string]string{"subject": "general"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}

	msgs, closed := w.snapshot()
	if !closed {
		t.Fatal("writer not closed")
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.Topic != TypeContactReceived || string(msg.Key) != "c-1" {
		t.Fatalf("unexpected message routing: topic=%s key=%s", msg.Topic, msg.Key)
	}
	meta := kafkax.ExtractEventMeta(msg)
	if meta.EventID != evt.ID || meta.EventType != TypeContactReceived {
		t.Fatalf("unexpected meta %+v", meta)
	}
	var payload map[string]string
	if err := json.Unmarshal(msg.Value, &payload); err != nil || payload["subject"] != "general" {
		t.Fatalf("unexpected payload %s (%v)", msg.Value, err)
	}
}

func TestKafkaPublisher_BatchFull(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, discardLogger(), KafkaConfig{BatchSize: 2, FlushEvery: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.Run(ctx)

	for _, id := range []string{"a-1", "a-2"} {
		evt, _ := New(ctx, TypeAppointmentBooked, id, map[string]string{"id": id})
		if err := p.Publish(ctx, evt); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if msgs, _ := w.snapshot(); len(msgs) == 2 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("batch was not written once full")
}

func TestKafkaPublisher_QueueFull(t *testing.T) {
	p := newKafkaPublisher(&fakeWriter{}, discardLogger(), KafkaConfig{QueueSize: 1})
	evt, _ := New(context.Background(), TypeContactReceived, "c-1", struct{}{})

	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("first Publish failed: %v", err)
	}
	if err := p.Publish(context.Background(), evt); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}

func TestKafkaPublisher_WriteErrorIsLoggedNotFatal(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newKafkaPublisher(w, discardLogger(), KafkaConfig{BatchSize: 1, FlushEvery: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	evt, _ := New(ctx, TypeContactReceived, "c-1", struct{}{})
	_ = p.Publish(ctx, evt)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if _, closed := w.snapshot(); !closed {
		t.Fatal("writer not closed after errors")
	}
}

func TestKafkaPublisher_RejectsAfterShutdown(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, discardLogger(), KafkaConfig{BatchSize: 10, FlushEvery: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	evt, _ := New(context.Background(), TypeContactReceived, "c-late", struct{}{})
	if err := p.Publish(context.Background(), evt); !errors.Is(err, ErrPublisherClosed) {
		t.Fatalf("expected ErrPublisherClosed, got %v", err)
	}
	if n := len(p.queue); n != 0 {
		t.Fatalf("event queued after shutdown: %d", n)
	}
	if msgs, closed := w.snapshot(); !closed || len(msgs) != 0 {
		t.Fatalf("unexpected writer state closed=%v msgs=%d", closed, len(msgs))
	}
}
