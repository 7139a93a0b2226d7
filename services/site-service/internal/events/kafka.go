package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/kafkax"
	otelx "github.com/md-rashed-zaman/ambersite/libs/otel"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/segmentio/kafka-go"
)

var (
	ErrQueueFull       = errors.New("event queue full")
	ErrPublisherClosed = errors.New("event publisher closed")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaConfig struct {
	Brokers   []string
	QueueSize int
	BatchSize int
	// FlushEvery bounds how long a queued event waits for a batch to fill.
	FlushEvery time.Duration
}

// KafkaPublisher queues events in memory and writes them to Kafka from Run,
// so request handlers never wait on the brokers.
type KafkaPublisher struct {
	writer     messageWriter
	logger     *slog.Logger
	queue      chan Event
	batchSize  int
	flushEvery time.Duration

	// closed is set once Run stops accepting events; guarded by mu.
	mu     sync.RWMutex
	closed bool
}

func NewKafkaPublisher(logger *slog.Logger, cfg KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           5 * time.Second,
	}
	return newKafkaPublisher(w, logger, cfg)
}

func newKafkaPublisher(w messageWriter, logger *slog.Logger, cfg KafkaConfig) *KafkaPublisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 500 * time.Millisecond
	}
	return &KafkaPublisher{
		writer:     w,
		logger:     logger,
		queue:      make(chan Event, cfg.QueueSize),
		batchSize:  cfg.BatchSize,
		flushEvery: cfg.FlushEvery,
	}
}

// Publish enqueues evt without blocking. After Run has returned it fails
// with ErrPublisherClosed.
func (p *KafkaPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		metrics.IncEventPublished(evt.Type, "dropped")
		return ErrPublisherClosed
	}
	select {
	case p.queue <- evt:
		return nil
	default:
		metrics.IncEventPublished(evt.Type, "dropped")
		return ErrQueueFull
	}
}

// Run writes queued events until ctx is done, then stops accepting new
// events, flushes what is left and closes the writer. Cancel ctx only once
// nothing publishes any more (after the HTTP server has shut down).
func (p *KafkaPublisher) Run(ctx context.Context) {
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Warn("kafka writer close failed", "err", err)
		}
	}()

	ticker := time.NewTicker(p.flushEvery)
	defer ticker.Stop()

	batch := make([]Event, 0, p.batchSize)
	for {
		select {
		case <-ctx.Done():
			p.mu.Lock()
			p.closed = true
			p.mu.Unlock()
			batch = p.drain(batch)
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			p.flush(flushCtx, batch)
			cancel()
			return
		case evt := <-p.queue:
			batch = append(batch, evt)
			if len(batch) >= p.batchSize {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				p.flush(ctx, batch)
				batch = batch[:0]
			}
		}
	}
}

func (p *KafkaPublisher) drain(batch []Event) []Event {
	for {
		select {
		case evt := <-p.queue:
			batch = append(batch, evt)
		default:
			return batch
		}
	}
}

func (p *KafkaPublisher) flush(ctx context.Context, batch []Event) {
	if len(batch) == 0 {
		return
	}
	msgs := make([]kafka.Message, 0, len(batch))
	for _, evt := range batch {
		msgs = append(msgs, toMessage(ctx, evt))
	}
	result := "ok"
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		result = "error"
		p.logger.Error("event publish failed", "err", err, "count", len(msgs))
	}
	for _, evt := range batch {
		metrics.IncEventPublished(evt.Type, result)
	}
}

func toMessage(ctx context.Context, evt Event) kafka.Message {
	msgCtx := otelx.ContextWithTraceContext(ctx, evt.Traceparent, evt.Tracestate)
	headers := kafkax.MetaHeaders(kafkax.EventMeta{EventID: evt.ID, EventType: evt.Type})
	return kafka.Message{
		Topic:   evt.Type,
		Key:     []byte(evt.AggregateID),
		Value:   evt.Payload,
		Time:    evt.OccurredAt,
		Headers: kafkax.InjectTraceHeaders(msgCtx, headers),
	}
}
