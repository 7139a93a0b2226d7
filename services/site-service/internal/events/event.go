// Package events publishes domain events about new submissions to Kafka.
// The topic name equals the event type, one event kind per topic.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	otelx "github.com/md-rashed-zaman/ambersite/libs/otel"
)

const (
	TypeAppointmentBooked = "appointment.booked.v1"
	TypeContactReceived   = "contact.received.v1"
)

type Event struct {
	ID          string
	Type        string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time

	// Trace context of the request that produced the event.
	Traceparent string
	Tracestate  string
}

// New encodes payload as JSON and captures the trace context of ctx.
func New(ctx context.Context, eventType, aggregateID string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("encoding %s payload: %w", eventType, err)
	}
	traceparent, tracestate := otelx.TraceContextStrings(ctx)
	return Event{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     raw,
		OccurredAt:  time.Now().UTC(),
		Traceparent: traceparent,
		Tracestate:  tracestate,
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
