package kafkax

import (
	"context"
	"reflect"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092,, kafka-2:9092 ")
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	if SplitBrokers("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestExtractEventMetaFallsBack(t *testing.T) {
	msg := kafka.Message{Topic: "contact.received.v1", Key: []byte("c-1")}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "c-1" || meta.EventType != "contact.received.v1" {
		t.Fatalf("unexpected meta %+v", meta)
	}

	msg.Headers = MetaHeaders(EventMeta{EventID: "e-1", EventType: "x.v1"})
	meta = ExtractEventMeta(msg)
	if meta.EventID != "e-1" || meta.EventType != "x.v1" {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestTraceHeadersRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	ctx := propagation.TraceContext{}.Extract(context.Background(), propagation.MapCarrier{"traceparent": traceparent})
	headers := InjectTraceHeaders(ctx, []kafka.Header{{Key: HeaderEventID, Value: []byte("e-1")}})
	if got := HeaderValue(headers, "traceparent"); got != traceparent {
		t.Fatalf("expected traceparent header, got %q", got)
	}
	if got := HeaderValue(headers, HeaderEventID); got != "e-1" {
		t.Fatalf("existing header lost: %q", got)
	}
}
