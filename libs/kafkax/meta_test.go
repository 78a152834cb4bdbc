package kafkax

import (
	"context"
	"reflect"
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestExtractEventMetaPrefersHeaders(t *testing.T) {
	msg := kafka.Message{
		Topic: "booking.created.v1",
		Key:   []byte("fallback-key"),
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte("evt-1")},
			{Key: "event_type", Value: []byte("booking.created.v1")},
		},
	}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "evt-1" {
		t.Fatalf("EventID = %q, want evt-1", meta.EventID)
	}
	if meta.EventType != "booking.created.v1" {
		t.Fatalf("EventType = %q, want booking.created.v1", meta.EventType)
	}
}

func TestExtractEventMetaFallsBackToKeyAndTopic(t *testing.T) {
	msg := kafka.Message{Topic: "booking.cancelled.v1", Key: []byte("evt-9")}
	meta := ExtractEventMeta(msg)
	if meta.EventID != "evt-9" {
		t.Fatalf("EventID = %q, want evt-9", meta.EventID)
	}
	if meta.EventType != "booking.cancelled.v1" {
		t.Fatalf("EventType = %q, want booking.cancelled.v1", meta.EventType)
	}
}

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, kafka-2:9092 ,, ")
	want := []string{"kafka-1:9092", "kafka-2:9092"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitBrokers = %v, want %v", got, want)
	}
	if got := SplitBrokers(""); got != nil {
		t.Fatalf("SplitBrokers(\"\") = %v, want nil", got)
	}
}

func TestTraceHeaderCarrierRoundTrip(t *testing.T) {
	carrier := &kafkaHeaderCarrier{}
	carrier.Set("traceparent", "00-abc-def-01")
	carrier.Set("traceparent", "00-abc-def-02")
	if len(carrier.headers) != 1 {
		t.Fatalf("headers = %d, want 1 after overwrite", len(carrier.headers))
	}
	if got := carrier.Get("traceparent"); got != "00-abc-def-02" {
		t.Fatalf("Get = %q, want last written value", got)
	}
	if keys := carrier.Keys(); len(keys) != 1 || keys[0] != "traceparent" {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestInjectTraceHeadersKeepsExisting(t *testing.T) {
	in := []kafka.Header{{Key: "event_id", Value: []byte("evt-1")}}
	out := InjectTraceHeaders(context.Background(), in)
	if HeaderValue(out, "event_id") != "evt-1" {
		t.Fatal("existing header lost during injection")
	}
}
