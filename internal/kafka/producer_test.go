package kafka

import (
	"context"
	"encoding/json"
	"testing"

	skafka "github.com/segmentio/kafka-go"
)

// fakeWriter is a test writer that records messages written.
type fakeWriter struct {
	msgs []skafka.Message
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...skafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublish(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw)

	err := p.Publish(context.Background(), "auction-1", map[string]string{"event": "auction.created"})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}
	if string(fw.msgs[0].Key) != "auction-1" {
		t.Errorf("expected key auction-1, got %s", fw.msgs[0].Key)
	}

	var payload map[string]string
	if err := json.Unmarshal(fw.msgs[0].Value, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload["event"] != "auction.created" {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestPublishUnmarshalableValue(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw)

	if err := p.Publish(context.Background(), "k", func() {}); err == nil {
		t.Fatal("expected marshal error")
	}
	if len(fw.msgs) != 0 {
		t.Fatalf("nothing should be written on marshal failure, got %d", len(fw.msgs))
	}
}
