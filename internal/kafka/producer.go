package kafka

import (
	"context"
	"encoding/json"
	"log"

	skafka "github.com/segmentio/kafka-go"
)

// Publisher is what the quote and auction services see: fire an event,
// don't care how it travels. Keeps the services testable with a fake.
type Publisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
	Close() error
}

// writer abstracts the kafka-go writer so tests can swap in a recorder.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// Producer publishes pricing/auction events to one Kafka topic.
type Producer struct {
	writer writer
}

// NewProducer connects a writer to the given broker and topic.
// LeastBytes spreads messages evenly across partitions.
func NewProducer(brokerURL, topic string) *Producer {
	return &Producer{
		writer: &skafka.Writer{
			Addr:     skafka.TCP(brokerURL),
			Topic:    topic,
			Balancer: &skafka.LeastBytes{},
		},
	}
}

// NewProducerWithWriter injects a writer, used by tests.
func NewProducerWithWriter(w writer) *Producer {
	return &Producer{writer: w}
}

// Publish JSON-encodes the event and sends it keyed by the entity id so
// events for one quote/auction land on the same partition, in order.
func (p *Producer) Publish(ctx context.Context, key string, value interface{}) error {
	bytes, err := json.Marshal(value)
	if err != nil {
		log.Println("❌ Failed to marshal Kafka payload:", err)
		return err
	}
	msg := skafka.Message{
		Key:   []byte(key),
		Value: bytes,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Println("❌ Kafka write error:", err)
		return err
	}
	return nil
}

// Close shuts down the writer to free resources.
func (p *Producer) Close() error {
	return p.writer.Close()
}
