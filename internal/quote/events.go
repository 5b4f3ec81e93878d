package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/ananda-quote/pkg/pricing"
	"github.com/segmentio/kafka-go"
)

// Event announces an issued quote.
type Event struct {
	IssuedAt time.Time     `json:"issuedAt"`
	Quote    pricing.Quote `json:"quote"`
}

// Publisher delivers quote events.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes quote events to a Kafka topic, keyed by lot.
type KafkaPublisher struct {
	writer messageWriter
}

// publishBatchTimeout bounds how long a synchronous publish waits for its
// batch to fill.
const publishBatchTimeout = 10 * time.Millisecond

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           publishBatchTimeout,
		AllowAutoTopicCreation: true,
	}}
}

// Publish writes one event. Events for the same lot share a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("quote-lot-%d", event.Quote.LotNumber)),
		Value: value,
		Time:  event.IssuedAt,
	})
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
