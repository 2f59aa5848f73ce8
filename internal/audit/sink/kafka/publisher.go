// Package kafka ships audit records to a Kafka topic so the trail can feed
// SIEM pipelines and long-retention storage outside the agent process.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/theonlypal/browser-use-swiftapi/internal/audit"
)

const DefaultTopic = "swiftapi.audit.records"

// Publisher writes audit records to Kafka. Records are keyed by actor so one
// agent's trail stays ordered within a partition.
type Publisher struct {
	client *kgo.Client
	topic  string
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithTopic overrides the default topic.
func WithTopic(topic string) Option {
	return func(p *Publisher) {
		if topic != "" {
			p.topic = topic
		}
	}
}

// New connects a Kafka audit publisher to the given seed brokers.
func New(brokers []string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka audit publisher: %w", err)
	}
	p := &Publisher{client: client, topic: DefaultTopic}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Append publishes one record and waits for broker acknowledgement. Callers
// that must not block put this behind an audit.Worker.
func (p *Publisher) Append(ctx context.Context, record audit.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode audit record: %w", err)
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(record.Actor),
		Value: payload,
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}

// Close flushes pending records and releases the client.
func (p *Publisher) Close() {
	p.client.Close()
}
