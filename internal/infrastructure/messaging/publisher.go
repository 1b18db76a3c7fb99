// Package messaging delivers committed domain events to Kafka, or to the log
// when no brokers are configured.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"microlend-engine/internal/domain/event"
)

// Writer is the subset of *kafkago.Writer we use.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type KafkaPublisher struct{ w Writer }

// NewKafkaPublisher keys messages by loan or lender id; the hash balancer
// keeps one aggregate's events on one partition, in order.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	})
}

func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher { return &KafkaPublisher{w: w} }

func (p *KafkaPublisher) Publish(ctx context.Context, events ...event.Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, 0, len(events))
	for _, e := range events {
		body, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode %s: %w", e.Name, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:     []byte(e.Key),
			Value:   body,
			Time:    e.OccurredAt,
			Headers: []kafkago.Header{{Key: "event", Value: []byte(e.Name)}},
		})
	}
	if err := p.w.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka publish: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

type LogPublisher struct{ log *slog.Logger }

func NewLogPublisher(log *slog.Logger) *LogPublisher { return &LogPublisher{log: log} }

func (p *LogPublisher) Publish(ctx context.Context, events ...event.Event) error {
	for _, e := range events {
		p.log.InfoContext(ctx, "domain event", "event", e.Name, "key", e.Key, "payload", e.Payload)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
