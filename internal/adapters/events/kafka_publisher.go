// Package events delivers journal notifications to subscribers.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_posting_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_posting_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_posting_engine/internal/middleware"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes each journal event as a JSON message keyed by journal id,
// so every journal's notifications stay ordered within one partition.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

var _ portssvc.EventPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, topic)
}

func newKafkaPublisher(w messageWriter, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: w, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.JournalEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode journal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.JournalID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "organization_id", Value: []byte(event.OrganizationID)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.Type, p.topic, err)
	}
	middleware.GetLoggerFromCtx(ctx).Debug("Published journal event",
		slog.String("type", string(event.Type)), slog.String("journal_id", event.JournalID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher only logs events. It is used when no broker is configured.
type LogPublisher struct{}

var _ portssvc.EventPublisher = LogPublisher{}

func (LogPublisher) Publish(ctx context.Context, event domain.JournalEvent) error {
	middleware.GetLoggerFromCtx(ctx).Info("Journal event",
		slog.String("type", string(event.Type)),
		slog.String("organization_id", event.OrganizationID),
		slog.String("journal_id", event.JournalID),
		slog.String("to_status", string(event.ToStatus)),
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
