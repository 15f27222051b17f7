// Package events publishes finished check reports to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RishiKendai/aegis-origin/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Publisher writes JSON encoded reports keyed by check ID.
type Publisher struct {
	writer *kafka.Writer
	topic  string
}

func NewPublisher(brokers []string, topic string) *Publisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		MaxAttempts:  3,
		RequiredAcks: kafka.RequireAll,
	}
	return &Publisher{writer: w, topic: topic}
}

// PublishReport writes report synchronously.
func (p *Publisher) PublishReport(ctx context.Context, report *models.CheckReport) error {
	value, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(report.CheckID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish report to kafka: %w", err)
	}

	log.Debug().
		Str("checkId", report.CheckID).
		Str("topic", p.topic).
		Int("bytes", len(value)).
		Msg("Report published")
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
