// Package events forwards recorded analytics events to Kafka for downstream
// consumers.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"mindconnect/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, event domain.AnalyticsEvent) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        true,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event domain.AnalyticsEvent) error {
	msg, err := Message(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("ошибка публикации события %s: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Message encodes an event. Events of one psychologist share a key so they
// land on one partition in order; anonymous events are keyed by session.
func Message(event domain.AnalyticsEvent) (kafka.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("ошибка сериализации события: %w", err)
	}

	key := event.SessionID
	if event.PsychologistID != nil {
		key = "psychologist-" + strconv.FormatInt(*event.PsychologistID, 10)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}, nil
}

type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event domain.AnalyticsEvent) error { return nil }

func (NopPublisher) Close() error { return nil }

// Fanout delivers every event to all members. A failing member does not stop
// delivery to the rest; the failures are joined.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event domain.AnalyticsEvent) error {
	var errs []error
	for _, p := range f {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) Close() error {
	var errs []error
	for _, p := range f {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
