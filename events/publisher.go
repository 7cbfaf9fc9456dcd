// Package events publishes shipping-rate change notifications so downstream
// services (checkout caches, storefront) can refresh their view of the rules.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Govind-619/ShipSphere/models"

	"github.com/segmentio/kafka-go"
)

// EventType names a change to a shipping rate
type EventType string

const (
	RateCreated EventType = "created"
	RateUpdated EventType = "updated"
	RateDeleted EventType = "deleted"
)

// RateEvent describes one change to a shipping rate. Rate is nil for deletes.
type RateEvent struct {
	Type       EventType            `json:"type"`
	RateID     uint                 `json:"rate_id"`
	Rate       *models.ShippingRate `json:"rate,omitempty"`
	OccurredAt time.Time            `json:"occurred_at"`
}

// Key names the event, e.g. shipping_rate.updated.42
func (e RateEvent) Key() string {
	return fmt.Sprintf("shipping_rate.%s.%d", e.Type, e.RateID)
}

// PartitionKey is shared by every event of one rate
func (e RateEvent) PartitionKey() string {
	return fmt.Sprintf("shipping_rate.%d", e.RateID)
}

// Publisher delivers rate events
type Publisher interface {
	Publish(ctx context.Context, event RateEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, RateEvent) error { return nil }
func (NopPublisher) Close() error                             { return nil }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes rate events to a kafka topic
type KafkaPublisher struct {
	writer messageWriter
}

// publishBatchTimeout bounds how long a synchronous write waits for a batch
// to fill. Rate changes are rare, so batches are almost always a single message.
const publishBatchTimeout = 10 * time.Millisecond

// NewKafkaWriter builds the writer used by KafkaPublisher
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           publishBatchTimeout,
	}
}

// NewKafkaPublisher creates a publisher for the given brokers and topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: NewKafkaWriter(brokers, topic)}
}

// Publish sends event keyed by rate so changes to one rate stay ordered
func (p *KafkaPublisher) Publish(ctx context.Context, event RateEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal rate event: %w", err)
	}
	msg := kafka.Message{
		Key:     []byte(event.PartitionKey()),
		Value:   payload,
		Time:    event.OccurredAt,
		Headers: []kafka.Header{{Key: "event", Value: []byte(event.Key())}},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("could not publish rate event %s: %w", event.Key(), err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
