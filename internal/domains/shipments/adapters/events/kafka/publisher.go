package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// Writer is the part of kafka.Writer the publisher uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Envelope is the JSON document written for every event.
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Source     string          `json:"source"`
	Time       time.Time       `json:"time"`
	ShipmentID int64           `json:"shipmentId"`
	Data       json.RawMessage `json:"data"`
}

// Publisher writes shipment events to a Kafka topic keyed by shipment id, so all events
// of one shipment land on the same partition in order.
type Publisher struct {
	writer   Writer
	source   string
	recorder func(eventType string, err error)
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithRecorder reports every publish outcome, e.g. to a metrics counter.
func WithRecorder(recorder func(eventType string, err error)) Option {
	return func(p *Publisher) {
		p.recorder = recorder
	}
}

// NewWriter builds a synchronous kafka.Writer for topic.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// NewPublisher wraps writer. source identifies this service in envelopes.
func NewPublisher(writer Writer, source string, opts ...Option) *Publisher {
	p := &Publisher{writer: writer, source: source}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Publish encodes and writes one event. Failures are returned, not logged.
func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	err := p.publish(ctx, event)
	if p.recorder != nil {
		p.recorder(event.EventName(), err)
	}
	return err
}

func (p *Publisher) publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	envelope := Envelope{
		ID:         uuid.NewString(),
		Type:       event.EventName(),
		Source:     p.source,
		Time:       event.OccurredAt().UTC(),
		ShipmentID: event.AggregateID(),
		Data:       data,
	}
	value, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.AggregateID(), 10)),
		Value: value,
		Time:  envelope.Time,
		Headers: []kafka.Header{
			{Key: "ce-id", Value: []byte(envelope.ID)},
			{Key: "ce-type", Value: []byte(envelope.Type)},
			{Key: "ce-source", Value: []byte(envelope.Source)},
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write kafka message: %w", err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
