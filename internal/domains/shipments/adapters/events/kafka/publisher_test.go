package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublisher_WritesEnvelopeKeyedByShipment(t *testing.T) {
	writer := &fakeWriter{}
	publisher := NewPublisher(writer, "shipments-api")
	at := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	shipment := &domain.Shipment{
		ID: 12, UserID: 7, VehicleID: "V1", Origin: "A", Destination: "B",
		ShipDate: at, Status: domain.StatusAssigned,
	}

	err := publisher.Publish(context.Background(), domain.NewShipmentCreated(shipment, at))
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	require.Equal(t, "12", string(msg.Key))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	require.Equal(t, "shipments.shipment.created", envelope.Type)
	require.Equal(t, "shipments-api", envelope.Source)
	require.Equal(t, int64(12), envelope.ShipmentID)
	require.Equal(t, at, envelope.Time)
	require.NotEmpty(t, envelope.ID)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	require.Equal(t, "V1", payload["VehicleID"])
	require.Equal(t, "2024-01-01 10:00:00", payload["ShipDate"])

	require.NoError(t, publisher.Close())
	require.True(t, writer.closed)
}

func TestPublisher_ReportsFailures(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	var recorded []error
	publisher := NewPublisher(writer, "shipments-api",
		WithRecorder(func(_ string, err error) { recorded = append(recorded, err) }),
	)

	err := publisher.Publish(context.Background(), domain.ShipmentDeleted{ShipmentID: 3})
	require.Error(t, err)
	require.Len(t, recorded, 1)
	require.Error(t, recorded[0])
}

func TestParseBrokers(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	require.Nil(t, ParseBrokers(""))
}
