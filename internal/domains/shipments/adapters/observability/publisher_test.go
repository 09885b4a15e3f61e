package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

type failingPublisher struct {
	err error
}

func (p failingPublisher) Publish(context.Context, domain.Event) error { return p.err }

func TestPublisher_LogsAndCountsFailures(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	var logs bytes.Buffer
	boom := errors.New("broker down")

	publisher := NewPublisher(failingPublisher{err: boom},
		WithPublisherLogger(slog.New(slog.NewJSONHandler(&logs, nil))),
		WithPublisherMeter(meter),
	)

	err := publisher.Publish(context.Background(), domain.ShipmentDeleted{ShipmentID: 3})
	require.ErrorIs(t, err, boom)
	require.Contains(t, logs.String(), "failed to publish shipment event")
	require.Contains(t, logs.String(), "shipments.shipment.deleted")
	require.Equal(t, int64(1), counterTotals(t, reader)["shipments.events.failed"])
}

func TestPublisher_SilentOnSuccess(t *testing.T) {
	var logs bytes.Buffer
	publisher := NewPublisher(failingPublisher{}, WithPublisherLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	require.NoError(t, publisher.Publish(context.Background(), domain.ShipmentDeleted{ShipmentID: 3}))
	require.Empty(t, logs.String())
}
