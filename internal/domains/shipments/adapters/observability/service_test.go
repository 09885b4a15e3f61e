package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

type stubService struct {
	created *domain.Shipment
	err     error
}

func (s stubService) ListShipments(context.Context) ([]*domain.Shipment, error) { return nil, nil }
func (s stubService) GetShipment(context.Context, int64) (*domain.Shipment, error) {
	return nil, nil
}
func (s stubService) CreateShipment(context.Context, shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	return s.created, s.err
}
func (s stubService) UpdateShipmentStatus(context.Context, shipmenttypes.UpdateStatusInput) (*domain.Shipment, error) {
	return nil, nil
}
func (s stubService) DeleteShipment(context.Context, int64) (bool, error) { return true, nil }

func counterTotals(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestService_RecordsCreationsAndRejections(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	ok := New(stubService{created: &domain.Shipment{ID: 1, Status: domain.StatusAssigned}}, WithMeter(meter), WithLogger(logger))
	_, err := ok.CreateShipment(context.Background(), shipmenttypes.CreateShipmentInput{VehicleID: "V1"})
	require.NoError(t, err)

	rejecting := New(stubService{err: application.ErrVehicleUnavailable}, WithMeter(meter), WithLogger(logger))
	_, err = rejecting.CreateShipment(context.Background(), shipmenttypes.CreateShipmentInput{VehicleID: "V2"})
	require.ErrorIs(t, err, application.ErrVehicleUnavailable)

	deleted, err := ok.DeleteShipment(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, deleted)

	totals := counterTotals(t, reader)
	require.Equal(t, int64(1), totals["shipments.service.created"])
	require.Equal(t, int64(1), totals["shipments.service.rejected"])
	require.Equal(t, int64(1), totals["shipments.service.deleted"])

	var sawKind bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["msg"] == "failed to create shipment" {
			require.Equal(t, "VEHICLE_UNAVAILABLE", entry["kind"])
			sawKind = true
		}
	}
	require.True(t, sawKind)
}
