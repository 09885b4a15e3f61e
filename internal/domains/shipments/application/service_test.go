package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	shipmentmemory "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/memory"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

type fakeOracle struct {
	mu        sync.Mutex
	available map[string]bool
	err       error
	calls     []string
}

func (f *fakeOracle) CheckAvailability(_ context.Context, vehicleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, vehicleID)
	if f.err != nil {
		return false, f.err
	}
	return f.available[vehicleID], nil
}

type failingInsertRepo struct {
	*shipmentmemory.Repository
}

func (r failingInsertRepo) Insert(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	if _, err := r.Repository.Insert(ctx, shipment); err != nil {
		return nil, err
	}
	return nil, errors.New("disk full")
}

type recordingPublisher struct {
	events []domain.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.Event) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestService(oracle *fakeOracle, opts ...Option) (*Service, *shipmentmemory.Repository) {
	repo := shipmentmemory.NewRepository()
	return NewService(repo, shipmentmemory.NewTransactor(repo), oracle, opts...), repo
}

func validInput(vehicleID string) shipmenttypes.CreateShipmentInput {
	return shipmenttypes.CreateShipmentInput{
		UserID:      7,
		VehicleID:   vehicleID,
		Origin:      "A",
		Destination: "B",
		ShipDate:    "2024-01-01 10:00:00",
	}
}

func TestCreateShipment_ExampleScenario(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	svc, _ := newTestService(oracle)
	ctx := context.Background()

	created, err := svc.CreateShipment(ctx, validInput("V1"))
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, int32(7), created.UserID)
	require.Equal(t, "V1", created.VehicleID)
	require.Equal(t, "A", created.Origin)
	require.Equal(t, "B", created.Destination)
	require.Equal(t, "2024-01-01 10:00:00", created.FormattedShipDate())
	require.Equal(t, domain.StatusAssigned, created.Status)

	updated, err := svc.UpdateShipmentStatus(ctx, shipmenttypes.UpdateStatusInput{ID: 1, Status: "EN_RUTA"})
	require.NoError(t, err)
	require.Equal(t, domain.Status("EN_RUTA"), updated.Status)

	deleted, err := svc.DeleteShipment(ctx, 1)
	require.NoError(t, err)
	require.True(t, deleted)

	got, err := svc.GetShipment(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestCreateShipment_VehicleUnavailableWritesNothing(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	svc, repo := newTestService(oracle)
	ctx := context.Background()

	_, err := svc.CreateShipment(ctx, validInput("V1"))
	require.NoError(t, err)

	for _, vehicle := range []string{"V2", "V3", "unknown"} {
		_, err := svc.CreateShipment(ctx, validInput(vehicle))
		require.ErrorIs(t, err, ErrVehicleUnavailable)
		require.Equal(t, KindVehicleUnavailable, KindOf(err))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestCreateShipment_OracleFailure(t *testing.T) {
	oracle := &fakeOracle{err: errors.New("connection refused")}
	svc, repo := newTestService(oracle)
	ctx := context.Background()

	_, err := svc.CreateShipment(ctx, validInput("V1"))
	require.ErrorIs(t, err, ErrOracleUnavailable)
	require.Equal(t, KindOracleUnavailable, KindOf(err))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCreateShipment_InvalidInputSkipsOracle(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	svc, _ := newTestService(oracle)

	cases := map[string]func(*shipmenttypes.CreateShipmentInput){
		"zero user":      func(in *shipmenttypes.CreateShipmentInput) { in.UserID = 0 },
		"blank vehicle":  func(in *shipmenttypes.CreateShipmentInput) { in.VehicleID = "  " },
		"blank origin":   func(in *shipmenttypes.CreateShipmentInput) { in.Origin = "" },
		"blank dest":     func(in *shipmenttypes.CreateShipmentInput) { in.Destination = "" },
		"bad ship date":  func(in *shipmenttypes.CreateShipmentInput) { in.ShipDate = "tomorrow" },
		"empty shipdate": func(in *shipmenttypes.CreateShipmentInput) { in.ShipDate = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := validInput("V1")
			mutate(&input)
			_, err := svc.CreateShipment(context.Background(), input)
			require.ErrorIs(t, err, ErrInvalidInput)
			require.Equal(t, KindInvalidInput, KindOf(err))
		})
	}
	require.Empty(t, oracle.calls)
}

func TestCreateShipment_InsertFailureLeavesNoRow(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	mem := shipmentmemory.NewRepository()
	repo := failingInsertRepo{Repository: mem}
	svc := NewService(repo, shipmentmemory.NewTransactor(mem), oracle)
	ctx := context.Background()

	_, err := svc.CreateShipment(ctx, validInput("V1"))
	require.ErrorIs(t, err, ErrPersistence)
	require.Equal(t, KindPersistence, KindOf(err))

	list, err := mem.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
	_, err = mem.GetByID(ctx, 1)
	require.Error(t, err)
}

func TestGetShipment_RepeatedReadsMatch(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	svc, _ := newTestService(oracle)
	ctx := context.Background()

	created, err := svc.CreateShipment(ctx, validInput("V1"))
	require.NoError(t, err)

	first, err := svc.GetShipment(ctx, created.ID)
	require.NoError(t, err)
	second, err := svc.GetShipment(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, created, first)
}

func TestUpdateShipmentStatus_ChangesOnlyStatus(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	svc, _ := newTestService(oracle)
	ctx := context.Background()

	created, err := svc.CreateShipment(ctx, validInput("V1"))
	require.NoError(t, err)

	updated, err := svc.UpdateShipmentStatus(ctx, shipmenttypes.UpdateStatusInput{ID: created.ID, Status: "ENTREGADO"})
	require.NoError(t, err)

	expected := *created
	expected.Status = "ENTREGADO"
	require.Equal(t, &expected, updated)
	require.Len(t, oracle.calls, 1)
}

func TestUpdateShipmentStatus_MissingAndBlank(t *testing.T) {
	svc, _ := newTestService(&fakeOracle{})
	ctx := context.Background()

	updated, err := svc.UpdateShipmentStatus(ctx, shipmenttypes.UpdateStatusInput{ID: 42, Status: "EN_RUTA"})
	require.NoError(t, err)
	require.Nil(t, updated)

	_, err = svc.UpdateShipmentStatus(ctx, shipmenttypes.UpdateStatusInput{ID: 42, Status: "  "})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestDeleteShipment_UnknownIDIsNotAnError(t *testing.T) {
	svc, _ := newTestService(&fakeOracle{})

	deleted, err := svc.DeleteShipment(context.Background(), 404)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestListShipments_NewestFirst(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true, "V2": true}}
	svc, _ := newTestService(oracle)
	ctx := context.Background()

	_, err := svc.CreateShipment(ctx, validInput("V1"))
	require.NoError(t, err)
	_, err = svc.CreateShipment(ctx, validInput("V2"))
	require.NoError(t, err)

	list, err := svc.ListShipments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "V2", list[0].VehicleID)
	require.Equal(t, "V1", list[1].VehicleID)
}

func TestEvents_PublishedAfterCommitAndBestEffort(t *testing.T) {
	oracle := &fakeOracle{available: map[string]bool{"V1": true}}
	publisher := &recordingPublisher{err: errors.New("broker down")}
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, _ := newTestService(oracle, WithEventPublisher(publisher), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	created, err := svc.CreateShipment(ctx, validInput("V1"))
	require.NoError(t, err)
	_, err = svc.UpdateShipmentStatus(ctx, shipmenttypes.UpdateStatusInput{ID: created.ID, Status: "EN_RUTA"})
	require.NoError(t, err)
	_, err = svc.DeleteShipment(ctx, created.ID)
	require.NoError(t, err)

	_, err = svc.CreateShipment(ctx, validInput("V9"))
	require.ErrorIs(t, err, ErrVehicleUnavailable)

	require.Len(t, publisher.events, 3)
	require.Equal(t, "shipments.shipment.created", publisher.events[0].EventName())
	require.Equal(t, "shipments.shipment.status_changed", publisher.events[1].EventName())
	require.Equal(t, "shipments.shipment.deleted", publisher.events[2].EventName())
	require.Equal(t, fixed, publisher.events[0].OccurredAt())
	require.Equal(t, created.ID, publisher.events[2].AggregateID())
}

func TestSentinelForRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindVehicleUnavailable, KindOracleUnavailable, KindPersistence, KindInvalidInput} {
		sentinel, ok := SentinelFor(kind)
		require.True(t, ok)
		require.Equal(t, kind, KindOf(sentinel))
	}
	_, ok := SentinelFor(KindInternal)
	require.False(t, ok)
	require.Equal(t, KindInternal, KindOf(errors.New("other")))
	require.Equal(t, Kind(""), KindOf(nil))
}
