package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

// Service orchestrates the shipment use cases. It is the only writer of shipment records.
type Service struct {
	repo   ports.Repository
	tx     ports.Transactor
	oracle ports.AvailabilityOracle
	events ports.EventPublisher
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithEventPublisher forwards committed mutations to publisher.
func WithEventPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		if publisher != nil {
			s.events = publisher
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the shipment workflow with its store, transaction scope and availability oracle.
func NewService(repo ports.Repository, tx ports.Transactor, oracle ports.AvailabilityOracle, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		tx:     tx,
		oracle: oracle,
		events: ports.NoopPublisher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListShipments returns all shipments, newest first.
func (s *Service) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	return s.repo.List(ctx)
}

// GetShipment loads one shipment; absence is reported as (nil, nil).
func (s *Service) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	shipment, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shipment, nil
}

// CreateShipment checks the vehicle with the fleet oracle and, only when it is available,
// records the shipment as ASSIGNED in a single transaction.
func (s *Service) CreateShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	if err := s.ValidateShipment(input); err != nil {
		return nil, err
	}
	if err := s.CheckVehicleAvailability(ctx, input.VehicleID); err != nil {
		return nil, err
	}
	return s.PersistShipment(ctx, input)
}

// ValidateShipment rejects incomplete input with ErrInvalidInput without touching the oracle or the store.
func (s *Service) ValidateShipment(input shipmenttypes.CreateShipmentInput) error {
	_, err := buildShipment(input)
	return err
}

// CheckVehicleAvailability asks the oracle once. It never writes.
func (s *Service) CheckVehicleAvailability(ctx context.Context, vehicleID string) error {
	if s.oracle == nil {
		return fmt.Errorf("%w: no oracle configured", ErrOracleUnavailable)
	}
	available, err := s.oracle.CheckAvailability(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOracleUnavailable, err)
	}
	if !available {
		return fmt.Errorf("%w: vehicle %q", ErrVehicleUnavailable, vehicleID)
	}
	return nil
}

// PersistShipment inserts the shipment with status ASSIGNED inside one transaction.
// The availability check must already have passed; nothing is sent back to the fleet
// service when the write fails.
func (s *Service) PersistShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	shipment, err := buildShipment(input)
	if err != nil {
		return nil, err
	}
	var saved *domain.Shipment
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var insertErr error
		saved, insertErr = s.repo.Insert(ctx, shipment)
		return insertErr
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.publish(ctx, domain.NewShipmentCreated(saved, s.now()))
	return saved, nil
}

// UpdateShipmentStatus replaces the status; unknown ids yield (nil, nil). The oracle is not consulted.
func (s *Service) UpdateShipmentStatus(ctx context.Context, input shipmenttypes.UpdateStatusInput) (*domain.Shipment, error) {
	candidate := domain.Shipment{}
	if err := candidate.UpdateStatus(domain.Status(input.Status)); err != nil {
		return nil, mapError(err)
	}
	var updated *domain.Shipment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var updateErr error
		updated, updateErr = s.repo.UpdateStatus(ctx, input.ID, candidate.Status)
		return updateErr
	})
	if errors.Is(err, ports.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.ShipmentStatusChanged{
		BaseEvent:  domain.BaseEvent{Timestamp: s.now()},
		ShipmentID: updated.ID,
		VehicleID:  updated.VehicleID,
		Status:     updated.Status,
	})
	return updated, nil
}

// DeleteShipment removes a shipment and reports whether one existed. Unknown ids are not an error.
func (s *Service) DeleteShipment(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.publish(ctx, domain.ShipmentDeleted{BaseEvent: domain.BaseEvent{Timestamp: s.now()}, ShipmentID: id})
	}
	return deleted, nil
}

// publish is best-effort: the change is already committed, so a broker failure must not fail the call.
// The error is dropped here; wrap the publisher with the observability decorator to log and count it.
func (s *Service) publish(ctx context.Context, event domain.Event) {
	_ = s.events.Publish(ctx, event)
}

func buildShipment(input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	shipDate, err := domain.ParseShipDate(input.ShipDate)
	if err != nil {
		return nil, mapError(err)
	}
	shipment, err := domain.NewShipment(input.UserID, input.VehicleID, input.Origin, input.Destination, shipDate)
	if err != nil {
		return nil, mapError(err)
	}
	return shipment, nil
}

var (
	_ ports.Service       = (*Service)(nil)
	_ ports.CreationSteps = (*Service)(nil)
)
