package shipments

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

const (
	// CheckAvailabilityActivityName asks the fleet whether the vehicle can take the shipment.
	CheckAvailabilityActivityName = "shipments.activities.CheckAvailability"
	// PersistShipmentActivityName records the shipment as ASSIGNED.
	PersistShipmentActivityName = "shipments.activities.PersistShipment"
)

// Activities groups the steps of the shipment creation workflow.
type Activities struct {
	steps ports.CreationSteps
}

// NewActivities wires the shipments application into the Temporal activities bundle.
func NewActivities(steps ports.CreationSteps) *Activities {
	return &Activities{steps: steps}
}

// CheckAvailability validates the input, then asks the fleet. It fails with a non-retryable
// error typed by kind when the input is invalid or the vehicle cannot be used.
func (a *Activities) CheckAvailability(ctx context.Context, input shipmenttypes.CreateShipmentInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("shipment availability activity not initialized", "vehicleId", input.VehicleID)
		return errors.New("shipment availability activity not initialized")
	}
	logger.Info("CheckAvailability activity started", "vehicleId", input.VehicleID)
	if err := a.steps.ValidateShipment(input); err != nil {
		logger.Warn("CheckAvailability activity rejected input", "vehicleId", input.VehicleID, "error", err)
		return toApplicationError(err)
	}
	if err := a.steps.CheckVehicleAvailability(ctx, input.VehicleID); err != nil {
		logger.Warn("CheckAvailability activity rejected", "vehicleId", input.VehicleID, "error", err)
		return toApplicationError(err)
	}
	logger.Info("CheckAvailability activity completed", "vehicleId", input.VehicleID)
	return nil
}

// PersistShipment stores the shipment. It must only run after CheckAvailability succeeded.
func (a *Activities) PersistShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.steps == nil {
		logger.Error("shipment persist activity not initialized", "vehicleId", input.VehicleID)
		return nil, errors.New("shipment persist activity not initialized")
	}
	logger.Info("PersistShipment activity started", "vehicleId", input.VehicleID)
	shipment, err := a.steps.PersistShipment(ctx, input)
	if err != nil {
		logger.Error("PersistShipment activity failed", "vehicleId", input.VehicleID, "error", err)
		return nil, toApplicationError(err)
	}
	logger.Info("PersistShipment activity completed", "shipmentId", shipment.ID)
	return shipment, nil
}

// toApplicationError keeps the error kind across the workflow boundary. Nothing is retried.
func toApplicationError(err error) error {
	kind := application.KindOf(err)
	return temporal.NewNonRetryableApplicationError(err.Error(), string(kind), err)
}
