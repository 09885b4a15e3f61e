package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	shipmentactivities "github.com/Apurer/go-gin-shipments-server/internal/platform/temporal/activities/shipments"
)

// RunShipmentCreationSequence checks availability and, only on success, persists the shipment.
// Each activity runs at most once.
func RunShipmentCreationSequence(ctx workflow.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("shipment creation sequence started", "vehicleId", input.VehicleID)

	checkOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}
	persistOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy:         &temporal.RetryPolicy{MaximumAttempts: 1},
	}

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, checkOptions), shipmentactivities.CheckAvailabilityActivityName, input).Get(ctx, nil); err != nil {
		logger.Warn("shipment creation sequence rejected", "vehicleId", input.VehicleID, "error", err)
		return nil, err
	}

	var shipment domain.Shipment
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, persistOptions), shipmentactivities.PersistShipmentActivityName, input).Get(ctx, &shipment); err != nil {
		logger.Error("shipment creation sequence failed to persist", "vehicleId", input.VehicleID, "error", err)
		return nil, err
	}
	logger.Info("shipment creation sequence persisted", "shipmentId", shipment.ID)
	return &shipment, nil
}
