package shipments

import (
	"go.temporal.io/sdk/workflow"

	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/temporal/sequences"
)

const (
	// ShipmentCreationWorkflowName is the public identifier for registering the workflow.
	ShipmentCreationWorkflowName = "shipments.workflows.Creation"
	// ShipmentCreationTaskQueue is the queue consumed by the worker processing shipment workflows.
	ShipmentCreationTaskQueue = "SHIPMENT_CREATION"
)

// ShipmentCreationWorkflowInput captures the payload required to create a shipment.
type ShipmentCreationWorkflowInput struct {
	Command shipmenttypes.CreateShipmentInput
	TraceID string
}

// ShipmentCreationWorkflow runs the gated creation: availability check first, then the insert.
func ShipmentCreationWorkflow(ctx workflow.Context, input ShipmentCreationWorkflowInput) (*domain.Shipment, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("ShipmentCreationWorkflow started", withTraceID(input.TraceID, "vehicleId", input.Command.VehicleID)...)
	shipment, err := sequences.RunShipmentCreationSequence(ctx, input.Command)
	if err != nil {
		logger.Error("ShipmentCreationWorkflow failed", withTraceID(input.TraceID, "vehicleId", input.Command.VehicleID, "error", err)...)
		return nil, err
	}
	logger.Info("ShipmentCreationWorkflow completed", withTraceID(input.TraceID, "shipmentId", shipment.ID)...)
	return shipment, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
