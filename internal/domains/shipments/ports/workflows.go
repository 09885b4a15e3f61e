package ports

import (
	"context"

	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

// WorkflowOrchestrator runs the shipment creation workflow, inline or on a durable engine.
type WorkflowOrchestrator interface {
	CreateShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error)
}
