package ports

import (
	"context"

	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

// Service defines the shipment use cases exposed to adapters (inbound/driving port).
type Service interface {
	ListShipments(ctx context.Context) ([]*domain.Shipment, error)
	// GetShipment returns nil without error when no shipment has the id.
	GetShipment(ctx context.Context, id int64) (*domain.Shipment, error)
	CreateShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error)
	// UpdateShipmentStatus returns nil without error when no shipment has the id.
	UpdateShipmentStatus(ctx context.Context, input shipmenttypes.UpdateStatusInput) (*domain.Shipment, error)
	DeleteShipment(ctx context.Context, id int64) (bool, error)
}

// CreationSteps exposes the ordered steps of CreateShipment so a durable
// workflow can run them as separate activities. ValidateShipment runs before any
// remote call, and PersistShipment must only be called after CheckVehicleAvailability
// succeeded for the same vehicle.
type CreationSteps interface {
	ValidateShipment(input shipmenttypes.CreateShipmentInput) error
	CheckVehicleAvailability(ctx context.Context, vehicleID string) error
	PersistShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error)
}
