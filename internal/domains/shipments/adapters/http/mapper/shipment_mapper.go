package mapper

import (
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

// Shipment is the HTTP representation of a stored shipment.
type Shipment struct {
	ID          int64  `json:"id"`
	UserID      int32  `json:"userId"`
	VehicleID   string `json:"vehicleId"`
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	ShipDate    string `json:"shipDate"`
	Status      string `json:"status"`
}

// CreateShipmentRequest is the body of POST /v1/shipments.
type CreateShipmentRequest struct {
	UserID      int32  `json:"userId" binding:"required"`
	VehicleID   string `json:"vehicleId" binding:"required"`
	Origin      string `json:"origin" binding:"required"`
	Destination string `json:"destination" binding:"required"`
	ShipDate    string `json:"shipDate" binding:"required"`
}

// UpdateStatusRequest is the body of PATCH /v1/shipments/:shipmentId/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ToCreateInput converts a create payload into the application command.
func ToCreateInput(req CreateShipmentRequest) shipmenttypes.CreateShipmentInput {
	return shipmenttypes.CreateShipmentInput{
		UserID:      req.UserID,
		VehicleID:   req.VehicleID,
		Origin:      req.Origin,
		Destination: req.Destination,
		ShipDate:    req.ShipDate,
	}
}

// FromDomain maps a domain shipment into its transport form.
func FromDomain(s *domain.Shipment) Shipment {
	return Shipment{
		ID:          s.ID,
		UserID:      s.UserID,
		VehicleID:   s.VehicleID,
		Origin:      s.Origin,
		Destination: s.Destination,
		ShipDate:    s.FormattedShipDate(),
		Status:      string(s.Status),
	}
}

// FromDomainList maps a slice, never returning nil so empty lists encode as [].
func FromDomainList(items []*domain.Shipment) []Shipment {
	out := make([]Shipment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, FromDomain(item))
	}
	return out
}
