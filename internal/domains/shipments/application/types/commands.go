package types

// CreateShipmentInput carries the caller-supplied fields of a new shipment.
// ShipDate is kept in its wire form so the command survives JSON round trips
// through durable workflow history unchanged.
type CreateShipmentInput struct {
	UserID      int32
	VehicleID   string
	Origin      string
	Destination string
	ShipDate    string
}

// UpdateStatusInput replaces the status of an existing shipment.
type UpdateStatusInput struct {
	ID     int64
	Status string
}
