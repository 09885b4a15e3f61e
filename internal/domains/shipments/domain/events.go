package domain

import "time"

// Event is the base interface for shipment domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
	AggregateID() int64
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// ShipmentCreated is raised once a shipment passed the availability check and was committed.
type ShipmentCreated struct {
	BaseEvent
	ShipmentID  int64
	UserID      int32
	VehicleID   string
	Origin      string
	Destination string
	ShipDate    string
	Status      Status
}

func (e ShipmentCreated) EventName() string  { return "shipments.shipment.created" }
func (e ShipmentCreated) AggregateID() int64 { return e.ShipmentID }

// ShipmentStatusChanged is raised when the status of a shipment is replaced.
type ShipmentStatusChanged struct {
	BaseEvent
	ShipmentID int64
	VehicleID  string
	Status     Status
}

func (e ShipmentStatusChanged) EventName() string  { return "shipments.shipment.status_changed" }
func (e ShipmentStatusChanged) AggregateID() int64 { return e.ShipmentID }

// ShipmentDeleted is raised when a shipment row was removed.
type ShipmentDeleted struct {
	BaseEvent
	ShipmentID int64
}

func (e ShipmentDeleted) EventName() string  { return "shipments.shipment.deleted" }
func (e ShipmentDeleted) AggregateID() int64 { return e.ShipmentID }

// NewShipmentCreated snapshots a persisted shipment into a creation event.
func NewShipmentCreated(s *Shipment, at time.Time) ShipmentCreated {
	return ShipmentCreated{
		BaseEvent:   BaseEvent{Timestamp: at},
		ShipmentID:  s.ID,
		UserID:      s.UserID,
		VehicleID:   s.VehicleID,
		Origin:      s.Origin,
		Destination: s.Destination,
		ShipDate:    s.FormattedShipDate(),
		Status:      s.Status,
	}
}
