package domain

import (
	"errors"
	"strings"
	"time"
)

// Status is the open lifecycle field of a shipment. Only the initial value is fixed.
type Status string

// StatusAssigned is the status every new shipment starts with.
const StatusAssigned Status = "ASSIGNED"

// ShipDateLayout is the canonical wire representation of a ship date.
const ShipDateLayout = "2006-01-02 15:04:05"

var acceptedShipDateLayouts = []string{
	ShipDateLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
}

var (
	ErrInvalidUserID    = errors.New("user id must be greater than zero")
	ErrEmptyVehicleID   = errors.New("vehicle id is required")
	ErrEmptyOrigin      = errors.New("origin is required")
	ErrEmptyDestination = errors.New("destination is required")
	ErrInvalidShipDate  = errors.New("ship date must use YYYY-MM-DD HH:MM:SS")
	ErrEmptyStatus      = errors.New("status is required")
)

// Shipment models a movement of goods from origin to destination on an assigned vehicle.
type Shipment struct {
	ID          int64
	UserID      int32
	VehicleID   string
	Origin      string
	Destination string
	ShipDate    time.Time
	Status      Status
}

// NewShipment validates input and builds an unsaved shipment in the ASSIGNED state.
func NewShipment(userID int32, vehicleID, origin, destination string, shipDate time.Time) (*Shipment, error) {
	shipment := &Shipment{
		UserID:      userID,
		VehicleID:   strings.TrimSpace(vehicleID),
		Origin:      strings.TrimSpace(origin),
		Destination: strings.TrimSpace(destination),
		ShipDate:    NormalizeShipDate(shipDate),
		Status:      StatusAssigned,
	}
	if err := shipment.Validate(); err != nil {
		return nil, err
	}
	return shipment, nil
}

// Validate enforces the required fields.
func (s *Shipment) Validate() error {
	if s.UserID <= 0 {
		return ErrInvalidUserID
	}
	if strings.TrimSpace(s.VehicleID) == "" {
		return ErrEmptyVehicleID
	}
	if strings.TrimSpace(s.Origin) == "" {
		return ErrEmptyOrigin
	}
	if strings.TrimSpace(s.Destination) == "" {
		return ErrEmptyDestination
	}
	if s.ShipDate.IsZero() {
		return ErrInvalidShipDate
	}
	if strings.TrimSpace(string(s.Status)) == "" {
		return ErrEmptyStatus
	}
	return nil
}

// UpdateStatus replaces the status. Values are caller-defined; only blank is rejected.
func (s *Shipment) UpdateStatus(status Status) error {
	status = Status(strings.TrimSpace(string(status)))
	if status == "" {
		return ErrEmptyStatus
	}
	s.Status = status
	return nil
}

// FormattedShipDate renders the ship date in the canonical wire layout.
func (s *Shipment) FormattedShipDate() string {
	return FormatShipDate(s.ShipDate)
}

// ParseShipDate accepts the canonical layout plus ISO-8601 variants and returns a UTC, second-precision time.
func ParseShipDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidShipDate
	}
	for _, layout := range acceptedShipDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return NormalizeShipDate(t), nil
		}
	}
	return time.Time{}, ErrInvalidShipDate
}

// FormatShipDate renders t as YYYY-MM-DD HH:MM:SS in UTC.
func FormatShipDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return NormalizeShipDate(t).Format(ShipDateLayout)
}

// NormalizeShipDate truncates to whole seconds in UTC, the precision the store keeps.
func NormalizeShipDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Second)
}
