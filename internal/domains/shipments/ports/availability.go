package ports

import "context"

// AvailabilityOracle answers whether a fleet vehicle can take a new shipment right now.
// A non-nil error means no answer was obtained; false is a valid answer.
type AvailabilityOracle interface {
	CheckAvailability(ctx context.Context, vehicleID string) (bool, error)
}
