package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

// Kind classifies workflow failures so transports can branch without string matching.
type Kind string

const (
	KindVehicleUnavailable Kind = "VEHICLE_UNAVAILABLE"
	KindOracleUnavailable  Kind = "ORACLE_UNAVAILABLE"
	KindPersistence        Kind = "PERSISTENCE_ERROR"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInternal           Kind = "INTERNAL"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid shipment input")
	// ErrVehicleUnavailable is the business rejection: the fleet reported the vehicle as not free.
	ErrVehicleUnavailable = errors.New("vehicle unavailable")
	// ErrOracleUnavailable means the fleet service could not be reached or timed out. Safe to retry.
	ErrOracleUnavailable = errors.New("availability oracle unavailable")
	// ErrPersistence means the write failed after a successful availability check.
	ErrPersistence = errors.New("shipment persistence failed")
)

// KindOf maps an error returned by the service to its kind. Nil maps to "".
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrVehicleUnavailable):
		return KindVehicleUnavailable
	case errors.Is(err, ErrOracleUnavailable):
		return KindOracleUnavailable
	case errors.Is(err, ErrPersistence):
		return KindPersistence
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// SentinelFor is the inverse of KindOf for kinds that have a sentinel.
func SentinelFor(kind Kind) (error, bool) {
	switch kind {
	case KindVehicleUnavailable:
		return ErrVehicleUnavailable, true
	case KindOracleUnavailable:
		return ErrOracleUnavailable, true
	case KindPersistence:
		return ErrPersistence, true
	case KindInvalidInput:
		return ErrInvalidInput, true
	default:
		return nil, false
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidUserID) ||
		errors.Is(err, domain.ErrEmptyVehicleID) ||
		errors.Is(err, domain.ErrEmptyOrigin) ||
		errors.Is(err, domain.ErrEmptyDestination) ||
		errors.Is(err, domain.ErrInvalidShipDate) ||
		errors.Is(err, domain.ErrEmptyStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
