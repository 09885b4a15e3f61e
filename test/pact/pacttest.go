//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "shipments-api"
	ConsumerName = "dispatch-portal"

	StateShipmentsBaseline = "shipments baseline with vehicle V1 available"
	StateShipmentExists    = "shipment with id 1 exists"
	StateShipmentMissing   = "no shipment with id 404"
	StateVehicleBusy       = "vehicle V2 is on a route"
)

const (
	ExistingShipmentID int64 = 1
	MissingShipmentID  int64 = 404

	AvailableVehicleID = "V1"
	BusyVehicleID      = "V2"
)

const (
	exampleOrigin      = "Bogotá"
	exampleDestination = "Medellín"
	exampleShipDate    = "2024-06-12 10:00:00"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the dispatch portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleCreatePayload is the body the consumer posts to create a shipment.
func ExampleCreatePayload(vehicleID string) map[string]any {
	return map[string]any{
		"userId":      7,
		"vehicleId":   vehicleID,
		"origin":      exampleOrigin,
		"destination": exampleDestination,
		"shipDate":    exampleShipDate,
	}
}

// ExampleShipment returns the stored form of ExampleCreatePayload.
func ExampleShipment(id int64, vehicleID string) map[string]any {
	payload := ExampleCreatePayload(vehicleID)
	payload["id"] = id
	payload["status"] = "ASSIGNED"
	return payload
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
