package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewShipment_StartsAssigned(t *testing.T) {
	shipDate := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	shipment, err := NewShipment(7, " V1 ", "A", "B", shipDate)
	require.NoError(t, err)
	require.Equal(t, StatusAssigned, shipment.Status)
	require.Equal(t, "V1", shipment.VehicleID)
	require.Equal(t, "2024-01-01 10:00:00", shipment.FormattedShipDate())
}

func TestNewShipment_RequiredFields(t *testing.T) {
	shipDate := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		userID  int32
		vehicle string
		origin  string
		dest    string
		date    time.Time
		want    error
	}{
		{"user", 0, "V1", "A", "B", shipDate, ErrInvalidUserID},
		{"vehicle", 7, "  ", "A", "B", shipDate, ErrEmptyVehicleID},
		{"origin", 7, "V1", "", "B", shipDate, ErrEmptyOrigin},
		{"destination", 7, "V1", "A", "", shipDate, ErrEmptyDestination},
		{"date", 7, "V1", "A", "B", time.Time{}, ErrInvalidShipDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewShipment(tc.userID, tc.vehicle, tc.origin, tc.dest, tc.date)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseShipDate(t *testing.T) {
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	got, err := ParseShipDate("2024-01-01 10:00:00")
	require.NoError(t, err)
	require.True(t, want.Equal(got))

	got, err = ParseShipDate("2024-01-01T12:00:00+02:00")
	require.NoError(t, err)
	require.True(t, want.Equal(got))
	require.Equal(t, time.UTC, got.Location())

	_, err = ParseShipDate("01/01/2024")
	require.ErrorIs(t, err, ErrInvalidShipDate)
}

func TestUpdateStatus_RejectsBlank(t *testing.T) {
	shipment := &Shipment{Status: StatusAssigned}
	require.ErrorIs(t, shipment.UpdateStatus(" "), ErrEmptyStatus)
	require.NoError(t, shipment.UpdateStatus("EN_RUTA"))
	require.Equal(t, Status("EN_RUTA"), shipment.Status)
}
