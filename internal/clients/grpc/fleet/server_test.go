package fleet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFleet(t *testing.T) {
	fleet := ParseFleet(" V1=disponible, V2 = en_ruta ,V3,=ghost,,")
	require.Equal(t, map[string]string{
		"V1": "disponible",
		"V2": "en_ruta",
		"V3": StateAvailable,
	}, fleet)
	require.Empty(t, ParseFleet(""))
}

func TestSimulator_StateTransitions(t *testing.T) {
	sim := NewSimulator(map[string]string{"V1": "DISPONIBLE"})
	ctx := context.Background()

	reply, err := sim.VerifyAvailability(ctx, &AvailabilityRequest{VehicleID: "V1"})
	require.NoError(t, err)
	require.True(t, reply.Available)

	sim.SetState("V1", "en_mantenimiento")
	reply, err = sim.VerifyAvailability(ctx, &AvailabilityRequest{VehicleID: "V1"})
	require.NoError(t, err)
	require.False(t, reply.Available)
	require.Equal(t, "en_mantenimiento", reply.State)

	reply, err = sim.VerifyAvailability(ctx, &AvailabilityRequest{VehicleID: "nope"})
	require.NoError(t, err)
	require.Equal(t, &AvailabilityReply{Available: false, State: StateNotFound}, reply)
}
