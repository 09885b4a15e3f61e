package fleet

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// StateAvailable is the vehicle state that makes a vehicle eligible for new shipments.
const StateAvailable = "disponible"

// StateNotFound is reported for vehicles the fleet does not know.
const StateNotFound = "no_encontrado"

// AvailabilityServer answers availability queries.
type AvailabilityServer interface {
	VerifyAvailability(ctx context.Context, req *AvailabilityRequest) (*AvailabilityReply, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: "vehiculos.VehiculosService",
	HandlerType: (*AvailabilityServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "VerificarDisponibilidad",
			Handler:    verifyAvailabilityHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vehiculos.proto",
}

func verifyAvailabilityHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AvailabilityRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AvailabilityServer).VerifyAvailability(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: VerifyAvailabilityMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AvailabilityServer).VerifyAvailability(ctx, req.(*AvailabilityRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// RegisterAvailabilityServer exposes srv as vehiculos.VehiculosService on s.
func RegisterAvailabilityServer(s grpc.ServiceRegistrar, srv AvailabilityServer) {
	s.RegisterService(&serviceDesc, srv)
}

// NewGRPCServer builds a server that speaks the fleet wire format.
func NewGRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.ForceServerCodec(Codec{}),
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	}
	return grpc.NewServer(append(base, opts...)...)
}

// Simulator is an in-memory fleet used for local development and tests.
type Simulator struct {
	mu       sync.RWMutex
	vehicles map[string]string
}

// NewSimulator seeds the fleet with vehicle id to state pairs.
func NewSimulator(vehicles map[string]string) *Simulator {
	seeded := make(map[string]string, len(vehicles))
	for id, state := range vehicles {
		seeded[id] = state
	}
	return &Simulator{vehicles: seeded}
}

// SetState adds or replaces a vehicle.
func (s *Simulator) SetState(vehicleID, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles[vehicleID] = state
}

// VerifyAvailability reports a vehicle as available only when its state is "disponible".
func (s *Simulator) VerifyAvailability(_ context.Context, req *AvailabilityRequest) (*AvailabilityReply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.vehicles[req.VehicleID]
	if !ok {
		return &AvailabilityReply{Available: false, State: StateNotFound}, nil
	}
	return &AvailabilityReply{
		Available: strings.EqualFold(state, StateAvailable),
		State:     state,
	}, nil
}

// ParseFleet reads "id=state" pairs separated by commas, e.g. "V1=disponible,V2=en_ruta".
// Entries without a state are recorded as available.
func ParseFleet(raw string) map[string]string {
	vehicles := map[string]string{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, state, ok := strings.Cut(entry, "=")
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		state = strings.TrimSpace(state)
		if !ok || state == "" {
			state = StateAvailable
		}
		vehicles[id] = state
	}
	return vehicles
}
