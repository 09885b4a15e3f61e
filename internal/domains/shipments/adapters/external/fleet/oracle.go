package fleet

import (
	"context"
	"log/slog"

	fleetclient "github.com/Apurer/go-gin-shipments-server/internal/clients/grpc/fleet"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/resilience"
)

var _ ports.AvailabilityOracle = (*Oracle)(nil)

// Verifier is the subset of the fleet gRPC client the oracle needs.
type Verifier interface {
	VerifyAvailability(ctx context.Context, vehicleID string) (fleetclient.AvailabilityReply, error)
}

// Oracle adapts the fleet availability RPC to the shipments port. Calls go through a
// circuit breaker so a dead fleet service fails fast; nothing is retried or cached.
type Oracle struct {
	client  Verifier
	breaker *resilience.CircuitBreaker
	logger  *slog.Logger
}

// NewOracle wires the adapter. A nil breaker disables fast failing.
func NewOracle(client Verifier, breaker *resilience.CircuitBreaker, logger *slog.Logger) *Oracle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Oracle{client: client, breaker: breaker, logger: logger}
}

// CheckAvailability returns the fleet's answer. Errors mean no answer was obtained.
func (o *Oracle) CheckAvailability(ctx context.Context, vehicleID string) (bool, error) {
	call := func(ctx context.Context) (fleetclient.AvailabilityReply, error) {
		return o.client.VerifyAvailability(ctx, vehicleID)
	}
	var (
		reply fleetclient.AvailabilityReply
		err   error
	)
	if o.breaker != nil {
		reply, err = resilience.Execute(ctx, o.breaker, call)
	} else {
		reply, err = call(ctx)
	}
	if err != nil {
		o.logger.WarnContext(ctx, "fleet availability check failed",
			slog.String("vehicle_id", vehicleID),
			slog.String("error", err.Error()))
		return false, err
	}
	o.logger.DebugContext(ctx, "fleet availability answered",
		slog.String("vehicle_id", vehicleID),
		slog.Bool("available", reply.Available),
		slog.String("state", reply.State))
	return reply.Available, nil
}
