package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// VerifyAvailabilityMethod is the full gRPC method name exposed by the fleet service.
const VerifyAvailabilityMethod = "/vehiculos.VehiculosService/VerificarDisponibilidad"

// DefaultTimeout bounds a single availability call when none is configured.
const DefaultTimeout = 3 * time.Second

// ErrUnavailable reports that the fleet service did not give an answer: it could not be
// reached, timed out, or failed internally. A negative answer is not an error.
var ErrUnavailable = errors.New("fleet service unavailable")

// Client calls the fleet availability RPC over one long-lived channel.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

// Option configures the Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout     time.Duration
	dialOptions []grpc.DialOption
}

// WithTimeout bounds each call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithDialOptions appends raw gRPC dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *clientOptions) {
		o.dialOptions = append(o.dialOptions, opts...)
	}
}

// NewClient prepares a channel to target (host:port). The connection is established lazily.
func NewClient(target string, opts ...Option) (*Client, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, errors.New("fleet target is required")
	}
	options := clientOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	dialOptions := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	}, options.dialOptions...)
	conn, err := grpc.NewClient(target, dialOptions...)
	if err != nil {
		return nil, fmt.Errorf("build fleet client: %w", err)
	}
	return &Client{conn: conn, timeout: options.timeout}, nil
}

// VerifyAvailability asks whether vehicleID can take a shipment. Any failure to obtain an
// answer is returned wrapped in ErrUnavailable.
func (c *Client) VerifyAvailability(ctx context.Context, vehicleID string) (AvailabilityReply, error) {
	if c == nil || c.conn == nil {
		return AvailabilityReply{}, fmt.Errorf("%w: client not configured", ErrUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := &AvailabilityRequest{VehicleID: vehicleID}
	reply := &AvailabilityReply{}
	if err := c.conn.Invoke(ctx, VerifyAvailabilityMethod, req, reply); err != nil {
		st, _ := status.FromError(err)
		return AvailabilityReply{}, fmt.Errorf("%w: %s: %s", ErrUnavailable, st.Code(), st.Message())
	}
	return *reply, nil
}

// Close releases the channel.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
