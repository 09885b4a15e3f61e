package graphql

import (
	"context"
	"strconv"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

// Resolver is the root resolver for queries and mutations.
type Resolver struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
}

// NewResolver wires the root resolver. A nil orchestrator creates shipments through the service.
func NewResolver(service ports.Service, workflows ports.WorkflowOrchestrator) *Resolver {
	return &Resolver{service: service, workflows: workflows}
}

type shipmentArgs struct {
	ID graphqlgo.ID
}

type createShipmentArgs struct {
	UserID      int32
	VehicleID   string
	Origin      string
	Destination string
	ShipDate    string
}

type updateShipmentStatusArgs struct {
	ID     graphqlgo.ID
	Status string
}

func (r *Resolver) Shipments(ctx context.Context) ([]*ShipmentResolver, error) {
	shipments, err := r.service.ListShipments(ctx)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	out := make([]*ShipmentResolver, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, &ShipmentResolver{s: s})
	}
	return out, nil
}

func (r *Resolver) Shipment(ctx context.Context, args shipmentArgs) (*ShipmentResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	shipment, err := r.service.GetShipment(ctx, id)
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return wrap(shipment), nil
}

func (r *Resolver) CreateShipment(ctx context.Context, args createShipmentArgs) (*ShipmentResolver, error) {
	input := shipmenttypes.CreateShipmentInput{
		UserID:      args.UserID,
		VehicleID:   args.VehicleID,
		Origin:      args.Origin,
		Destination: args.Destination,
		ShipDate:    args.ShipDate,
	}
	var (
		shipment *domain.Shipment
		err      error
	)
	if r.workflows != nil {
		shipment, err = r.workflows.CreateShipment(ctx, input)
	} else {
		shipment, err = r.service.CreateShipment(ctx, input)
	}
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return wrap(shipment), nil
}

func (r *Resolver) UpdateShipmentStatus(ctx context.Context, args updateShipmentStatusArgs) (*ShipmentResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}
	shipment, err := r.service.UpdateShipmentStatus(ctx, shipmenttypes.UpdateStatusInput{ID: id, Status: args.Status})
	if err != nil {
		return nil, toGraphQLError(err)
	}
	return wrap(shipment), nil
}

func (r *Resolver) DeleteShipment(ctx context.Context, args shipmentArgs) (bool, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return false, err
	}
	deleted, err := r.service.DeleteShipment(ctx, id)
	if err != nil {
		return false, toGraphQLError(err)
	}
	return deleted, nil
}

// ShipmentResolver exposes a shipment to the GraphQL executor.
type ShipmentResolver struct {
	s *domain.Shipment
}

func wrap(s *domain.Shipment) *ShipmentResolver {
	if s == nil {
		return nil
	}
	return &ShipmentResolver{s: s}
}

func (r *ShipmentResolver) ID() graphqlgo.ID {
	return graphqlgo.ID(strconv.FormatInt(r.s.ID, 10))
}

func (r *ShipmentResolver) UserID() int32       { return r.s.UserID }
func (r *ShipmentResolver) VehicleID() string   { return r.s.VehicleID }
func (r *ShipmentResolver) Origin() string      { return r.s.Origin }
func (r *ShipmentResolver) Destination() string { return r.s.Destination }
func (r *ShipmentResolver) ShipDate() string    { return r.s.FormattedShipDate() }
func (r *ShipmentResolver) Status() string      { return string(r.s.Status) }

func parseID(id graphqlgo.ID) (int64, error) {
	value, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || value <= 0 {
		return 0, &Error{Message: "invalid shipment id " + strconv.Quote(string(id)), Code: application.KindInvalidInput}
	}
	return value, nil
}
