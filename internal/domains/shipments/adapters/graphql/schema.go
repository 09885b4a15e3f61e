package graphql

import (
	graphqlgo "github.com/graph-gophers/graphql-go"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

// Schema is the public GraphQL contract of the shipments service.
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

type Shipment {
	id: ID!
	userId: Int!
	vehicleId: String!
	origin: String!
	destination: String!
	shipDate: String!
	status: String!
}

type Query {
	shipments: [Shipment!]!
	shipment(id: ID!): Shipment
}

type Mutation {
	createShipment(userId: Int!, vehicleId: String!, origin: String!, destination: String!, shipDate: String!): Shipment!
	updateShipmentStatus(id: ID!, status: String!): Shipment
	deleteShipment(id: ID!): Boolean!
}
`

// NewSchema parses Schema and binds it to the resolvers. Creation goes through workflows.
func NewSchema(service ports.Service, workflows ports.WorkflowOrchestrator) (*graphqlgo.Schema, error) {
	return graphqlgo.ParseSchema(Schema, NewResolver(service, workflows))
}
