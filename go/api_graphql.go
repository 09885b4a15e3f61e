package shipmentserver

import (
	"net/http"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"

	apierrors "github.com/Apurer/go-gin-shipments-server/internal/shared/errors"
)

// GraphQLRequest is the standard GraphQL-over-HTTP POST body.
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLAPI serves the shipments schema and its playground.
type GraphQLAPI struct {
	schema *graphqlgo.Schema
}

// NewGraphQLAPI wraps a parsed schema.
func NewGraphQLAPI(schema *graphqlgo.Schema) GraphQLAPI {
	return GraphQLAPI{schema: schema}
}

// Post /graphql
// Executes a query or mutation
func (api *GraphQLAPI) Execute(c *gin.Context) {
	var payload GraphQLRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	response := api.schema.Exec(c.Request.Context(), payload.Query, payload.OperationName, payload.Variables)

	status := http.StatusOK
	for _, err := range response.Errors {
		// Resolver failures carry a path; parse and validation failures never reach a field.
		if len(err.Path) == 0 {
			status = http.StatusBadRequest
			break
		}
	}
	c.JSON(status, response)
}

// Get /graphql
// Serves the interactive playground
func (api *GraphQLAPI) Playground(c *gin.Context) {
	playground.Handler("Shipments", "/graphql").ServeHTTP(c.Writer, c.Request)
}
