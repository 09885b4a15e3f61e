package shipmentserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-gin-shipments-server/internal/platform/metrics"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/middleware"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers the router dispatches to.
type ApiHandleFunctions struct {
	ShipmentAPI ShipmentAPI
	GraphQLAPI  GraphQLAPI
	// Metrics is optional; when set, requests are measured and /metrics is served.
	Metrics *metrics.Metrics
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(gin.Recovery(), middleware.RequestID())
	if handleFunctions.Metrics != nil {
		router.Use(middleware.Metrics(handleFunctions.Metrics))
		router.GET("/metrics", middleware.MetricsEndpoint(handleFunctions.Metrics))
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"Healthz",
			http.MethodGet,
			"/healthz",
			Healthz,
		},
		{
			"ListShipments",
			http.MethodGet,
			"/v1/shipments",
			handleFunctions.ShipmentAPI.ListShipments,
		},
		{
			"CreateShipment",
			http.MethodPost,
			"/v1/shipments",
			handleFunctions.ShipmentAPI.CreateShipment,
		},
		{
			"GetShipment",
			http.MethodGet,
			"/v1/shipments/:shipmentId",
			handleFunctions.ShipmentAPI.GetShipment,
		},
		{
			"UpdateShipmentStatus",
			http.MethodPatch,
			"/v1/shipments/:shipmentId/status",
			handleFunctions.ShipmentAPI.UpdateShipmentStatus,
		},
		{
			"DeleteShipment",
			http.MethodDelete,
			"/v1/shipments/:shipmentId",
			handleFunctions.ShipmentAPI.DeleteShipment,
		},
		{
			"ExecuteGraphQL",
			http.MethodPost,
			"/graphql",
			handleFunctions.GraphQLAPI.Execute,
		},
		{
			"GraphQLPlayground",
			http.MethodGet,
			"/graphql",
			handleFunctions.GraphQLAPI.Playground,
		},
	}
}
