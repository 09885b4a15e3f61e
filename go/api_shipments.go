package shipmentserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	shipmenthttpmapper "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/http/mapper"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	shipmentsports "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
	apierrors "github.com/Apurer/go-gin-shipments-server/internal/shared/errors"
)

// ShipmentAPI wires HTTP transport with the shipments service and creation workflow.
type ShipmentAPI struct {
	service   shipmentsports.Service
	workflows shipmentsports.WorkflowOrchestrator
}

// NewShipmentAPI creates a ShipmentAPI. workflows may be nil, in which case creation calls the service directly.
func NewShipmentAPI(service shipmentsports.Service, workflows shipmentsports.WorkflowOrchestrator) ShipmentAPI {
	return ShipmentAPI{service: service, workflows: workflows}
}

// Get /v1/shipments
// Lists shipments, newest first
func (api *ShipmentAPI) ListShipments(c *gin.Context) {
	shipments, err := api.service.ListShipments(c.Request.Context())
	if err != nil {
		respondShipmentServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomainList(shipments))
}

// Get /v1/shipments/:shipmentId
// Find shipment by ID
func (api *ShipmentAPI) GetShipment(c *gin.Context) {
	id, ok := parseIDParam(c, "shipmentId")
	if !ok {
		return
	}
	shipment, err := api.service.GetShipment(c.Request.Context(), id)
	if err != nil {
		respondShipmentServiceError(c, err)
		return
	}
	if shipment == nil {
		respondProblem(c, apierrors.NewNotFoundProblem("shipment", id))
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomain(shipment))
}

// Post /v1/shipments
// Creates a shipment after the fleet confirms the vehicle is available
func (api *ShipmentAPI) CreateShipment(c *gin.Context) {
	var payload shipmenthttpmapper.CreateShipmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	created, err := api.createShipment(c.Request.Context(), shipmenthttpmapper.ToCreateInput(payload))
	if err != nil {
		respondShipmentServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipmenthttpmapper.FromDomain(created))
}

func (api *ShipmentAPI) createShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	if api.workflows != nil {
		return api.workflows.CreateShipment(ctx, input)
	}
	return api.service.CreateShipment(ctx, input)
}

// Patch /v1/shipments/:shipmentId/status
// Replaces the status of a shipment
func (api *ShipmentAPI) UpdateShipmentStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "shipmentId")
	if !ok {
		return
	}
	var payload shipmenthttpmapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return
	}
	updated, err := api.service.UpdateShipmentStatus(c.Request.Context(), shipmenttypes.UpdateStatusInput{ID: id, Status: payload.Status})
	if err != nil {
		respondShipmentServiceError(c, err)
		return
	}
	if updated == nil {
		respondProblem(c, apierrors.NewNotFoundProblem("shipment", id))
		return
	}
	c.JSON(http.StatusOK, shipmenthttpmapper.FromDomain(updated))
}

// Delete /v1/shipments/:shipmentId
// Deletes a shipment
func (api *ShipmentAPI) DeleteShipment(c *gin.Context) {
	id, ok := parseIDParam(c, "shipmentId")
	if !ok {
		return
	}
	deleted, err := api.service.DeleteShipment(c.Request.Context(), id)
	if err != nil {
		respondShipmentServiceError(c, err)
		return
	}
	if !deleted {
		respondProblem(c, apierrors.NewNotFoundProblem("shipment", id))
		return
	}
	c.Status(http.StatusNoContent)
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		respondProblem(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
		return 0, false
	}
	return id, true
}
