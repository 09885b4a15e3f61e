package shipmentserver

import (
	"github.com/gin-gonic/gin"

	shipmentsapp "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	apierrors "github.com/Apurer/go-gin-shipments-server/internal/shared/errors"
)

var responder = apierrors.NewResponder("", shipmentProblem)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondShipmentServiceError turns a service error into an RFC 7807 response keyed by its kind.
func respondShipmentServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

func shipmentProblem(err error) (apierrors.ProblemDetail, bool) {
	kind := shipmentsapp.KindOf(err)
	var problem apierrors.ProblemDetail
	switch kind {
	case shipmentsapp.KindInvalidInput:
		problem = apierrors.ErrValidation.WithDetail(err.Error())
	case shipmentsapp.KindVehicleUnavailable:
		problem = apierrors.ErrConflict.WithDetail(err.Error())
	case shipmentsapp.KindOracleUnavailable:
		problem = apierrors.ErrServiceUnavailable.WithDetail(err.Error())
	case shipmentsapp.KindPersistence:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	default:
		return apierrors.ProblemDetail{}, false
	}
	return problem.WithCode(string(kind)), true
}
