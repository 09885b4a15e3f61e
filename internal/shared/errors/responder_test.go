package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	router := gin.New()
	router.GET("/things/:id", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/1", nil))

	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestRespond_SetsInstanceAndContentType(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		Respond(c, ErrConflict.WithDetail("busy").WithCode("VEHICLE_UNAVAILABLE"))
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "/things/1", problem.Instance)
	require.Equal(t, "busy", problem.Detail)
	require.Equal(t, "VEHICLE_UNAVAILABLE", problem.Code)
}

func TestRespondError_UsesMappersThenFallsBack(t *testing.T) {
	sentinel := stderrors.New("dependency down")
	responder := NewResponder("https://example.test", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, sentinel) {
			return ErrServiceUnavailable.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, sentinel) })
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "https://example.test"+TypeServiceUnavailable, problem.Type)

	rec, problem = serve(t, func(c *gin.Context) { responder.RespondError(c, NewNotFoundProblem("shipment", 9)) })
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "shipment", problem.Extensions["resourceType"])

	rec, _ = serve(t, func(c *gin.Context) { responder.RespondError(c, stderrors.New("boom")) })
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
