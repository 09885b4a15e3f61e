package workflows

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
	shipmentworkflows "github.com/Apurer/go-gin-shipments-server/internal/platform/temporal/workflows/shipments"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalShipmentWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineShipmentWorkflows)(nil)
)

// WorkflowStarter is the part of the Temporal client the orchestrator uses.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	GetWorkflow(ctx context.Context, workflowID string, runID string) client.WorkflowRun
}

// TemporalShipmentWorkflows starts shipment workflows on a Temporal cluster.
type TemporalShipmentWorkflows struct {
	client    WorkflowStarter
	taskQueue string
}

// NewTemporalShipmentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalShipmentWorkflows(c WorkflowStarter) *TemporalShipmentWorkflows {
	return &TemporalShipmentWorkflows{client: c, taskQueue: shipmentworkflows.ShipmentCreationTaskQueue}
}

// CreateShipment runs the creation workflow and waits for its result. Failures raised by the
// activities come back as the application sentinels, so callers cannot tell the two modes apart.
// A repeated request with the same input within the same trace joins the earlier run instead of
// inserting twice; only a failed earlier run may be started again. Different input never shares a run.
func (o *TemporalShipmentWorkflows) CreateShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal shipment workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                    creationWorkflowID(input, traceComponent),
		TaskQueue:             o.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE_FAILED_ONLY,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		shipmentworkflows.ShipmentCreationWorkflowName,
		shipmentworkflows.ShipmentCreationWorkflowInput{Command: input, TraceID: traceComponent},
	)
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		run, err = o.client.GetWorkflow(ctx, options.ID, alreadyStarted.RunId), nil
	}
	if err != nil {
		return nil, err
	}
	var shipment domain.Shipment
	if err := run.Get(ctx, &shipment); err != nil {
		return nil, mapWorkflowError(err)
	}
	return &shipment, nil
}

// mapWorkflowError turns an ApplicationError typed with an error kind back into its sentinel.
func mapWorkflowError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	sentinel, ok := application.SentinelFor(application.Kind(appErr.Type()))
	if !ok {
		return err
	}
	return fmt.Errorf("%w: %s", sentinel, appErr.Message())
}

// InlineShipmentWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineShipmentWorkflows struct {
	service ports.Service
}

// NewInlineShipmentWorkflows wraps the shipments service for synchronous execution.
func NewInlineShipmentWorkflows(service ports.Service) *InlineShipmentWorkflows {
	return &InlineShipmentWorkflows{service: service}
}

// CreateShipment delegates to the application service without durable orchestration.
func (o *InlineShipmentWorkflows) CreateShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline shipment workflows not configured")
	}
	return o.service.CreateShipment(ctx, input)
}

// creationWorkflowID names the run after the vehicle, the trace and a fingerprint of the whole command.
func creationWorkflowID(input shipmenttypes.CreateShipmentInput, traceComponent string) string {
	fingerprint := strings.Join([]string{
		strconv.FormatInt(int64(input.UserID), 10),
		input.VehicleID,
		input.Origin,
		input.Destination,
		input.ShipDate,
	}, "\x00")
	return fmt.Sprintf("shipment-creation-%s-%s-%s", input.VehicleID, traceComponent, uuid.NewSHA1(uuid.NameSpaceOID, []byte(fingerprint)))
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
