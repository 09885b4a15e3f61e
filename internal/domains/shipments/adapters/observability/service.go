package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	shipmenttypes "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application/types"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

const tracerName = "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/observability/service"

// Service decorates the shipments application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// ListShipments returns every shipment.
func (s *Service) ListShipments(ctx context.Context) ([]*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Service.ListShipments")
	defer span.End()

	result, err := s.inner.ListShipments(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list shipments")
	}
	span.SetAttributes(attribute.Int("shipment.result.count", len(result)))
	s.logInfo(ctx, "listed shipments", slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) GetShipment(ctx context.Context, id int64) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Service.GetShipment", attribute.Int64("shipment.id", id))
	defer span.End()

	result, err := s.inner.GetShipment(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load shipment", slog.Int64("shipment.id", id))
	}
	span.SetAttributes(attribute.Bool("shipment.found", result != nil))
	return result, nil
}

// CreateShipment runs the gated creation workflow with instrumentation.
func (s *Service) CreateShipment(ctx context.Context, input shipmenttypes.CreateShipmentInput) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateShipment",
		attribute.String("vehicle.id", input.VehicleID),
		attribute.Int("user.id", int(input.UserID)),
	)
	defer span.End()

	s.logInfo(ctx, "creating shipment", slog.String("vehicle.id", input.VehicleID))
	result, err := s.inner.CreateShipment(ctx, input)
	if err != nil {
		kind := application.KindOf(err)
		span.SetAttributes(attribute.String("shipment.error.kind", string(kind)))
		s.metrics.recordRejected(ctx, kind)
		return nil, s.handleError(ctx, span, err, "failed to create shipment",
			slog.String("vehicle.id", input.VehicleID),
			slog.String("kind", string(kind)))
	}
	span.SetAttributes(attribute.Int64("shipment.id", result.ID))
	s.metrics.recordCreated(ctx, result.Status)
	s.logInfo(ctx, "shipment created", slog.Int64("shipment.id", result.ID), slog.String("vehicle.id", result.VehicleID))
	return result, nil
}

// UpdateShipmentStatus replaces the status of a shipment.
func (s *Service) UpdateShipmentStatus(ctx context.Context, input shipmenttypes.UpdateStatusInput) (*domain.Shipment, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateShipmentStatus",
		attribute.Int64("shipment.id", input.ID),
		attribute.String("shipment.status", input.Status),
	)
	defer span.End()

	result, err := s.inner.UpdateShipmentStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update shipment status", slog.Int64("shipment.id", input.ID))
	}
	if result == nil {
		span.SetAttributes(attribute.Bool("shipment.found", false))
		return nil, nil
	}
	s.metrics.recordStatusChanged(ctx, result.Status)
	s.logInfo(ctx, "shipment status updated", slog.Int64("shipment.id", result.ID), slog.String("status", string(result.Status)))
	return result, nil
}

// DeleteShipment removes a shipment.
func (s *Service) DeleteShipment(ctx context.Context, id int64) (bool, error) {
	ctx, span := s.startSpan(ctx, "Service.DeleteShipment", attribute.Int64("shipment.id", id))
	defer span.End()

	deleted, err := s.inner.DeleteShipment(ctx, id)
	if err != nil {
		return false, s.handleError(ctx, span, err, "failed to delete shipment", slog.Int64("shipment.id", id))
	}
	span.SetAttributes(attribute.Bool("shipment.deleted", deleted))
	if deleted {
		s.metrics.recordDeleted(ctx)
		s.logInfo(ctx, "shipment deleted", slog.Int64("shipment.id", id))
	}
	return deleted, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	shipmentsCreated  metric.Int64Counter
	shipmentsRejected metric.Int64Counter
	statusChanges     metric.Int64Counter
	shipmentsDeleted  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("shipments.service.created", metric.WithDescription("Number of shipments created"))
	rejected, _ := m.Int64Counter("shipments.service.rejected", metric.WithDescription("Number of shipment creations that failed, by kind"))
	changed, _ := m.Int64Counter("shipments.service.status_changed", metric.WithDescription("Number of shipment status updates"))
	deleted, _ := m.Int64Counter("shipments.service.deleted", metric.WithDescription("Number of shipments deleted"))
	return serviceMetrics{
		shipmentsCreated:  created,
		shipmentsRejected: rejected,
		statusChanges:     changed,
		shipmentsDeleted:  deleted,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.shipmentsCreated, 1, attribute.String("shipment.status", string(status)))
}

func (m serviceMetrics) recordRejected(ctx context.Context, kind application.Kind) {
	addCounter(ctx, m.shipmentsRejected, 1, attribute.String("shipment.error.kind", string(kind)))
}

func (m serviceMetrics) recordStatusChanged(ctx context.Context, status domain.Status) {
	addCounter(ctx, m.statusChanges, 1, attribute.String("shipment.status", string(status)))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.shipmentsDeleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
