package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	fleetgrpc "github.com/Apurer/go-gin-shipments-server/internal/clients/grpc/fleet"
	kafkaevents "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/events/kafka"
	fleetoracle "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/external/fleet"
	shipmentsmemory "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/memory"
	shipmentsobs "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/observability"
	shipmentspostgres "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/persistence/postgres"
	shipmentsworkflows "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/workflows"
	shipmentsapp "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/application"
	shipmentsports "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/metrics"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-gin-shipments-server/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-gin-shipments-server/internal/platform/postgres"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/resilience"
)

// Core is the shipments application with its collaborators, shared by the API and the worker.
type Core struct {
	Service *shipmentsapp.Service
	// Durable is false when the store fell back to process-local memory. Such a store is
	// invisible to other processes, so work must not be handed to a worker.
	Durable bool
	close   []func()
}

// Close releases the store, fleet connection and event writer in reverse order.
func (c *Core) Close() {
	for i := len(c.close) - 1; i >= 0; i-- {
		c.close[i]()
	}
}

// BuildCore wires the store, availability oracle and event publisher into the shipments service.
// m may be nil, in which case breaker state and publish outcomes are not exported.
func BuildCore(ctx context.Context, cfg Config, serviceName string, logger *slog.Logger, m *metrics.Metrics) (*Core, error) {
	core := &Core{}

	repo, tx, durable, closeStore, err := buildShipmentStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	core.Durable = durable
	core.close = append(core.close, closeStore)

	oracle, closeFleet, err := buildOracle(cfg, logger, m)
	if err != nil {
		core.Close()
		return nil, err
	}
	core.close = append(core.close, closeFleet)

	publisher, closePublisher := buildPublisher(cfg, serviceName, logger, m)
	core.close = append(core.close, closePublisher)

	core.Service = shipmentsapp.NewService(repo, tx, oracle, shipmentsapp.WithEventPublisher(publisher))
	return core, nil
}

func buildShipmentStore(ctx context.Context, cfg Config, logger *slog.Logger) (shipmentsports.Repository, shipmentsports.Transactor, bool, func(), error) {
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		repo := shipmentsmemory.NewRepository()
		return repo, shipmentsmemory.NewTransactor(repo), false, cleanup, nil
	}
	if err := migrations.Run(db); err != nil {
		cleanup()
		return nil, nil, false, nil, fmt.Errorf("migrate shipments schema: %w", err)
	}
	logger.Info("shipment store configured with postgres", slog.String("target", platformpostgres.Describe(cfg.PostgresDSN)))
	return shipmentspostgres.NewRepository(db), platformpostgres.NewTransactor(db, cfg.TxTimeout), true, cleanup, nil
}

func buildOracle(cfg Config, logger *slog.Logger, m *metrics.Metrics) (shipmentsports.AvailabilityOracle, func(), error) {
	fleetClient, err := fleetgrpc.NewClient(cfg.FleetAddress, fleetgrpc.WithTimeout(cfg.FleetTimeout))
	if err != nil {
		return nil, nil, fmt.Errorf("create fleet client: %w", err)
	}
	var observers []resilience.StateObserver
	if m != nil {
		observers = append(observers, m.ObserveBreakerState)
	}
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{
		Name:                "fleet-availability",
		FailureThreshold:    cfg.BreakerFailures,
		Cooldown:            cfg.BreakerCooldown,
		MaxHalfOpenRequests: 1,
	}, logger, observers...)
	logger.Info("fleet availability client configured", slog.String("target", cfg.FleetAddress), slog.Duration("timeout", cfg.FleetTimeout))
	return fleetoracle.NewOracle(fleetClient, breaker, logger), func() { _ = fleetClient.Close() }, nil
}

func buildPublisher(cfg Config, serviceName string, logger *slog.Logger, m *metrics.Metrics) (shipmentsports.EventPublisher, func()) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("KAFKA_BROKERS not set, shipment events are not published")
		return shipmentsports.NoopPublisher{}, func() {}
	}
	var opts []kafkaevents.Option
	if m != nil {
		opts = append(opts, kafkaevents.WithRecorder(m.RecordEventPublished))
	}
	publisher := kafkaevents.NewPublisher(kafkaevents.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic), serviceName, opts...)
	logger.Info("shipment events published to kafka", slog.String("topic", cfg.KafkaTopic), slog.Any("brokers", cfg.KafkaBrokers))
	return shipmentsobs.NewPublisher(publisher, shipmentsobs.WithPublisherLogger(logger)), func() { _ = publisher.Close() }
}

// ChooseWorkflows picks the creation orchestrator. Creation stays inline when the store is not
// durable, because a worker would write into its own store, or when Temporal cannot be reached.
// The returned func releases the Temporal client, if any.
func ChooseWorkflows(durable bool, connect func() (client.Client, error), inline shipmentsports.WorkflowOrchestrator, logger *slog.Logger) (shipmentsports.WorkflowOrchestrator, func()) {
	if !durable {
		logger.Warn("shipment store is in memory, running shipment creation inline")
		return inline, func() {}
	}
	temporalClient, err := connect()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, running shipment creation inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	logger.Info("Temporal workflows enabled")
	return shipmentsworkflows.NewTemporalShipmentWorkflows(temporalClient), temporalClient.Close
}

// ConnectTemporal dials Temporal with tracing and structured logging, unless disabled.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
