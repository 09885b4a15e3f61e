package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"

	shipmentserver "github.com/Apurer/go-gin-shipments-server/go"

	shipmentsgraphql "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/graphql"
	shipmentsobs "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/observability"
	shipmentsworkflows "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/workflows"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/metrics"
	platformobservability "github.com/Apurer/go-gin-shipments-server/internal/platform/observability"
)

const serviceName = "shipments-api"

// Run boots the shipments HTTP API with observability, storage, the fleet oracle and workflows wired.
// It returns when ctx is cancelled or the listener fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger
	promMetrics := metrics.New(serviceName)

	core, err := BuildCore(ctx, cfg, serviceName, logger, promMetrics)
	if err != nil {
		return err
	}
	defer core.Close()

	shipmentService := shipmentsobs.New(
		core.Service,
		shipmentsobs.WithLogger(logger),
		shipmentsobs.WithTracer(instruments.Tracer("internal.shipments.application")),
		shipmentsobs.WithMeter(instruments.Meter("internal.shipments.application")),
	)
	workflows, closeWorkflows := ChooseWorkflows(
		core.Durable,
		func() (client.Client, error) { return ConnectTemporal(cfg, instruments) },
		shipmentsworkflows.NewInlineShipmentWorkflows(shipmentService),
		logger.With(slog.String("namespace", cfg.TemporalNamespace)),
	)
	defer closeWorkflows()

	schema, err := shipmentsgraphql.NewSchema(shipmentService, workflows)
	if err != nil {
		return fmt.Errorf("failed to parse graphql schema: %w", err)
	}
	engine := gin.New()
	engine.Use(otelgin.Middleware(serviceName))
	router := shipmentserver.NewRouterWithGinEngine(engine, shipmentserver.ApiHandleFunctions{
		ShipmentAPI: shipmentserver.NewShipmentAPI(shipmentService, workflows),
		GraphQLAPI:  shipmentserver.NewGraphQLAPI(schema),
		Metrics:     promMetrics,
	})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("shipments API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("shipments API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		logger.Info("shutting down shipments API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
