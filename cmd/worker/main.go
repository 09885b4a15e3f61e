package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-shipments-server/internal/app/api"
	platformobservability "github.com/Apurer/go-gin-shipments-server/internal/platform/observability"
	shipmentactivities "github.com/Apurer/go-gin-shipments-server/internal/platform/temporal/activities/shipments"
	shipmentworkflows "github.com/Apurer/go-gin-shipments-server/internal/platform/temporal/workflows/shipments"
)

func main() {
	ctx := context.Background()
	const serviceName = "shipments-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	core, err := api.BuildCore(ctx, cfg, serviceName, logger, nil)
	if err != nil {
		logger.Error("failed to build shipments core", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer core.Close()
	if !core.Durable {
		logger.Error("worker requires a reachable database; set POSTGRES_DSN or DB_HOST")
		os.Exit(1)
	}
	activities := shipmentactivities.NewActivities(core.Service)

	cfg.TemporalDisabled = false
	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, shipmentworkflows.ShipmentCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(shipmentworkflows.ShipmentCreationWorkflow, workflow.RegisterOptions{Name: shipmentworkflows.ShipmentCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.CheckAvailability, activity.RegisterOptions{Name: shipmentactivities.CheckAvailabilityActivityName})
	w.RegisterActivityWithOptions(activities.PersistShipment, activity.RegisterOptions{Name: shipmentactivities.PersistShipmentActivityName})

	logger.Info("worker listening", slog.String("taskQueue", shipmentworkflows.ShipmentCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
