package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-shipments-server/internal/app/api"
	"github.com/Apurer/go-gin-shipments-server/internal/platform/migrations"
	platformpostgres "github.com/Apurer/go-gin-shipments-server/internal/platform/postgres"
)

// migrate applies the shipments schema and exits. The API migrates on boot too;
// this job exists for deployments that run the API with reduced privileges.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN/DB_HOST not set or connection failed; cannot migrate")
	}

	if err := migrations.Run(db); err != nil {
		log.Fatalf("failed to migrate shipments schema: %v", err)
	}
	logger.Info("shipments schema migrated", slog.String("target", platformpostgres.Describe(cfg.PostgresDSN)))
}
