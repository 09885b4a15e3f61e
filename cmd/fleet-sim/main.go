package main

import (
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	fleetgrpc "github.com/Apurer/go-gin-shipments-server/internal/clients/grpc/fleet"
)

// fleet-sim serves the vehicle availability RPC from an in-memory fleet so the
// shipments API can run locally without the real fleet service.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	addr := ":" + envOrDefault("FLEET_SIM_PORT", "50051")
	vehicles := fleetgrpc.ParseFleet(envOrDefault("FLEET_SIM_VEHICLES", "V1=disponible,V2=en_ruta,V3=disponible"))

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Error("failed to listen", slog.String("addr", addr), slog.String("error", err.Error()))
		os.Exit(1)
	}
	server := fleetgrpc.NewGRPCServer()
	fleetgrpc.RegisterAvailabilityServer(server, fleetgrpc.NewSimulator(vehicles))

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("stopping fleet simulator")
		server.GracefulStop()
	}()

	logger.Info("fleet simulator listening", slog.String("addr", addr), slog.Int("vehicles", len(vehicles)))
	if err := server.Serve(listener); err != nil {
		logger.Error("fleet simulator exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
