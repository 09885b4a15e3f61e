package api

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	kafkaevents "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/events/kafka"
	platformpostgres "github.com/Apurer/go-gin-shipments-server/internal/platform/postgres"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port        string
	PostgresDSN string
	TxTimeout   time.Duration

	FleetAddress    string
	FleetTimeout    time.Duration
	BreakerFailures uint32
	BreakerCooldown time.Duration

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "3003"),
		PostgresDSN:       postgresDSNFromEnv(),
		FleetAddress:      fleetAddressFromEnv(),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:      kafkaevents.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        envDefault("KAFKA_TOPIC", "shipments.events"),
	}

	var err error
	if cfg.TxTimeout, err = durationEnv("DB_TX_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.FleetTimeout, err = durationEnv("FLEET_TIMEOUT", 3*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.BreakerCooldown, err = durationEnv("FLEET_BREAKER_COOLDOWN", 30*time.Second); err != nil {
		return Config{}, err
	}
	cfg.BreakerFailures = 5
	if raw := strings.TrimSpace(os.Getenv("FLEET_BREAKER_FAILURES")); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			return Config{}, fmt.Errorf("FLEET_BREAKER_FAILURES must be a positive integer")
		}
		cfg.BreakerFailures = uint32(n)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// postgresDSNFromEnv prefers POSTGRES_DSN and otherwise assembles one from the DB_* variables.
// An empty result means no database is configured.
func postgresDSNFromEnv() string {
	if dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN")); dsn != "" {
		return dsn
	}
	host := strings.TrimSpace(os.Getenv("DB_HOST"))
	if host == "" {
		return ""
	}
	return platformpostgres.DSN(
		host,
		envDefault("DB_PORT", "5432"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_SSLMODE"),
	)
}

func fleetAddressFromEnv() string {
	host := envDefault("FLEET_GRPC_HOST", envDefault("VEHICULOS_GRPC_HOST", "localhost"))
	port := envDefault("FLEET_GRPC_PORT", envDefault("VEHICULOS_GRPC_PORT", "50051"))
	return net.JoinHostPort(host, port)
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 5s", key)
	}
	return d, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
