package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME", "DB_SSLMODE", "DB_TX_TIMEOUT",
		"FLEET_GRPC_HOST", "FLEET_GRPC_PORT", "VEHICULOS_GRPC_HOST", "VEHICULOS_GRPC_PORT",
		"FLEET_TIMEOUT", "FLEET_BREAKER_FAILURES", "FLEET_BREAKER_COOLDOWN",
		"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED", "KAFKA_BROKERS", "KAFKA_TOPIC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "3003", cfg.Port)
	require.Equal(t, ":3003", cfg.Addr())
	require.Empty(t, cfg.PostgresDSN)
	require.Equal(t, 5*time.Second, cfg.TxTimeout)
	require.Equal(t, "localhost:50051", cfg.FleetAddress)
	require.Equal(t, 3*time.Second, cfg.FleetTimeout)
	require.Equal(t, uint32(5), cfg.BreakerFailures)
	require.Equal(t, 30*time.Second, cfg.BreakerCooldown)
	require.False(t, cfg.TemporalDisabled)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "shipments.events", cfg.KafkaTopic)
}

func TestLoadConfig_DatabaseFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "envios")
	t.Setenv("DB_PASS", "s3cret")
	t.Setenv("DB_NAME", "envios")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "host=db port=5432 user=envios password=s3cret dbname=envios sslmode=disable", cfg.PostgresDSN)

	t.Setenv("POSTGRES_DSN", "postgres://u:p@elsewhere:5432/app")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@elsewhere:5432/app", cfg.PostgresDSN)
}

func TestLoadConfig_FleetAddressFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("VEHICULOS_GRPC_HOST", "vehiculos")
	t.Setenv("VEHICULOS_GRPC_PORT", "6000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "vehiculos:6000", cfg.FleetAddress)

	t.Setenv("FLEET_GRPC_HOST", "fleet")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "fleet:6000", cfg.FleetAddress)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("FLEET_TIMEOUT", "750ms")
	t.Setenv("FLEET_BREAKER_FAILURES", "2")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, cfg.FleetTimeout)
	require.Equal(t, uint32(2), cfg.BreakerFailures)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"DB_TX_TIMEOUT":          "soon",
		"FLEET_TIMEOUT":          "-1s",
		"FLEET_BREAKER_COOLDOWN": "0s",
		"FLEET_BREAKER_FAILURES": "zero",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
			require.Contains(t, err.Error(), key)
		})
	}
}
