package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"

	shipmentsworkflows "github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/adapters/workflows"
)

type stubTemporalClient struct {
	client.Client
	closed bool
}

func (c *stubTemporalClient) Close() { c.closed = true }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildCore_MemoryFallbackIsNotDurable(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	core, err := BuildCore(context.Background(), cfg, "shipments-test", discardLogger(), nil)
	require.NoError(t, err)
	t.Cleanup(core.Close)

	require.NotNil(t, core.Service)
	require.False(t, core.Durable)
}

func TestChooseWorkflows_InlineWhenStoreNotDurable(t *testing.T) {
	inline := shipmentsworkflows.NewInlineShipmentWorkflows(nil)
	dialled := false

	workflows, closeFn := ChooseWorkflows(false, func() (client.Client, error) {
		dialled = true
		return &stubTemporalClient{}, nil
	}, inline, discardLogger())
	closeFn()

	require.Same(t, inline, workflows)
	require.False(t, dialled)
}

func TestChooseWorkflows_InlineWhenTemporalUnreachable(t *testing.T) {
	inline := shipmentsworkflows.NewInlineShipmentWorkflows(nil)

	workflows, closeFn := ChooseWorkflows(true, func() (client.Client, error) {
		return nil, errors.New("connection refused")
	}, inline, discardLogger())
	closeFn()

	require.Same(t, inline, workflows)
}

func TestChooseWorkflows_TemporalWhenStoreDurable(t *testing.T) {
	inline := shipmentsworkflows.NewInlineShipmentWorkflows(nil)
	temporalClient := &stubTemporalClient{}

	workflows, closeFn := ChooseWorkflows(true, func() (client.Client, error) {
		return temporalClient, nil
	}, inline, discardLogger())

	require.IsType(t, &shipmentsworkflows.TemporalShipmentWorkflows{}, workflows)
	closeFn()
	require.True(t, temporalClient.closed)
}
