package ports

import (
	"context"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
)

// EventPublisher forwards committed shipment changes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// NoopPublisher discards events. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.Event) error { return nil }
