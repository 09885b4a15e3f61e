package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
)

// Publisher logs and counts failed event deliveries of any ports.EventPublisher.
// The service drops publish errors, so this is where they become visible.
type Publisher struct {
	inner  ports.EventPublisher
	logger *slog.Logger
	failed metric.Int64Counter
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger injects a slog logger.
func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithPublisherMeter creates the failure counter on m.
func WithPublisherMeter(m metric.Meter) PublisherOption {
	return func(p *Publisher) {
		if m == nil {
			return
		}
		p.failed, _ = m.Int64Counter("shipments.events.failed", metric.WithDescription("Number of shipment events that could not be delivered"))
	}
}

// NewPublisher wraps inner.
func NewPublisher(inner ports.EventPublisher, opts ...PublisherOption) ports.EventPublisher {
	p := &Publisher{inner: inner, logger: defaultLogger()}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.logger == nil {
		p.logger = defaultLogger()
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, event domain.Event) error {
	err := p.inner.Publish(ctx, event)
	if err == nil {
		return nil
	}
	p.logger.WarnContext(ctx, "failed to publish shipment event",
		slog.String("event", event.EventName()),
		slog.Int64("shipment.id", event.AggregateID()),
		slog.String("error", err.Error()))
	addCounter(ctx, p.failed, 1, attribute.String("event", event.EventName()))
	return err
}
