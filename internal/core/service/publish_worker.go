package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/rl1809/item-inventory/internal/core/domain"
	"github.com/rl1809/item-inventory/internal/port"
)

const publishTimeout = 5 * time.Second

// PublishWorker drains queue until it is closed. Each event is published on
// a fresh context so a cancelled request never cancels its event. Failures
// are logged and dropped; there is no retry.
func PublishWorker(id int, queue <-chan domain.Event, publisher port.EventPublisher, log *zap.Logger) {
	log = log.With(zap.Int("worker", id))

	for event := range queue {
		ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(event.Headers))
		ctx = domain.ContextWithEventID(ctx, event.ID)
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)

		if err := publisher.Publish(ctx, event.Topic, event.Payload); err != nil {
			log.Error("failed to publish event",
				zap.String("topic", event.Topic),
				zap.Stringer("event_id", event.ID),
				zap.Error(err),
			)
		} else {
			log.Debug("published event", zap.String("topic", event.Topic), zap.Stringer("event_id", event.ID))
		}

		cancel()
	}
}
