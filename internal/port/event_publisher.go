package port

import "context"

type EventPublisher interface {
	// Publish attempts delivery of payload to the named topic
	Publish(ctx context.Context, topic string, payload map[string]any) error
}
