package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TopicItemAdded   = "item.added"
	TopicItemRemoved = "item.removed"
)

// Event is a snapshot of a mutation, handed to the publisher after the store commit.
type Event struct {
	ID         uuid.UUID
	Topic      string
	Payload    map[string]any
	OccurredAt time.Time
	// Headers carries propagation fields (traceparent) captured from the request.
	Headers map[string]string
}

func NewItemAdded(item Item, at time.Time) Event {
	return Event{
		ID:    uuid.New(),
		Topic: TopicItemAdded,
		Payload: map[string]any{
			"id":        item.ID,
			"name":      item.Name,
			"type":      item.Type,
			"rarity":    item.Rarity.Label(),
			"quantity":  item.Quantity,
			"timestamp": at.Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

// NewItemRemoved carries only id and name, unlike NewItemAdded.
func NewItemRemoved(item Item, at time.Time) Event {
	return Event{
		ID:    uuid.New(),
		Topic: TopicItemRemoved,
		Payload: map[string]any{
			"id":        item.ID,
			"name":      item.Name,
			"timestamp": at.Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

type eventIDKey struct{}

// ContextWithEventID tags ctx with the id of the event being published so
// the broker message carries the same id the service logged.
func ContextWithEventID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, eventIDKey{}, id)
}

func EventIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(eventIDKey{}).(uuid.UUID)
	return id, ok
}
