package port

import (
	"context"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

type ListingCache interface {
	// Get returns the cached listing; ok is false on a miss or after expiry
	Get(ctx context.Context) (items []domain.Item, ok bool, err error)

	// Set replaces the cached listing and restarts its TTL
	Set(ctx context.Context, items []domain.Item) error

	// Invalidate drops the cached listing, no-op when absent
	Invalidate(ctx context.Context) error
}
