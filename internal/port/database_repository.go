package port

import (
	"context"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

// ItemRepository persists items keyed by id. Lookups of unknown ids return
// domain.ErrNotFound; transport failures wrap domain.ErrStoreUnavailable.
type ItemRepository interface {
	// Create inserts the item and returns it with id and timestamps assigned
	Create(ctx context.Context, item domain.NewItem) (domain.Item, error)

	// FindByID retrieves an item by id
	FindByID(ctx context.Context, id int64) (domain.Item, error)

	// UpdateQuantity overwrites the quantity of an existing item
	UpdateQuantity(ctx context.Context, id int64, quantity int) (domain.Item, error)

	// Delete hard-deletes the item
	Delete(ctx context.Context, id int64) error

	// ListAllOrderedByIDDesc returns every item, newest id first
	ListAllOrderedByIDDesc(ctx context.Context) ([]domain.Item, error)
}
