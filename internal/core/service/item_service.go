package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/rl1809/item-inventory/internal/core/domain"
	"github.com/rl1809/item-inventory/internal/port"
)

// AddItemInput is the unvalidated input of Add. Rarity holds either an
// ordinal ("0".."4") or a label.
type AddItemInput struct {
	Name     string
	Type     string
	Rarity   string
	Quantity int
}

type ItemService struct {
	repo  port.ItemRepository
	cache port.ListingCache
	log   *zap.Logger
	now   func() time.Time

	mu     sync.RWMutex
	closed bool
	events chan domain.Event
}

func NewItemService(repo port.ItemRepository, cache port.ListingCache, queueSize int, log *zap.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		cache:  cache,
		log:    log.Named("item-service"),
		now:    time.Now,
		events: make(chan domain.Event, queueSize),
	}
}

// List serves the full listing from the cache, rebuilding it from the store on a miss.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	items, ok, err := s.cache.Get(ctx)
	if err != nil {
		s.log.Warn("listing cache read failed", zap.Error(err))
	}
	if ok {
		return items, nil
	}

	items, err = s.repo.ListAllOrderedByIDDesc(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}

	if err := s.cache.Set(ctx, items); err != nil {
		s.log.Warn("listing cache write failed", zap.Error(err))
	}
	return items, nil
}

func (s *ItemService) Add(ctx context.Context, in AddItemInput) (domain.Item, error) {
	rarity, err := domain.ParseRarity(in.Rarity)
	if err != nil {
		return domain.Item{}, err
	}

	newItem := domain.NewItem{
		Name:     in.Name,
		Type:     in.Type,
		Rarity:   rarity,
		Quantity: in.Quantity,
	}
	if err := newItem.Validate(); err != nil {
		return domain.Item{}, err
	}

	item, err := s.repo.Create(ctx, newItem)
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}

	s.invalidate(ctx)
	s.enqueue(ctx, domain.NewItemAdded(item, s.now()))

	s.log.Info("item added", zap.Int64("id", item.ID), zap.String("rarity", item.Rarity.Label()))
	return item, nil
}

// UpdateQuantity overwrites the quantity of an item. Concurrent updates of
// the same id are last-write-wins. No event is published.
func (s *ItemService) UpdateQuantity(ctx context.Context, id int64, quantity int) (domain.Item, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return domain.Item{}, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return domain.Item{}, fmt.Errorf("find item %d: %w", id, err)
	}

	item, err := s.repo.UpdateQuantity(ctx, id, quantity)
	if err != nil {
		return domain.Item{}, fmt.Errorf("update item %d: %w", id, err)
	}

	s.invalidate(ctx)

	s.log.Info("item quantity updated", zap.Int64("id", id), zap.Int("quantity", quantity))
	return item, nil
}

func (s *ItemService) Remove(ctx context.Context, id int64) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find item %d: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	s.invalidate(ctx)
	s.enqueue(ctx, domain.NewItemRemoved(item, s.now()))

	s.log.Info("item removed", zap.Int64("id", id))
	return nil
}

// GetByID reads straight from the store; the cache only holds the full listing.
func (s *ItemService) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Item{}, fmt.Errorf("find item %d: %w", id, err)
	}
	return item, nil
}

// GetEventQueue exposes the queue drained by PublishWorker.
func (s *ItemService) GetEventQueue() <-chan domain.Event {
	return s.events
}

// Close stops accepting events. Workers exit once the queue is drained.
func (s *ItemService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.events)
}

// invalidate never fails the caller: the store is the source of truth and
// the cache TTL bounds any staleness left behind. It runs after the commit,
// so it ignores cancellation of the request.
func (s *ItemService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn("listing cache invalidation failed", zap.Error(err))
	}
}

// enqueue hands the event to the publish workers without blocking. A full
// or closed queue drops the event.
func (s *ItemService) enqueue(ctx context.Context, event domain.Event) {
	event.Headers = make(map[string]string)
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(event.Headers))

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		s.log.Warn("event dropped, service closed", zap.String("topic", event.Topic), zap.Stringer("event_id", event.ID))
		return
	}

	select {
	case s.events <- event:
	default:
		s.log.Warn("event dropped, queue full", zap.String("topic", event.Topic), zap.Stringer("event_id", event.ID))
	}
}
