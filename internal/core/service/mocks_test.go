package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

// Mock ItemRepository
type mockItemRepo struct {
	mu        sync.Mutex
	items     map[int64]domain.Item
	nextID    int64
	listCalls int
	failWith  error
	// afterWrite runs once a mutation has been committed.
	afterWrite func()
}

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: make(map[int64]domain.Item)}
}

func (m *mockItemRepo) Create(ctx context.Context, in domain.NewItem) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Item{}, m.failWith
	}
	m.nextID++
	now := time.Now().UTC()
	item := domain.Item{
		ID:        m.nextID,
		Name:      in.Name,
		Type:      in.Type,
		Rarity:    in.Rarity,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.items[item.ID] = item
	if m.afterWrite != nil {
		m.afterWrite()
	}
	return item, nil
}

func (m *mockItemRepo) FindByID(ctx context.Context, id int64) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return domain.Item{}, m.failWith
	}
	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	return item, nil
}

func (m *mockItemRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) (domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[id]
	if !ok {
		return domain.Item{}, domain.ErrNotFound
	}
	item.Quantity = quantity
	item.UpdatedAt = time.Now().UTC()
	m.items[id] = item
	if m.afterWrite != nil {
		m.afterWrite()
	}
	return item, nil
}

func (m *mockItemRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	if m.afterWrite != nil {
		m.afterWrite()
	}
	return nil
}

func (m *mockItemRepo) ListAllOrderedByIDDesc(ctx context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	if m.failWith != nil {
		return nil, m.failWith
	}
	items := make([]domain.Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	return items, nil
}

// Mock ListingCache
type mockListingCache struct {
	mu            sync.Mutex
	items         []domain.Item
	present       bool
	invalidations int
	getErr        error
	invalidateErr error
	// invalidateCtxErrs records ctx.Err() seen by each Invalidate call.
	invalidateCtxErrs []error
}

func (m *mockListingCache) Get(ctx context.Context) ([]domain.Item, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getErr != nil {
		return nil, false, m.getErr
	}
	return m.items, m.present, nil
}

func (m *mockListingCache) Set(ctx context.Context, items []domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.present = true
	return nil
}

func (m *mockListingCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.invalidations++
	m.invalidateCtxErrs = append(m.invalidateCtxErrs, ctx.Err())
	if m.invalidateErr != nil {
		return m.invalidateErr
	}
	m.items = nil
	m.present = false
	return nil
}

// Mock EventPublisher
type publishedEvent struct {
	topic   string
	payload map[string]any
	ctxErr  error
	eventID uuid.UUID
}

type mockPublisher struct {
	mu        sync.Mutex
	published []publishedEvent
	failWith  error
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, payload map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failWith != nil {
		return m.failWith
	}
	eventID, _ := domain.EventIDFromContext(ctx)
	m.published = append(m.published, publishedEvent{topic: topic, payload: payload, ctxErr: ctx.Err(), eventID: eventID})
	return nil
}

func (m *mockPublisher) events() []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publishedEvent(nil), m.published...)
}

var errStoreDown = errors.Join(domain.ErrStoreUnavailable, errors.New("connection refused"))
