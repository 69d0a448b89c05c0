package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

func newTestService(t *testing.T, queueSize int) (*ItemService, *mockItemRepo, *mockListingCache) {
	t.Helper()
	repo := newMockItemRepo()
	cache := &mockListingCache{}
	svc := NewItemService(repo, cache, queueSize, zaptest.NewLogger(t))
	t.Cleanup(svc.Close)
	return svc, repo, cache
}

func potion() AddItemInput {
	return AddItemInput{Name: "Test Potion", Type: "consumable", Rarity: "common", Quantity: 2}
}

func TestAdd_Success(t *testing.T) {
	svc, _, cache := newTestService(t, 10)

	item, err := svc.Add(context.Background(), potion())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if item.ID == 0 {
		t.Error("expected id to be assigned")
	}
	if item.Rarity.Label() != "common" {
		t.Errorf("expected rarity common, got %s", item.Rarity)
	}
	if item.Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", item.Quantity)
	}
	if cache.invalidations != 1 {
		t.Errorf("expected 1 invalidation, got %d", cache.invalidations)
	}

	event := <-svc.GetEventQueue()
	if event.Topic != domain.TopicItemAdded {
		t.Errorf("expected topic %s, got %s", domain.TopicItemAdded, event.Topic)
	}
	if event.Payload["rarity"] != "common" {
		t.Errorf("expected rarity common in event, got %v", event.Payload["rarity"])
	}
	if event.Payload["id"] != item.ID {
		t.Errorf("expected id %d in event, got %v", item.ID, event.Payload["id"])
	}
}

func TestAdd_NumericRarity(t *testing.T) {
	svc, _, _ := newTestService(t, 10)

	in := potion()
	in.Rarity = "4"
	item, err := svc.Add(context.Background(), in)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.Rarity != domain.RarityLegendary {
		t.Errorf("expected legendary, got %s", item.Rarity)
	}
}

func TestAdd_InvalidInput(t *testing.T) {
	tests := map[string]func(*AddItemInput){
		"unknown rarity":    func(in *AddItemInput) { in.Rarity = "mythic" },
		"ordinal too high":  func(in *AddItemInput) { in.Rarity = "5" },
		"negative quantity": func(in *AddItemInput) { in.Quantity = -1 },
		"quantity overflow": func(in *AddItemInput) { in.Quantity = domain.MaxQuantity + 1 },
		"empty name":        func(in *AddItemInput) { in.Name = "" },
		"empty type":        func(in *AddItemInput) { in.Type = "" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			svc, repo, cache := newTestService(t, 10)

			in := potion()
			mutate(&in)
			_, err := svc.Add(context.Background(), in)
			if !errors.Is(err, domain.ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got: %v", err)
			}
			if len(repo.items) != 0 {
				t.Error("store must not be called on invalid input")
			}
			if cache.invalidations != 0 {
				t.Errorf("expected no invalidation, got %d", cache.invalidations)
			}
			if len(svc.GetEventQueue()) != 0 {
				t.Error("expected no event")
			}
		})
	}
}

func TestAdd_StoreUnavailable(t *testing.T) {
	svc, repo, cache := newTestService(t, 10)
	repo.failWith = errStoreDown

	_, err := svc.Add(context.Background(), potion())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got: %v", err)
	}
	if cache.invalidations != 0 {
		t.Errorf("expected no invalidation, got %d", cache.invalidations)
	}
	if len(svc.GetEventQueue()) != 0 {
		t.Error("expected no event")
	}
}

func TestList_ReadThrough(t *testing.T) {
	svc, repo, _ := newTestService(t, 10)
	ctx := context.Background()

	svc.Add(ctx, potion())
	svc.Add(ctx, AddItemInput{Name: "Sword", Type: "weapon", Rarity: "epic", Quantity: 1})

	first, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	second, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if repo.listCalls != 1 {
		t.Errorf("expected store to be queried once, got %d", repo.listCalls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical snapshots within the TTL")
	}
	if len(first) != 2 || first[0].Name != "Sword" {
		t.Errorf("expected newest id first, got %+v", first)
	}
}

func TestList_InvalidatedByAdd(t *testing.T) {
	svc, repo, _ := newTestService(t, 10)
	ctx := context.Background()

	before, _ := svc.List(ctx)
	if len(before) != 0 {
		t.Fatalf("expected empty listing, got %d", len(before))
	}

	item, _ := svc.Add(ctx, potion())

	after, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.listCalls != 2 {
		t.Errorf("expected listing to be rebuilt, got %d store queries", repo.listCalls)
	}
	if len(after) != 1 || after[0].ID != item.ID || after[0].Quantity != 2 {
		t.Errorf("expected new item in listing, got %+v", after)
	}
}

func TestList_CacheReadFailureFallsBack(t *testing.T) {
	svc, _, cache := newTestService(t, 10)
	ctx := context.Background()
	svc.Add(ctx, potion())
	cache.getErr = errors.New("redis down")

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("expected fallback to store, got: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}
}

func TestUpdateQuantity_Success(t *testing.T) {
	svc, _, cache := newTestService(t, 10)
	ctx := context.Background()

	item, _ := svc.Add(ctx, potion())
	<-svc.GetEventQueue()

	updated, err := svc.UpdateQuantity(ctx, item.ID, 5)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", updated.Quantity)
	}
	if cache.invalidations != 2 {
		t.Errorf("expected 2 invalidations, got %d", cache.invalidations)
	}

	got, err := svc.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", got.Quantity)
	}

	if len(svc.GetEventQueue()) != 0 {
		t.Error("quantity updates must not publish events")
	}
}

func TestUpdateQuantity_Invalid(t *testing.T) {
	svc, _, cache := newTestService(t, 10)
	ctx := context.Background()
	item, _ := svc.Add(ctx, potion())

	_, err := svc.UpdateQuantity(ctx, item.ID, -3)
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got: %v", err)
	}
	if cache.invalidations != 1 {
		t.Errorf("expected only the add invalidation, got %d", cache.invalidations)
	}
}

func TestUpdateQuantity_UpperBound(t *testing.T) {
	svc, repo, _ := newTestService(t, 10)
	ctx := context.Background()
	item, _ := svc.Add(ctx, potion())

	updated, err := svc.UpdateQuantity(ctx, item.ID, domain.MaxQuantity)
	if err != nil {
		t.Fatalf("expected max quantity to be accepted, got: %v", err)
	}
	if updated.Quantity != domain.MaxQuantity {
		t.Errorf("expected quantity %d, got %d", int64(domain.MaxQuantity), updated.Quantity)
	}

	_, err = svc.UpdateQuantity(ctx, item.ID, domain.MaxQuantity+1)
	if !errors.Is(err, domain.ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got: %v", err)
	}
	if repo.items[item.ID].Quantity != domain.MaxQuantity {
		t.Error("rejected update must not reach the store")
	}
}

func TestMutation_InvalidationSurvivesCallerCancellation(t *testing.T) {
	svc, repo, cache := newTestService(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo.afterWrite = cancel

	item, err := svc.Add(ctx, potion())
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Remove(ctx, item.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	if len(cache.invalidateCtxErrs) != 2 {
		t.Fatalf("expected 2 invalidations, got %d", len(cache.invalidateCtxErrs))
	}
	for i, err := range cache.invalidateCtxErrs {
		if err != nil {
			t.Errorf("invalidation %d ran on a cancelled context: %v", i, err)
		}
	}
}

func TestUpdateQuantityAndRemove_NotFound(t *testing.T) {
	svc, _, cache := newTestService(t, 10)
	ctx := context.Background()

	if _, err := svc.UpdateQuantity(ctx, 999, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("update: expected ErrNotFound, got: %v", err)
	}
	if err := svc.Remove(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("remove: expected ErrNotFound, got: %v", err)
	}
	if _, err := svc.GetByID(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get: expected ErrNotFound, got: %v", err)
	}

	if cache.invalidations != 0 {
		t.Errorf("expected no invalidation, got %d", cache.invalidations)
	}
	if len(svc.GetEventQueue()) != 0 {
		t.Error("expected no event")
	}
}

func TestRemove_Success(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	ctx := context.Background()

	item, _ := svc.Add(ctx, potion())
	<-svc.GetEventQueue()

	// Populate the cache before removing.
	if items, _ := svc.List(ctx); len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	if err := svc.Remove(ctx, item.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	items, _ := svc.List(ctx)
	for _, it := range items {
		if it.ID == item.ID {
			t.Error("removed item still listed")
		}
	}

	event := <-svc.GetEventQueue()
	if event.Topic != domain.TopicItemRemoved {
		t.Errorf("expected topic %s, got %s", domain.TopicItemRemoved, event.Topic)
	}
	if len(event.Payload) != 3 || event.Payload["name"] != "Test Potion" {
		t.Errorf("expected {id, name, timestamp}, got %v", event.Payload)
	}
}

func TestMutation_CacheInvalidationFailureIgnored(t *testing.T) {
	svc, _, cache := newTestService(t, 10)
	cache.invalidateErr = errors.New("redis down")

	item, err := svc.Add(context.Background(), potion())
	if err != nil {
		t.Fatalf("expected add to succeed, got: %v", err)
	}
	if err := svc.Remove(context.Background(), item.ID); err != nil {
		t.Fatalf("expected remove to succeed, got: %v", err)
	}
	if len(svc.GetEventQueue()) != 2 {
		t.Errorf("expected both events queued, got %d", len(svc.GetEventQueue()))
	}
}

func TestEnqueue_QueueFullDropsEvent(t *testing.T) {
	svc, repo, _ := newTestService(t, 1)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Add(ctx, potion()); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}

	if len(repo.items) != 3 {
		t.Errorf("expected 3 items stored, got %d", len(repo.items))
	}
	if len(svc.GetEventQueue()) != 1 {
		t.Errorf("expected 1 queued event, got %d", len(svc.GetEventQueue()))
	}
}

func TestClose_Idempotent(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	svc.Close()
	svc.Close()

	if _, err := svc.Add(context.Background(), potion()); err != nil {
		t.Fatalf("add after close failed: %v", err)
	}
	if _, ok := <-svc.GetEventQueue(); ok {
		t.Error("expected closed queue")
	}
}

func TestUpdateQuantity_ConcurrentLastWriteWins(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	ctx := context.Background()
	item, _ := svc.Add(ctx, potion())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			if _, err := svc.UpdateQuantity(ctx, item.ID, q); err != nil {
				t.Errorf("update failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, _ := svc.GetByID(ctx, item.ID)
	if got.Quantity < 0 || got.Quantity >= 20 {
		t.Errorf("expected one of the written quantities, got %d", got.Quantity)
	}
}
