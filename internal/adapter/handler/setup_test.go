package handler

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap/zaptest"

	"github.com/rl1809/item-inventory/internal/adapter/storage"
	"github.com/rl1809/item-inventory/internal/core/service"
)

func newTestItemService(t *testing.T) *service.ItemService {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, storage.DialectSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.EnsureSchema(ctx, db, storage.DialectSQLite); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	svc := service.NewItemService(storage.NewSQLAdapter(db), storage.NewRedisAdapter(rdb), 100, zaptest.NewLogger(t))
	t.Cleanup(svc.Close)
	return svc
}
