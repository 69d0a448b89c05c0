package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rl1809/item-inventory/internal/core/domain"
)

const itemColumns = `id, name, type, rarity, quantity, created_at, updated_at`

// SQLAdapter stores items through database/sql. Queries use "?" placeholders
// and run unchanged on MySQL and SQLite.
type SQLAdapter struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{
		db:  db,
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
}

func (a *SQLAdapter) Create(ctx context.Context, item domain.NewItem) (domain.Item, error) {
	now := a.now()
	result, err := a.db.ExecContext(ctx, `
		INSERT INTO items (name, type, rarity, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name, item.Type, int(item.Rarity), item.Quantity, now, now,
	)
	if err != nil {
		return domain.Item{}, unavailable("insert item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Item{}, unavailable("get item id", err)
	}

	return domain.Item{
		ID:        id,
		Name:      item.Name,
		Type:      item.Type,
		Rarity:    item.Rarity,
		Quantity:  item.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (a *SQLAdapter) FindByID(ctx context.Context, id int64) (domain.Item, error) {
	row := a.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Item{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Item{}, unavailable("query item", err)
	}
	return item, nil
}

func (a *SQLAdapter) UpdateQuantity(ctx context.Context, id int64, quantity int) (domain.Item, error) {
	_, err := a.db.ExecContext(ctx, `
		UPDATE items SET quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, a.now(), id,
	)
	if err != nil {
		return domain.Item{}, unavailable("update item", err)
	}

	// MySQL reports 0 affected rows when nothing changed, so the read decides NotFound.
	return a.FindByID(ctx, id)
}

func (a *SQLAdapter) Delete(ctx context.Context, id int64) error {
	result, err := a.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return unavailable("delete item", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return unavailable("delete item", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (a *SQLAdapter) ListAllOrderedByIDDesc(ctx context.Context) ([]domain.Item, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY id DESC`)
	if err != nil {
		return nil, unavailable("list items", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, unavailable("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list items", err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (domain.Item, error) {
	var item domain.Item
	var rarity int
	if err := s.Scan(&item.ID, &item.Name, &item.Type, &rarity, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return domain.Item{}, err
	}

	r, err := domain.RarityFromOrdinal(rarity)
	if err != nil {
		return domain.Item{}, fmt.Errorf("item %d: %w", item.ID, err)
	}
	item.Rarity = r
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return item, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}
