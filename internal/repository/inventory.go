package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
)

func (r *Repository) CreateInventoryItem(item *domain.InventoryItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO inventory_items (kind, name, manufacturer, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	args := []any{item.Kind, item.Name, item.Manufacturer, item.Quantity}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.ID, &item.CreatedAt, &item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetInventoryItemByID(id int64) (*domain.InventoryItem, error) {
	query := `
		SELECT kind, name, manufacturer, quantity, created_at, version
		FROM inventory_items WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	item := &domain.InventoryItem{
		ID: id,
	}

	dst := []any{&item.Kind, &item.Name, &item.Manufacturer, &item.Quantity, &item.CreatedAt, &item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *Repository) GetAllInventoryItems() ([]*domain.InventoryItem, error) {
	query := `
		SELECT id, kind, name, manufacturer, quantity, created_at, version
		FROM inventory_items ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.InventoryItem, 0)
	for rows.Next() {
		item := &domain.InventoryItem{}
		dst := []any{&item.ID, &item.Kind, &item.Name, &item.Manufacturer, &item.Quantity, &item.CreatedAt, &item.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// AdjustInventoryQuantity 对库存数量做增减，减库存时用 WHERE 保证数量不会变成负数
func (r *Repository) AdjustInventoryQuantity(item *domain.InventoryItem, delta int32) error {
	query := `
		UPDATE inventory_items
		SET
			quantity = quantity + $1,
			version = version + 1
		WHERE id = $2 AND version = $3 AND quantity + $1 >= 0
		RETURNING quantity, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{delta, item.ID, item.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&item.Quantity, &item.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteInventoryItem(id int64) error {
	query := `
		DELETE FROM inventory_items WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
