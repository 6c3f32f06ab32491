package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type InventoryRepo struct{ DB *pgxpool.Pool }

func (r *InventoryRepo) List(ctx context.Context) ([]InventoryItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT color_code, name_ar, name_en, hex, sort_order, stock, updated_at
		FROM inventory_items ORDER BY sort_order, color_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ColorCode, &it.NameAr, &it.NameEn, &it.Hex, &it.SortOrder, &it.Stock, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// InventoryUpdate is a partial admin edit; nil fields are left untouched.
type InventoryUpdate struct {
	Stock  *int    `json:"stock"`
	NameAr *string `json:"nameAr"`
	NameEn *string `json:"nameEn"`
	Hex    *string `json:"hex"`
}

// Update is the admin write path: plain last-write-wins, no row lock. The
// order transaction is the only correctness-critical writer of stock.
func (r *InventoryRepo) Update(ctx context.Context, colorCode string, u InventoryUpdate) error {
	if u.Stock != nil && *u.Stock < 0 {
		return ErrNegativeStock
	}
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.Stock != nil {
		add("stock", *u.Stock)
	}
	if u.NameAr != nil {
		add("name_ar", *u.NameAr)
	}
	if u.NameEn != nil {
		add("name_en", *u.NameEn)
	}
	if u.Hex != nil {
		add("hex", *u.Hex)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	args = append(args, colorCode)
	query := "UPDATE inventory_items SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(", updated_at = now() WHERE color_code = $%d", len(args))

	ct, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrColorNotFound
	}
	return nil
}

// LowStock feeds the activity ticker.
func (r *InventoryRepo) LowStock(ctx context.Context, threshold, limit int) ([]InventoryItem, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT color_code, name_ar, name_en, hex, sort_order, stock, updated_at
		FROM inventory_items WHERE stock < $1 ORDER BY stock LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ColorCode, &it.NameAr, &it.NameEn, &it.Hex, &it.SortOrder, &it.Stock, &it.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
