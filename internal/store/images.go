package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ImageRepo struct{ DB *pgxpool.Pool }

func (r *ImageRepo) List(ctx context.Context) ([]ImageAsset, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, category, ref_key, image_url, sort_order, updated_at
		FROM image_assets ORDER BY category, ref_key, sort_order`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ImageAsset
	for rows.Next() {
		var a ImageAsset
		if err := rows.Scan(&a.ID, &a.Category, &a.RefKey, &a.ImageURL, &a.SortOrder, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Upsert writes one slot of the (category, ref_key, sort_order) grid.
func (r *ImageRepo) Upsert(ctx context.Context, a ImageAsset) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO image_assets (category, ref_key, image_url, sort_order, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (category, ref_key, sort_order) DO UPDATE SET image_url = $3, updated_at = now()`,
		a.Category, a.RefKey, a.ImageURL, a.SortOrder)
	return err
}

func (r *ImageRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM image_assets WHERE id = $1`, id)
	return err
}
