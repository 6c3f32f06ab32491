package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PackRepo struct{ DB *pgxpool.Pool }

func (r *PackRepo) List(ctx context.Context) ([]PackConfig, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT size, title_ar, title_en, desc_ar, desc_en, badge, sort_order
		FROM pack_configs ORDER BY sort_order, size`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PackConfig
	for rows.Next() {
		var p PackConfig
		if err := rows.Scan(&p.Size, &p.TitleAr, &p.TitleEn, &p.DescAr, &p.DescEn, &p.Badge, &p.SortOrder); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// PackUpdate is a partial edit of a pack's display metadata.
type PackUpdate struct {
	TitleAr *string `json:"titleAr"`
	TitleEn *string `json:"titleEn"`
	DescAr  *string `json:"descAr"`
	DescEn  *string `json:"descEn"`
	Badge   *string `json:"badge"`
}

func (r *PackRepo) Update(ctx context.Context, size int, u PackUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if u.TitleAr != nil {
		add("title_ar", *u.TitleAr)
	}
	if u.TitleEn != nil {
		add("title_en", *u.TitleEn)
	}
	if u.DescAr != nil {
		add("desc_ar", *u.DescAr)
	}
	if u.DescEn != nil {
		add("desc_en", *u.DescEn)
	}
	if u.Badge != nil {
		add("badge", *u.Badge)
	}
	if len(sets) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	args = append(args, size)
	query := "UPDATE pack_configs SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(", updated_at = now() WHERE size = $%d", len(args))

	ct, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: pack size %d", ErrValidation, size)
	}
	return nil
}
