package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cupify/storefront/internal/redisx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Recognized admin_settings keys.
const (
	SettingPackPrices     = "pack_prices"
	SettingDeliveryFee    = "delivery_fee"
	SettingMinOrder       = "min_order"
	SettingWhatsAppNumber = "whatsapp_number"
	SettingStoreActive    = "store_active"
)

// DefaultPackPrices is merged under the persisted pack_prices value. The one
// place the fallback table lives.
var DefaultPackPrices = map[int]int{2: 50, 3: 65, 4: 80}

type SettingsRepo struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

// All returns the full settings map. The Redis copy is a short-TTL read
// cache; Postgres stays the source of truth.
func (r *SettingsRepo) All(ctx context.Context) (map[string]json.RawMessage, error) {
	if r.Redis != nil {
		if s, err := r.Redis.Get(ctx, redisx.KeySettings).Result(); err == nil && s != "" {
			var out map[string]json.RawMessage
			if json.Unmarshal([]byte(s), &out) == nil {
				return out, nil
			}
		}
	}
	rows, err := r.DB.Query(ctx, `SELECT key, value FROM admin_settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]json.RawMessage{}
	for rows.Next() {
		var k string
		var v []byte
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = json.RawMessage(v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if r.Redis != nil {
		if b, err := json.Marshal(out); err == nil {
			_ = r.Redis.Set(ctx, redisx.KeySettings, b, redisx.TTLSettings).Err()
		}
	}
	return out, nil
}

// Put upserts every given key in one transaction and drops the cache.
func (r *SettingsRepo) Put(ctx context.Context, settings map[string]json.RawMessage) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for k, v := range settings {
		if _, err := tx.Exec(ctx, `
			INSERT INTO admin_settings (key, value, updated_at) VALUES ($1, $2::jsonb, now())
			ON CONFLICT (key) DO UPDATE SET value = $2::jsonb, updated_at = now()`,
			k, []byte(v)); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	if r.Redis != nil {
		_ = r.Redis.Del(ctx, redisx.KeySettings).Err()
	}
	return nil
}

// WhatsAppNumber returns the configured store number, empty when unset.
func (r *SettingsRepo) WhatsAppNumber(ctx context.Context) (string, error) {
	all, err := r.All(ctx)
	if err != nil {
		return "", err
	}
	var n string
	if raw, ok := all[SettingWhatsAppNumber]; ok {
		_ = json.Unmarshal(raw, &n)
	}
	return n, nil
}

// mergePackPrices overlays a persisted pack_prices JSON object (string keys)
// on top of the defaults. Bad values fall back to the defaults alone.
func mergePackPrices(raw json.RawMessage) map[int]int {
	out := make(map[int]int, len(DefaultPackPrices))
	for k, v := range DefaultPackPrices {
		out[k] = v
	}
	if len(raw) == 0 {
		return out
	}
	var persisted map[string]int
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return out
	}
	for k, v := range persisted {
		if size, err := strconv.Atoi(k); err == nil {
			out[size] = v
		}
	}
	return out
}
