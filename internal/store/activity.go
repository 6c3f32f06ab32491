package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cupify/storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
)

const lowStockThreshold = 10

// ActivityFeed derives the storefront's "live" ticker lines from recent
// orders and low-stock colors. Purely cosmetic; cached per language so the
// poll loop doesn't hammer Postgres.
type ActivityFeed struct {
	Orders    *OrderRepo
	Inventory *InventoryRepo
	Redis     *redis.Client
}

func (f *ActivityFeed) Lines(ctx context.Context, lang Language) ([]string, error) {
	if lang != LangAr {
		lang = LangEn
	}
	key := fmt.Sprintf(redisx.KeyActivity, lang)
	if f.Redis != nil {
		if s, err := f.Redis.Get(ctx, key).Result(); err == nil && s != "" {
			var lines []string
			if json.Unmarshal([]byte(s), &lines) == nil {
				return lines, nil
			}
		}
	}

	lines := []string{}
	recent, err := f.Orders.Recent(ctx, 3)
	if err != nil {
		return nil, err
	}
	for _, o := range recent {
		first := strings.SplitN(o.CustomerName, " ", 2)[0]
		if lang == LangAr {
			lines = append(lines, fmt.Sprintf("%s من %s طلب طقم %d قطع! ✨", first, o.CustomerCity, o.PackSize))
		} else {
			lines = append(lines, fmt.Sprintf("%s from %s ordered %d pieces! ✨", first, o.CustomerCity, o.PackSize))
		}
	}
	low, err := f.Inventory.LowStock(ctx, lowStockThreshold, 2)
	if err != nil {
		return nil, err
	}
	for _, it := range low {
		if lang == LangAr {
			lines = append(lines, fmt.Sprintf("بقي %d قطع فقط من \"%s\"! ⚡", it.Stock, it.NameAr))
		} else {
			lines = append(lines, fmt.Sprintf("Only %d left of %q! ⚡", it.Stock, it.NameEn))
		}
	}

	if f.Redis != nil {
		if b, err := json.Marshal(lines); err == nil {
			_ = f.Redis.Set(ctx, key, b, redisx.TTLActivity).Err()
		}
	}
	return lines, nil
}
