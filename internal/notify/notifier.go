package notify

import (
	"context"
	"encoding/json"
	"fmt"

	kafkax "github.com/cupify/storefront/internal/kafka"
	"github.com/cupify/storefront/internal/redisx"
	"github.com/cupify/storefront/internal/store"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Notifier consumes order-created events and surfaces the back-office
// WhatsApp hand-off. At-least-once delivery is fine: events are deduped by
// event id in Redis.
type Notifier struct {
	Redis     *redis.Client
	Inventory *store.InventoryRepo
	Settings  *store.SettingsRepo
	Log       *zap.Logger
}

func (n *Notifier) HandleOrderCreated(ctx context.Context, m kafkago.Message) error {
	var env store.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != store.EventOrderCreated {
		return nil // ignore
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if seen, _ := redisx.Exists(ctx, n.Redis, dkey); seen {
		return nil
	}
	_ = n.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[store.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	namer := n.colorNamer(ctx)
	text := MessageText(p.Order, namer)
	number, err := n.Settings.WhatsAppNumber(ctx)
	if err != nil {
		return err
	}

	n.Log.Info("new order",
		zap.String("order_code", p.Order.OrderCode),
		zap.String("order_id", p.Order.ID),
		zap.Int("pack_size", p.Order.PackSize),
		zap.Int("total_price", p.Order.TotalPrice),
		zap.String("whatsapp", Link(number, text)),
	)
	return nil
}

func (n *Notifier) colorNamer(ctx context.Context) ColorNamer {
	items, err := n.Inventory.List(ctx)
	if err != nil {
		n.Log.Warn("inventory lookup failed, using raw color codes", zap.Error(err))
	}
	byCode := make(map[string]store.InventoryItem, len(items))
	for _, it := range items {
		byCode[it.ColorCode] = it
	}
	return func(code string, lang store.Language) string {
		if it, ok := byCode[code]; ok {
			return it.Name(lang)
		}
		return code
	}
}
