package store

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepo struct{ DB *pgxpool.Pool }

// AggregateItems merges repeated colors additively and returns the result
// sorted by ascending colorCode. The sort doubles as the row-lock order, so
// two concurrent orders touching overlapping colors cannot deadlock.
func AggregateItems(items []OrderItem) []OrderItem {
	sums := map[string]int{}
	for _, it := range items {
		sums[it.ColorCode] += it.Qty
	}
	out := make([]OrderItem, 0, len(sums))
	for code, qty := range sums {
		out = append(out, OrderItem{ColorCode: code, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ColorCode < out[j].ColorCode })
	return out
}

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderCode returns a human-shareable code like CUP-7K2Q9X. Collisions
// are handled by the insert retry in Create.
func NewOrderCode() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return "CUP-" + string(b)
}

func validateNewOrder(in NewOrder) error {
	if in.PackSize <= 0 {
		return fmt.Errorf("%w: pack size", ErrValidation)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: empty cart", ErrValidation)
	}
	for _, it := range in.Items {
		if it.ColorCode == "" || it.Qty < 1 {
			return fmt.Errorf("%w: bad item", ErrValidation)
		}
	}
	if strings.TrimSpace(in.Customer.Name) == "" || strings.TrimSpace(in.Customer.Mobile) == "" {
		return fmt.Errorf("%w: customer name and mobile are required", ErrValidation)
	}
	return nil
}

// Create places an order atomically: store-open gate, price resolution,
// verify-then-decrement of every aggregated color under row locks, order +
// item inserts. Any failure rolls the whole thing back; stock never goes
// negative and no partial order is ever visible.
func (r *OrderRepo) Create(ctx context.Context, in NewOrder) (Order, error) {
	if err := validateNewOrder(in); err != nil {
		return Order{}, err
	}
	if in.Language != LangAr {
		in.Language = LangEn
	}
	agg := AggregateItems(in.Items)

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// 1. store-open gate
	active, err := storeActive(ctx, tx)
	if err != nil {
		return Order{}, err
	}
	if !active {
		return Order{}, ErrStoreClosed
	}

	// 2. price resolution, frozen into the order row
	var rawPrices json.RawMessage
	err = tx.QueryRow(ctx, `SELECT value FROM admin_settings WHERE key = $1`, SettingPackPrices).Scan(&rawPrices)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, err
	}
	prices := mergePackPrices(rawPrices)
	totalPrice, ok := prices[in.PackSize]
	if !ok {
		return Order{}, fmt.Errorf("%w: unsupported pack size %d", ErrValidation, in.PackSize)
	}

	// 3. verify every aggregated color before touching any stock; locks are
	// taken in ascending colorCode order (see AggregateItems).
	for _, it := range agg {
		var stock int
		var nameAr, nameEn string
		err := tx.QueryRow(ctx,
			`SELECT stock, name_ar, name_en FROM inventory_items WHERE color_code = $1 FOR UPDATE`,
			it.ColorCode).Scan(&stock, &nameAr, &nameEn)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("%w: %s", ErrUnknownColor, it.ColorCode)
		}
		if err != nil {
			return Order{}, err
		}
		if stock < it.Qty {
			name := nameEn
			if in.Language == LangAr {
				name = nameAr
			}
			return Order{}, &InsufficientStockError{
				ColorCode: it.ColorCode, Name: name, Available: stock, Required: it.Qty,
			}
		}
	}

	// 4. decrement
	for _, it := range agg {
		if _, err := tx.Exec(ctx,
			`UPDATE inventory_items SET stock = stock - $1, updated_at = now() WHERE color_code = $2`,
			it.Qty, it.ColorCode); err != nil {
			return Order{}, err
		}
	}

	// 5. order header; regenerate the code on the (rare) unique collision
	orderID := uuid.NewString()
	var order Order
	for attempt := 0; ; attempt++ {
		code := NewOrderCode()
		err := tx.QueryRow(ctx, `
			INSERT INTO orders (id, order_code, language, pack_size, total_price, status,
				customer_name, customer_mobile, customer_city, customer_address, preferred_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING created_at`,
			orderID, code, string(in.Language), in.PackSize, totalPrice, string(StatusConfirmed),
			in.Customer.Name, in.Customer.Mobile, in.Customer.City, in.Customer.Address, in.Customer.PreferredTime,
		).Scan(&order.CreatedAt)
		if err == nil {
			order.ID = orderID
			order.OrderCode = code
			break
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && attempt < 5 {
			continue
		}
		return Order{}, err
	}

	// 6. item rows are stored as submitted (pre-aggregation), for audit
	for _, it := range in.Items {
		if _, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, color_code, qty) VALUES ($1, $2, $3)`,
			orderID, it.ColorCode, it.Qty); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}

	order.Language = in.Language
	order.PackSize = in.PackSize
	order.Items = in.Items
	order.Customer = in.Customer
	order.TotalPrice = totalPrice
	order.Status = StatusConfirmed
	return order, nil
}

func storeActive(ctx context.Context, tx pgx.Tx) (bool, error) {
	var raw []byte
	err := tx.QueryRow(ctx, `SELECT value FROM admin_settings WHERE key = $1`, SettingStoreActive).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, nil // unset means open
	}
	if err != nil {
		return false, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return true, nil
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return t != "false", nil
	}
	return true, nil
}

// List returns all orders, newest first, with their item lines.
func (r *OrderRepo) List(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.order_code, o.language, o.pack_size, o.total_price, o.status,
			o.customer_name, o.customer_mobile, o.customer_city, o.customer_address, o.preferred_time,
			o.created_at,
			COALESCE((SELECT json_agg(json_build_object('colorCode', oi.color_code, 'qty', oi.qty))
				FROM order_items oi WHERE oi.order_id = o.id), '[]')
		FROM orders o ORDER BY o.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var lang, status string
		var items []byte
		if err := rows.Scan(&o.ID, &o.OrderCode, &lang, &o.PackSize, &o.TotalPrice, &status,
			&o.Customer.Name, &o.Customer.Mobile, &o.Customer.City, &o.Customer.Address, &o.Customer.PreferredTime,
			&o.CreatedAt, &items); err != nil {
			return nil, err
		}
		o.Language = Language(lang)
		o.Status = Status(status)
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SetStatus overwrites an order's status after checking the transition
// table. The current status row is locked so two admins racing each other
// still observe a consistent edge.
func (r *OrderRepo) SetStatus(ctx context.Context, orderID string, to Status) error {
	if _, ok := ParseStatus(string(to)); !ok {
		return ErrInvalidStatus
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if !CanTransition(Status(cur), to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, cur, to)
	}
	if _, err := tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(to), orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Recent feeds the activity ticker with the latest orders.
type RecentOrder struct {
	CustomerName string
	CustomerCity string
	PackSize     int
}

func (r *OrderRepo) Recent(ctx context.Context, limit int) ([]RecentOrder, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT customer_name, customer_city, pack_size FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentOrder
	for rows.Next() {
		var ro RecentOrder
		if err := rows.Scan(&ro.CustomerName, &ro.CustomerCity, &ro.PackSize); err != nil {
			return nil, err
		}
		out = append(out, ro)
	}
	return out, rows.Err()
}
