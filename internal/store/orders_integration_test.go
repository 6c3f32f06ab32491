package store

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/cupify/storefront/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests exercise the transaction against a real Postgres. They are
// skipped unless TEST_POSTGRES_DSN points at a disposable database.
func testDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(ctx, db))
	t.Cleanup(db.Close)
	return db
}

func seedColor(t *testing.T, db *pgxpool.Pool, code string, stock int) {
	t.Helper()
	ctx := context.Background()
	_, err := db.Exec(ctx, `
		INSERT INTO inventory_items (color_code, name_ar, name_en, stock)
		VALUES ($1, $2, $3, $4)`,
		code, "عينة "+code, "Sample "+code, stock)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(ctx, `DELETE FROM order_items WHERE color_code = $1`, code)
		_, _ = db.Exec(ctx, `DELETE FROM inventory_items WHERE color_code = $1`, code)
	})
}

func stockOf(t *testing.T, db *pgxpool.Pool, code string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(context.Background(),
		`SELECT stock FROM inventory_items WHERE color_code = $1`, code).Scan(&n))
	return n
}

func uniqueCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func sampleCustomer() CustomerDetails {
	return CustomerDetails{
		Name: "Sara Ahmed", Mobile: "0501234567",
		City: "Dubai", Address: "Marina, Tower 3", PreferredTime: "Morning",
	}
}

func TestCreateOrderEndToEnd(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	red := uniqueCode("RED")
	blue := uniqueCode("BLU")
	seedColor(t, db, red, 1)
	seedColor(t, db, blue, 5)

	in := NewOrder{
		Language: LangEn,
		PackSize: 2,
		Items:    []OrderItem{{ColorCode: red, Qty: 1}, {ColorCode: blue, Qty: 1}},
		Customer: sampleCustomer(),
	}
	order, err := repo.Create(ctx, in)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, order.ID) })

	assert.True(t, strings.HasPrefix(order.OrderCode, "CUP-"))
	assert.Equal(t, StatusConfirmed, order.Status)
	assert.Equal(t, 50, order.TotalPrice, "seeded price for a 2-pack")
	assert.Equal(t, 0, stockOf(t, db, red))
	assert.Equal(t, 4, stockOf(t, db, blue))

	// the same cart again must fail on the drained color and touch nothing
	_, err = repo.Create(ctx, in)
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, red, short.ColorCode)
	assert.Equal(t, "Sample "+red, short.Name)
	assert.Equal(t, 0, stockOf(t, db, red))
	assert.Equal(t, 4, stockOf(t, db, blue), "untouched by the failed attempt")
}

func TestCreateOrderAggregatesRepeatedColors(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	a := uniqueCode("AGA")
	b := uniqueCode("AGB")
	seedColor(t, db, a, 3)
	seedColor(t, db, b, 1)

	order, err := repo.Create(ctx, NewOrder{
		Language: LangEn,
		PackSize: 4,
		Items: []OrderItem{
			{ColorCode: a, Qty: 1}, {ColorCode: a, Qty: 2}, {ColorCode: b, Qty: 1},
		},
		Customer: sampleCustomer(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, order.ID) })

	assert.Equal(t, 0, stockOf(t, db, a), "repeats reserve additively, once")
	assert.Equal(t, 0, stockOf(t, db, b))
}

func TestCreateOrderAllOrNothing(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	a := uniqueCode("ATA")
	b := uniqueCode("ATB")
	seedColor(t, db, a, 10)
	seedColor(t, db, b, 1)

	_, err := repo.Create(ctx, NewOrder{
		Language: LangEn,
		PackSize: 4,
		Items:    []OrderItem{{ColorCode: a, Qty: 2}, {ColorCode: b, Qty: 2}},
		Customer: sampleCustomer(),
	})
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, b, short.ColorCode)
	assert.Equal(t, 10, stockOf(t, db, a), "no partial decrement")
	assert.Equal(t, 1, stockOf(t, db, b))
}

func TestCreateOrderUnknownColor(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}

	_, err := repo.Create(context.Background(), NewOrder{
		Language: LangEn,
		PackSize: 2,
		Items:    []OrderItem{{ColorCode: uniqueCode("NOPE"), Qty: 2}},
		Customer: sampleCustomer(),
	})
	assert.ErrorIs(t, err, ErrUnknownColor)
}

func TestCreateOrderLastUnitRace(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	x := uniqueCode("RCX")
	filler := uniqueCode("RCF")
	seedColor(t, db, x, 1)
	seedColor(t, db, filler, 100)

	in := NewOrder{
		Language: LangEn,
		PackSize: 2,
		Items:    []OrderItem{{ColorCode: x, Qty: 1}, {ColorCode: filler, Qty: 1}},
		Customer: sampleCustomer(),
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	orders := make([]Order, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orders[i], results[i] = repo.Create(ctx, in)
		}(i)
	}
	wg.Wait()
	for i := range orders {
		if results[i] == nil {
			id := orders[i].ID
			t.Cleanup(func() { _, _ = db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id) })
		}
	}

	var short *InsufficientStockError
	switch {
	case results[0] == nil && results[1] != nil:
		require.ErrorAs(t, results[1], &short)
	case results[1] == nil && results[0] != nil:
		require.ErrorAs(t, results[0], &short)
	default:
		t.Fatalf("exactly one submission must win: %v / %v", results[0], results[1])
	}
	assert.Equal(t, x, short.ColorCode)
	assert.Equal(t, 0, stockOf(t, db, x))
	assert.Equal(t, 99, stockOf(t, db, filler), "loser's filler line rolled back")
}

func TestPriceFrozenAtCreation(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	c := uniqueCode("PRC")
	seedColor(t, db, c, 5)

	order, err := repo.Create(ctx, NewOrder{
		Language: LangEn,
		PackSize: 3,
		Items:    []OrderItem{{ColorCode: c, Qty: 3}},
		Customer: sampleCustomer(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, order.ID) })

	// bump the configured 3-pack price, then restore it
	var oldPrices []byte
	require.NoError(t, db.QueryRow(ctx,
		`SELECT value FROM admin_settings WHERE key = 'pack_prices'`).Scan(&oldPrices))
	_, err = db.Exec(ctx,
		`UPDATE admin_settings SET value = '{"2":50,"3":999,"4":80}' WHERE key = 'pack_prices'`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.Exec(ctx, `UPDATE admin_settings SET value = $1::jsonb WHERE key = 'pack_prices'`, oldPrices)
	})

	var stored int
	require.NoError(t, db.QueryRow(ctx,
		`SELECT total_price FROM orders WHERE id = $1`, order.ID).Scan(&stored))
	assert.Equal(t, order.TotalPrice, stored, "price was frozen at creation")
	assert.NotEqual(t, 999, stored)
}

func TestSetStatusTransitions(t *testing.T) {
	db := testDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	c := uniqueCode("STS")
	seedColor(t, db, c, 5)
	order, err := repo.Create(ctx, NewOrder{
		Language: LangEn,
		PackSize: 2,
		Items:    []OrderItem{{ColorCode: c, Qty: 2}},
		Customer: sampleCustomer(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, order.ID) })

	require.NoError(t, repo.SetStatus(ctx, order.ID, StatusProcessing))
	err = repo.SetStatus(ctx, order.ID, StatusDelivered)
	assert.ErrorIs(t, err, ErrBadTransition, "PROCESSING cannot jump to DELIVERED")
	require.NoError(t, repo.SetStatus(ctx, order.ID, StatusShipped))
	require.NoError(t, repo.SetStatus(ctx, order.ID, StatusDelivered))
	assert.ErrorIs(t, repo.SetStatus(ctx, order.ID, StatusCanceled), ErrBadTransition)

	assert.ErrorIs(t, repo.SetStatus(ctx, uuid.NewString(), StatusProcessing), ErrOrderNotFound)
	assert.True(t, errors.Is(repo.SetStatus(ctx, order.ID, Status("BOGUS")), ErrInvalidStatus))
}
