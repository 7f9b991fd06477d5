package orders_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/stores"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// pgEnv runs against the database in STOREFRONT_TEST_DSN and skips without it.
type pgEnv struct {
	pool      *pgxpool.Pool
	svc       *orders.Service
	storeID   string
	productID string
	variantID string
	phone     string
}

func newPGEnv(t *testing.T, stock int) *pgEnv {
	t.Helper()
	dsn := os.Getenv("STOREFRONT_TEST_DSN")
	if dsn == "" {
		t.Skip("STOREFRONT_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	e := &pgEnv{
		pool:      pool,
		storeID:   uuid.NewString(),
		productID: uuid.NewString(),
		variantID: uuid.NewString(),
		phone:     "0899" + uuid.NewString()[:8],
	}
	_, err = pool.Exec(ctx, `INSERT INTO stores (id, name) VALUES ($1, 'Toko Uji')`, e.storeID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO products (id, store_id, name, base_price) VALUES ($1, $2, 'Kaos Uji', 100000)`, e.productID, e.storeID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO variants (id, product_id, stock) VALUES ($1, $2, $3)`, e.variantID, e.productID, stock)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = pool.Exec(ctx, `DELETE FROM orders WHERE store_id=$1`, e.storeID)
		_, _ = pool.Exec(ctx, `DELETE FROM customers WHERE phone=$1`, e.phone)
		_, _ = pool.Exec(ctx, `DELETE FROM stores WHERE id=$1`, e.storeID)
	})

	e.svc = &orders.Service{
		Orders:    &orders.PGRepo{DB: pool},
		Customers: &orders.PGCustomers{DB: pool},
		Stores:    &stores.PGRepo{DB: pool},
		Lines:     catalog.NewReader(&catalog.PGRepo{DB: pool}),
	}
	return e
}

func (e *pgEnv) checkout(ctx context.Context, qty int) (orders.View, error) {
	return e.svc.CreateOrder(ctx, orders.CheckoutInput{
		StoreID:       e.storeID,
		CustomerPhone: e.phone,
		Items:         []orders.CheckoutItem{{ProductID: e.productID, VariantID: &e.variantID, Quantity: qty}},
	})
}

func (e *pgEnv) stock(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.pool.QueryRow(context.Background(), `SELECT stock FROM variants WHERE id=$1`, e.variantID).Scan(&n))
	return n
}

func TestPGRepo_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	e := newPGEnv(t, 5)
	ctx := context.Background()
	var ok, short atomic.Int32

	var g errgroup.Group
	for i := 0; i < 20; i++ {
		g.Go(func() error {
			_, err := e.checkout(ctx, 1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperr.ErrInsufficientStock):
				short.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(5), ok.Load())
	assert.Equal(t, int32(15), short.Load())
	assert.Equal(t, 0, e.stock(t))

	var orderCount int
	require.NoError(t, e.pool.QueryRow(ctx, `SELECT count(*) FROM orders WHERE store_id=$1`, e.storeID).Scan(&orderCount))
	assert.Equal(t, 5, orderCount)
}

func TestPGRepo_FailedCheckoutLeavesStock(t *testing.T) {
	e := newPGEnv(t, 2)
	ctx := context.Background()

	_, err := e.checkout(ctx, 3)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 2, e.stock(t))

	v, err := e.checkout(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(200000), v.TotalAmount)
	assert.Equal(t, 0, e.stock(t))
}

func TestPGRepo_ConcurrentProofsLockTheOrder(t *testing.T) {
	e := newPGEnv(t, 1)
	ctx := context.Background()
	v, err := e.checkout(ctx, 1)
	require.NoError(t, err)

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := e.svc.SubmitPaymentProof(ctx, v.PublicOrderID, "https://cdn.example/proof.jpg")
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, apperr.ErrInvalidState):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(9), rejected.Load())

	got, err := e.svc.GetByPublicCode(ctx, v.PublicOrderID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusWaitingConfirmation, got.Status)
	require.NotNil(t, got.PaymentProof)
}
