package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGRepo struct{ DB *pgxpool.Pool }

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const pgUniqueViolation = "23505"

// CreateOrder decrements stock with a conditional UPDATE per variant (never
// below zero) and inserts the order with its item snapshots, all in one tx.
// Variants are touched in id order so concurrent checkouts cannot deadlock.
func (r *PGRepo) CreateOrder(ctx context.Context, d Draft) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	type want struct {
		productID string
		qty       int
	}
	byVariant := map[string]*want{}
	for _, l := range d.Lines {
		if l.VariantID == nil {
			continue
		}
		w, ok := byVariant[*l.VariantID]
		if !ok {
			w = &want{productID: l.ProductID}
			byVariant[*l.VariantID] = w
		}
		w.qty += l.Quantity
	}
	variantIDs := make([]string, 0, len(byVariant))
	for id := range byVariant {
		variantIDs = append(variantIDs, id)
	}
	sort.Strings(variantIDs)

	for _, id := range variantIDs {
		w := byVariant[id]
		ct, err := tx.Exec(ctx, `
			UPDATE variants SET stock = stock - $3, updated_at = now()
			WHERE id=$1 AND product_id=$2 AND stock >= $3`, id, w.productID, w.qty)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() != 1 {
			return nil, fmt.Errorf("%w: variant %s", apperr.ErrInsufficientStock, id)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, store_id, customer_id, public_order_id, status, total_amount, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		d.ID, d.StoreID, d.CustomerID, d.PublicOrderID, StatusPendingPayment, d.TotalAmount, d.ExpiresAt, d.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == "orders_public_order_id_key" {
			return nil, ErrDuplicateCode
		}
		return nil, err
	}

	o := &Order{
		ID:            d.ID,
		StoreID:       d.StoreID,
		CustomerID:    d.CustomerID,
		PublicOrderID: d.PublicOrderID,
		Status:        StatusPendingPayment,
		TotalAmount:   d.TotalAmount,
		ExpiresAt:     d.ExpiresAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.CreatedAt,
		Items:         make([]OrderItem, 0, len(d.Lines)),
	}
	for i, l := range d.Lines {
		it := OrderItem{
			ID:                 uuid.NewString(),
			ProductName:        l.ProductName,
			VariantDescription: l.VariantDescription,
			Price:              l.UnitPrice,
			Quantity:           l.Quantity,
		}
		if _, err = tx.Exec(ctx, `
			INSERT INTO order_items(id, order_id, position, product_name, variant_description, price, quantity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			it.ID, o.ID, i, it.ProductName, it.VariantDescription, it.Price, it.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}

const orderSelect = `
	SELECT o.id, o.store_id, o.customer_id, o.public_order_id, o.status, o.total_amount,
	       o.expires_at, o.created_at, o.updated_at,
	       c.phone, c.email, c.created_at,
	       p.id, p.image_url, p.created_at, p.updated_at
	FROM orders o
	JOIN customers c ON c.id = o.customer_id
	LEFT JOIN payment_proofs p ON p.order_id = o.id`

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		c      Customer
		status string
		pid    *string
		purl   *string
		pc, pu *time.Time
	)
	err := row.Scan(&o.ID, &o.StoreID, &o.CustomerID, &o.PublicOrderID, &status, &o.TotalAmount,
		&o.ExpiresAt, &o.CreatedAt, &o.UpdatedAt,
		&c.Phone, &c.Email, &c.CreatedAt,
		&pid, &purl, &pc, &pu)
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)
	c.ID = o.CustomerID
	o.Customer = &c
	if pid != nil {
		o.Proof = &PaymentProof{ID: *pid, ImageURL: *purl, CreatedAt: *pc, UpdatedAt: *pu}
	}
	return &o, nil
}

// where builds the selector for k. Malformed uuids can never match, so they
// short-circuit to not found instead of surfacing a postgres cast error.
func where(k Key) (string, []any, bool) {
	if k.Public() {
		return ` WHERE o.public_order_id=$1`, []any{k.PublicOrderID}, true
	}
	if _, err := uuid.Parse(k.ID); err != nil {
		return "", nil, false
	}
	if _, err := uuid.Parse(k.StoreID); err != nil {
		return "", nil, false
	}
	return ` WHERE o.id=$1 AND o.store_id=$2`, []any{k.ID, k.StoreID}, true
}

func notFound(k Key) error {
	if k.Public() {
		return fmt.Errorf("%w: order %s", apperr.ErrNotFound, k.PublicOrderID)
	}
	return fmt.Errorf("%w: order %s", apperr.ErrNotFound, k.ID)
}

func (r *PGRepo) find(ctx context.Context, q querier, k Key, lock bool) (*Order, error) {
	cond, args, ok := where(k)
	if !ok {
		return nil, notFound(k)
	}
	sql := orderSelect + cond
	if lock {
		sql += ` FOR UPDATE OF o`
	}
	o, err := scanOrder(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound(k)
	}
	if err != nil {
		return nil, err
	}
	if err := loadItems(ctx, q, []*Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

func loadItems(ctx context.Context, q querier, list []*Order) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*Order, len(list))
	ids := make([]string, 0, len(list))
	for _, o := range list {
		byID[o.ID] = o
		ids = append(ids, o.ID)
		o.Items = []OrderItem{}
	}
	rows, err := q.Query(ctx, `
		SELECT order_id, id, product_name, variant_description, price, quantity
		FROM order_items WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var oid string
		var it OrderItem
		if err := rows.Scan(&oid, &it.ID, &it.ProductName, &it.VariantDescription, &it.Price, &it.Quantity); err != nil {
			return err
		}
		byID[oid].Items = append(byID[oid].Items, it)
	}
	return rows.Err()
}

func (r *PGRepo) Find(ctx context.Context, k Key) (*Order, error) {
	return r.find(ctx, r.DB, k, false)
}

func (r *PGRepo) List(ctx context.Context, storeID string, status *Status) ([]Order, error) {
	if _, err := uuid.Parse(storeID); err != nil {
		return []Order{}, nil
	}
	args := []any{storeID}
	sql := orderSelect + ` WHERE o.store_id=$1`
	if status != nil {
		sql += ` AND o.status=$2`
		args = append(args, string(*status))
	}
	sql += ` ORDER BY o.created_at DESC`
	return r.collect(ctx, sql, args...)
}

func (r *PGRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]Order, error) {
	return r.collect(ctx, orderSelect+`
		WHERE o.status=$1 AND o.expires_at < $2
		ORDER BY o.expires_at
		LIMIT $3`, string(StatusPendingPayment), now, limit)
}

func (r *PGRepo) collect(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, *o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*Order, len(out))
	for i := range out {
		ptrs[i] = &out[i]
	}
	if err := loadItems(ctx, r.DB, ptrs); err != nil {
		return nil, err
	}
	return out, nil
}

// Mutate locks the order row, lets fn decide the change and writes it back
// (status and, when asked, the single payment proof) before committing.
func (r *PGRepo) Mutate(ctx context.Context, k Key, fn MutateFunc) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := r.find(ctx, tx, k, true)
	if err != nil {
		return nil, err
	}
	m, err := fn(o)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=$3 WHERE id=$1`, o.ID, string(m.Status), now); err != nil {
		return nil, err
	}
	o.Status = m.Status
	o.UpdatedAt = now

	if m.ProofURL != nil {
		var p PaymentProof
		err := tx.QueryRow(ctx, `
			INSERT INTO payment_proofs(id, order_id, image_url, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $4)
			ON CONFLICT (order_id) DO UPDATE SET image_url = EXCLUDED.image_url, updated_at = EXCLUDED.updated_at
			RETURNING id, image_url, created_at, updated_at`,
			uuid.NewString(), o.ID, *m.ProofURL, now).
			Scan(&p.ID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		o.Proof = &p
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
