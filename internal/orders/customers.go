package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGCustomers keys customers by phone across every store.
type PGCustomers struct{ DB *pgxpool.Pool }

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Phone, &c.Email, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PGCustomers) FindByPhone(ctx context.Context, phone string) (*Customer, error) {
	return scanCustomer(r.DB.QueryRow(ctx, `SELECT id, phone, email, created_at FROM customers WHERE phone=$1`, phone))
}

// Create inserts c, or returns the row that won a concurrent insert for the same phone.
func (r *PGCustomers) Create(ctx context.Context, c Customer) (*Customer, error) {
	return scanCustomer(r.DB.QueryRow(ctx, `
		INSERT INTO customers(id, phone, email, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone) DO UPDATE SET phone = EXCLUDED.phone
		RETURNING id, phone, email, created_at`, c.ID, c.Phone, c.Email, c.CreatedAt))
}

func (r *PGCustomers) SetEmail(ctx context.Context, id, email string) (*Customer, error) {
	c, err := scanCustomer(r.DB.QueryRow(ctx, `
		UPDATE customers SET email=$2 WHERE id=$1 AND email IS NULL
		RETURNING id, phone, email, created_at`, id, email))
	if errors.Is(err, apperr.ErrNotFound) {
		// someone else set it first
		return scanCustomer(r.DB.QueryRow(ctx, `SELECT id, phone, email, created_at FROM customers WHERE id=$1`, id))
	}
	return c, err
}
