package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGAdmins struct{ DB *pgxpool.Pool }

func (r *PGAdmins) FindByLogin(ctx context.Context, login string) (*Admin, error) {
	var a Admin
	var role string
	err := r.DB.QueryRow(ctx, `
		SELECT id, store_id, name, phone, email, role, password
		FROM admins WHERE phone=$1 OR email=$1
		LIMIT 1`, login).
		Scan(&a.ID, &a.StoreID, &a.Name, &a.Phone, &a.Email, &role, &a.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: admin", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	a.Role = Role(role)
	return &a, nil
}
