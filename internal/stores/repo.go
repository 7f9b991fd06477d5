package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is what the order engine and the admin store routes need.
type Repository interface {
	Get(ctx context.Context, id string) (*Store, error)
	Update(ctx context.Context, id string, p Patch) (*Store, error)
}

type PGRepo struct{ DB *pgxpool.Pool }

const storeColumns = `id, name, logo_url, banner_url, footer_text, whatsapp_number, email, address,
	bank_account_name, bank_account_number, bank_name, qris_image_url, created_at, updated_at`

func scanStore(row pgx.Row) (*Store, error) {
	var s Store
	err := row.Scan(&s.ID, &s.Name, &s.LogoURL, &s.BannerURL, &s.FooterText, &s.WhatsappNumber,
		&s.Email, &s.Address, &s.BankAccountName, &s.BankAccountNumber, &s.BankName,
		&s.QRISImageURL, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepo) Get(ctx context.Context, id string) (*Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	return scanStore(r.DB.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id=$1`, id))
}

func (r *PGRepo) Update(ctx context.Context, id string, p Patch) (*Store, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	s, err := scanStore(tx.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id=$1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	p.Apply(s)
	s.UpdatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		UPDATE stores SET name=$2, logo_url=$3, banner_url=$4, footer_text=$5, whatsapp_number=$6,
		       email=$7, address=$8, bank_account_name=$9, bank_account_number=$10, bank_name=$11,
		       qris_image_url=$12, updated_at=$13
		WHERE id=$1`,
		s.ID, s.Name, s.LogoURL, s.BannerURL, s.FooterText, s.WhatsappNumber, s.Email, s.Address,
		s.BankAccountName, s.BankAccountNumber, s.BankName, s.QRISImageURL, s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return s, nil
}
