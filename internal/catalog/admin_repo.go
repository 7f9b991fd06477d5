package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func productNotFound(id string) error {
	return fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
}

func validIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}

func (r *PGRepo) CreateProduct(ctx context.Context, storeID string, in ProductInput) (*Product, error) {
	if !validIDs(storeID) {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products (id, store_id, name, description, base_price)
		VALUES ($1, $2, $3, $4, $5)`, id, storeID, in.Name, in.Description, in.BasePrice)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
		}
		return nil, err
	}
	return r.Product(ctx, id)
}

func (r *PGRepo) DeleteProduct(ctx context.Context, storeID, productID string) error {
	if !validIDs(storeID, productID) {
		return productNotFound(productID)
	}
	tag, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1 AND store_id=$2`, productID, storeID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return productNotFound(productID)
	}
	return nil
}

// edit locks the product row of storeID, runs fn in the same transaction and
// reloads the product once committed.
func (r *PGRepo) edit(ctx context.Context, storeID, productID string, fn func(tx pgx.Tx) error) (*Product, error) {
	if !validIDs(storeID, productID) {
		return nil, productNotFound(productID)
	}
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var one int
	err = tx.QueryRow(ctx, `SELECT 1 FROM products WHERE id=$1 AND store_id=$2 FOR UPDATE`, productID, storeID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, productNotFound(productID)
	}
	if err != nil {
		return nil, err
	}
	if err := fn(tx); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE products SET updated_at=now() WHERE id=$1`, productID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.Product(ctx, productID)
}

// deleteChild removes one row of a product's child table.
func deleteChild(ctx context.Context, tx pgx.Tx, sql, kind, id, productID string) error {
	if !validIDs(id) {
		return fmt.Errorf("%w: %s %s", apperr.ErrNotFound, kind, id)
	}
	tag, err := tx.Exec(ctx, sql, id, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s %s", apperr.ErrNotFound, kind, id)
	}
	return nil
}

func (r *PGRepo) UpdateProduct(ctx context.Context, storeID, productID string, p ProductPatch) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE products
			SET name = COALESCE($2, name),
			    description = COALESCE($3, description),
			    base_price = COALESCE($4, base_price)
			WHERE id=$1`, productID, p.Name, p.Description, p.BasePrice)
		return err
	})
}

func (r *PGRepo) AddImage(ctx context.Context, storeID, productID string, in ImageInput) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO product_images (id, product_id, image_url) VALUES ($1, $2, $3)`,
			uuid.NewString(), productID, in.ImageURL)
		return err
	})
}

func (r *PGRepo) RemoveImage(ctx context.Context, storeID, productID, imageID string) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		return deleteChild(ctx, tx, `DELETE FROM product_images WHERE id=$1 AND product_id=$2`, "image", imageID, productID)
	})
}

// AddOption appends an option after the existing ones. Its values are stored
// at the positions they were given in.
func (r *PGRepo) AddOption(ctx context.Context, storeID, productID string, in OptionInput) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		optionID := uuid.NewString()
		_, err := tx.Exec(ctx, `
			INSERT INTO product_options (id, product_id, name, position)
			SELECT $1::uuid, $2::uuid, $3::text, COALESCE(MAX(position) + 1, 0)
			FROM product_options WHERE product_id = $2::uuid`, optionID, productID, in.Name)
		if err != nil {
			return err
		}

		b := &pgx.Batch{}
		for i, v := range in.Values {
			b.Queue(`INSERT INTO option_values (id, option_id, value, position) VALUES ($1, $2, $3, $4)`,
				uuid.NewString(), optionID, v, i)
		}
		err = tx.SendBatch(ctx, b).Close()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: option %s repeats a value", apperr.ErrValidation, in.Name)
		}
		return err
	})
}

func (r *PGRepo) RemoveOption(ctx context.Context, storeID, productID, optionID string) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		return deleteChild(ctx, tx, `DELETE FROM product_options WHERE id=$1 AND product_id=$2`, "option", optionID, productID)
	})
}

// optionsOf loads the option tree of productID inside tx for link checks.
func optionsOf(ctx context.Context, tx pgx.Tx, productID string) (*Product, error) {
	rows, err := tx.Query(ctx, `
		SELECT o.id, v.id
		FROM product_options o
		JOIN option_values v ON v.option_id = o.id
		WHERE o.product_id = $1
		ORDER BY o.position, o.id, v.position, v.id`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p := &Product{ID: productID}
	for rows.Next() {
		var oid, vid string
		if err := rows.Scan(&oid, &vid); err != nil {
			return nil, err
		}
		if n := len(p.Options); n == 0 || p.Options[n-1].ID != oid {
			p.Options = append(p.Options, Option{ID: oid})
		}
		o := &p.Options[len(p.Options)-1]
		o.Values = append(o.Values, OptionValue{ID: vid, OptionID: oid})
	}
	return p, rows.Err()
}

func (r *PGRepo) AddVariant(ctx context.Context, storeID, productID string, in VariantInput) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		p, err := optionsOf(ctx, tx, productID)
		if err != nil {
			return err
		}
		if err := p.CheckLinks(in.OptionValueIDs); err != nil {
			return err
		}

		variantID := uuid.NewString()
		b := &pgx.Batch{}
		b.Queue(`
			INSERT INTO variants (id, product_id, sku, price_override, stock)
			VALUES ($1, $2, $3, $4, $5)`, variantID, productID, in.SKU, in.PriceOverride, in.Stock)
		for _, vid := range in.OptionValueIDs {
			b.Queue(`INSERT INTO variant_option_values (variant_id, option_value_id) VALUES ($1, $2)`, variantID, vid)
		}
		return tx.SendBatch(ctx, b).Close()
	})
}

// UpdateVariant edits stock, SKU and price override. Stock is set, not
// adjusted; checkout decrements run against the same row.
func (r *PGRepo) UpdateVariant(ctx context.Context, storeID, productID, variantID string, p VariantPatch) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		if !validIDs(variantID) {
			return fmt.Errorf("%w: variant %s", apperr.ErrNotFound, variantID)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE variants
			SET sku = COALESCE($3::text, sku),
			    price_override = CASE WHEN $4::boolean THEN NULL ELSE COALESCE($5::bigint, price_override) END,
			    stock = COALESCE($6::int, stock),
			    updated_at = now()
			WHERE id=$1 AND product_id=$2`,
			variantID, productID, p.SKU, p.ClearPriceOverride, p.PriceOverride, p.Stock)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: variant %s", apperr.ErrNotFound, variantID)
		}
		return nil
	})
}

func (r *PGRepo) RemoveVariant(ctx context.Context, storeID, productID, variantID string) (*Product, error) {
	return r.edit(ctx, storeID, productID, func(tx pgx.Tx) error {
		return deleteChild(ctx, tx, `DELETE FROM variants WHERE id=$1 AND product_id=$2`, "variant", variantID, productID)
	})
}
