package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the read side used by public product routes.
type Repository interface {
	ProductSource
	ListProducts(ctx context.Context, storeID string) ([]Product, error)
}

type PGRepo struct{ DB *pgxpool.Pool }

func (r *PGRepo) Product(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, store_id, name, description, base_price, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.BasePrice, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	ps := []*Product{&p}
	if err := r.loadChildren(ctx, ps); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns every product, newest first. An empty storeID lists all stores.
func (r *PGRepo) ListProducts(ctx context.Context, storeID string) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, store_id, name, description, base_price, created_at, updated_at
		FROM products
		WHERE ($1 = '' OR store_id::text = $1)
		ORDER BY created_at DESC`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.Name, &p.Description, &p.BasePrice, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ps := make([]*Product, len(out))
	for i := range out {
		ps[i] = &out[i]
	}
	if err := r.loadChildren(ctx, ps); err != nil {
		return nil, err
	}
	return out, nil
}

// loadChildren fills images, options (with values) and variants (with links)
// for ps using one query per relation.
func (r *PGRepo) loadChildren(ctx context.Context, ps []*Product) error {
	if len(ps) == 0 {
		return nil
	}
	byID := make(map[string]*Product, len(ps))
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, id, image_url FROM product_images
		WHERE product_id = ANY($1) ORDER BY created_at, id`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var pid string
		var img Image
		if err := rows.Scan(&pid, &img.ID, &img.ImageURL); err != nil {
			rows.Close()
			return err
		}
		byID[pid].Images = append(byID[pid].Images, img)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	// options and their values in definition order
	rows, err = r.DB.Query(ctx, `
		SELECT o.product_id, o.id, o.name, v.id, v.value
		FROM product_options o
		LEFT JOIN option_values v ON v.option_id = o.id
		WHERE o.product_id = ANY($1)
		ORDER BY o.product_id, o.position, o.created_at, o.id, v.position, v.id`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var pid, oid, oname string
		var vid, val *string
		if err := rows.Scan(&pid, &oid, &oname, &vid, &val); err != nil {
			rows.Close()
			return err
		}
		p := byID[pid]
		if n := len(p.Options); n == 0 || p.Options[n-1].ID != oid {
			p.Options = append(p.Options, Option{ID: oid, Name: oname})
		}
		if vid != nil {
			o := &p.Options[len(p.Options)-1]
			o.Values = append(o.Values, OptionValue{ID: *vid, OptionID: oid, Value: *val})
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.DB.Query(ctx, `
		SELECT v.product_id, v.id, v.sku, v.price_override, v.stock,
		       COALESCE(array_agg(l.option_value_id::text) FILTER (WHERE l.option_value_id IS NOT NULL), '{}')
		FROM variants v
		LEFT JOIN variant_option_values l ON l.variant_id = v.id
		WHERE v.product_id = ANY($1)
		GROUP BY v.id
		ORDER BY v.created_at, v.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var pid string
		var v Variant
		if err := rows.Scan(&pid, &v.ID, &v.SKU, &v.PriceOverride, &v.Stock, &v.OptionValueIDs); err != nil {
			return err
		}
		byID[pid].Variants = append(byID[pid].Variants, v)
	}
	return rows.Err()
}
