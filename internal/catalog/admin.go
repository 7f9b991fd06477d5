package catalog

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

// Editor is the write side behind the admin product routes. Every call is
// scoped to storeID and a product of another store is reported as not found.
// Mutations return the product as it looks after the change.
type Editor interface {
	CreateProduct(ctx context.Context, storeID string, in ProductInput) (*Product, error)
	UpdateProduct(ctx context.Context, storeID, productID string, p ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, storeID, productID string) error

	AddImage(ctx context.Context, storeID, productID string, in ImageInput) (*Product, error)
	RemoveImage(ctx context.Context, storeID, productID, imageID string) (*Product, error)

	AddOption(ctx context.Context, storeID, productID string, in OptionInput) (*Product, error)
	RemoveOption(ctx context.Context, storeID, productID, optionID string) (*Product, error)

	AddVariant(ctx context.Context, storeID, productID string, in VariantInput) (*Product, error)
	UpdateVariant(ctx context.Context, storeID, productID, variantID string, p VariantPatch) (*Product, error)
	RemoveVariant(ctx context.Context, storeID, productID, variantID string) (*Product, error)
}

type ProductInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	BasePrice   int64  `json:"base_price" validate:"gte=0"`
}

// ProductPatch carries the editable product fields. Nil means "leave unchanged".
type ProductPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	BasePrice   *int64  `json:"base_price" validate:"omitempty,gte=0"`
}

func (p ProductPatch) Apply(dst *Product) {
	if p.Name != nil {
		dst.Name = *p.Name
	}
	if p.Description != nil {
		dst.Description = *p.Description
	}
	if p.BasePrice != nil {
		dst.BasePrice = *p.BasePrice
	}
}

type ImageInput struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// OptionInput adds one option; Values keep the order they are given in.
type OptionInput struct {
	Name   string   `json:"name" validate:"required,max=60"`
	Values []string `json:"values" validate:"required,min=1,unique,dive,required,max=60"`
}

type VariantInput struct {
	SKU            *string  `json:"sku" validate:"omitempty,min=1,max=64"`
	PriceOverride  *int64   `json:"price_override" validate:"omitempty,gte=0"`
	Stock          int      `json:"stock" validate:"gte=0,max=2147483647"`
	OptionValueIDs []string `json:"option_value_ids" validate:"unique,dive,required"`
}

// VariantPatch updates stock and pricing. ClearPriceOverride drops the
// override so the variant falls back to the base price.
type VariantPatch struct {
	SKU                *string `json:"sku" validate:"omitempty,min=1,max=64"`
	PriceOverride      *int64  `json:"price_override" validate:"omitempty,gte=0"`
	ClearPriceOverride bool    `json:"clear_price_override"`
	Stock              *int    `json:"stock" validate:"omitempty,gte=0,max=2147483647"`
}

func (p VariantPatch) Apply(v *Variant) {
	if p.SKU != nil {
		sku := *p.SKU
		v.SKU = &sku
	}
	switch {
	case p.ClearPriceOverride:
		v.PriceOverride = nil
	case p.PriceOverride != nil:
		price := *p.PriceOverride
		v.PriceOverride = &price
	}
	if p.Stock != nil {
		v.Stock = *p.Stock
	}
}

// CheckLinks verifies that every id is a value of one of p's options and that
// no option is linked twice.
func (p *Product) CheckLinks(ids []string) error {
	owner := map[string]string{}
	for _, o := range p.Options {
		for _, v := range o.Values {
			owner[v.ID] = o.ID
		}
	}
	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		opt, ok := owner[id]
		if !ok {
			return fmt.Errorf("%w: option value %s is not defined on product %s", apperr.ErrValidation, id, p.ID)
		}
		if prev, dup := seen[opt]; dup {
			return fmt.Errorf("%w: option values %s and %s belong to the same option", apperr.ErrValidation, prev, id)
		}
		seen[opt] = id
	}
	return nil
}
