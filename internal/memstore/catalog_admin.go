package memstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/google/uuid"
)

// catalog.Editor

var _ catalog.Editor = Catalog{}

func (r Catalog) CreateProduct(_ context.Context, storeID string, in catalog.ProductInput) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[storeID]; !ok {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	now := time.Now().UTC()
	p := &catalog.Product{
		ID:          uuid.NewString(),
		StoreID:     storeID,
		Name:        in.Name,
		Description: in.Description,
		BasePrice:   in.BasePrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.products[p.ID] = p
	return cloneProduct(p), nil
}

func (r Catalog) DeleteProduct(_ context.Context, storeID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok || p.StoreID != storeID {
		return fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}
	delete(r.products, productID)
	return nil
}

// edit applies fn to a copy of the product and only stores it when fn succeeds.
func (r Catalog) edit(storeID, productID string, fn func(p *catalog.Product) error) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[productID]
	if !ok || p.StoreID != storeID {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, productID)
	}
	work := cloneProduct(p)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = time.Now().UTC()
	r.products[productID] = work
	return cloneProduct(work), nil
}

func (r Catalog) UpdateProduct(_ context.Context, storeID, productID string, patch catalog.ProductPatch) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		patch.Apply(p)
		return nil
	})
}

func (r Catalog) AddImage(_ context.Context, storeID, productID string, in catalog.ImageInput) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		p.Images = append(p.Images, catalog.Image{ID: uuid.NewString(), ImageURL: in.ImageURL})
		return nil
	})
}

func (r Catalog) RemoveImage(_ context.Context, storeID, productID, imageID string) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		i := slices.IndexFunc(p.Images, func(img catalog.Image) bool { return img.ID == imageID })
		if i < 0 {
			return fmt.Errorf("%w: image %s", apperr.ErrNotFound, imageID)
		}
		p.Images = slices.Delete(p.Images, i, i+1)
		return nil
	})
}

func (r Catalog) AddOption(_ context.Context, storeID, productID string, in catalog.OptionInput) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		o := catalog.Option{ID: uuid.NewString(), Name: in.Name}
		seen := map[string]bool{}
		for _, v := range in.Values {
			if seen[v] {
				return fmt.Errorf("%w: option %s repeats a value", apperr.ErrValidation, in.Name)
			}
			seen[v] = true
			o.Values = append(o.Values, catalog.OptionValue{ID: uuid.NewString(), OptionID: o.ID, Value: v})
		}
		p.Options = append(p.Options, o)
		return nil
	})
}

// RemoveOption drops the option with its values and unlinks them from variants.
func (r Catalog) RemoveOption(_ context.Context, storeID, productID, optionID string) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		i := slices.IndexFunc(p.Options, func(o catalog.Option) bool { return o.ID == optionID })
		if i < 0 {
			return fmt.Errorf("%w: option %s", apperr.ErrNotFound, optionID)
		}
		gone := map[string]bool{}
		for _, v := range p.Options[i].Values {
			gone[v.ID] = true
		}
		p.Options = slices.Delete(p.Options, i, i+1)
		for j := range p.Variants {
			v := &p.Variants[j]
			v.OptionValueIDs = slices.DeleteFunc(v.OptionValueIDs, func(id string) bool { return gone[id] })
		}
		return nil
	})
}

func (r Catalog) AddVariant(_ context.Context, storeID, productID string, in catalog.VariantInput) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		if err := p.CheckLinks(in.OptionValueIDs); err != nil {
			return err
		}
		v := catalog.Variant{
			ID:             uuid.NewString(),
			Stock:          in.Stock,
			OptionValueIDs: append([]string(nil), in.OptionValueIDs...),
		}
		if in.SKU != nil {
			sku := *in.SKU
			v.SKU = &sku
		}
		if in.PriceOverride != nil {
			price := *in.PriceOverride
			v.PriceOverride = &price
		}
		p.Variants = append(p.Variants, v)
		return nil
	})
}

func (r Catalog) UpdateVariant(_ context.Context, storeID, productID, variantID string, patch catalog.VariantPatch) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		v := p.Variant(variantID)
		if v == nil {
			return fmt.Errorf("%w: variant %s", apperr.ErrNotFound, variantID)
		}
		patch.Apply(v)
		return nil
	})
}

func (r Catalog) RemoveVariant(_ context.Context, storeID, productID, variantID string) (*catalog.Product, error) {
	return r.edit(storeID, productID, func(p *catalog.Product) error {
		i := slices.IndexFunc(p.Variants, func(v catalog.Variant) bool { return v.ID == variantID })
		if i < 0 {
			return fmt.Errorf("%w: variant %s", apperr.ErrNotFound, variantID)
		}
		p.Variants = slices.Delete(p.Variants, i, i+1)
		return nil
	})
}
