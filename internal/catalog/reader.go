package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

// ProductSource loads a product with its options and variants.
// A missing product must be reported as apperr.ErrNotFound.
type ProductSource interface {
	Product(ctx context.Context, id string) (*Product, error)
}

type LineRequest struct {
	ProductID string
	VariantID *string
	Quantity  int
}

// Line is a checkout line priced and described at resolve time.
type Line struct {
	ProductID          string
	ProductName        string
	VariantID          *string
	VariantDescription *string
	UnitPrice          int64
	Quantity           int
}

// MaxQuantity bounds a single line. order_items.quantity is an INT column.
const MaxQuantity = math.MaxInt32

// Subtotal is UnitPrice * Quantity. A product that does not fit in int64 is
// reported as apperr.ErrValidation.
func (l Line) Subtotal() (int64, error) {
	q := int64(l.Quantity)
	if l.UnitPrice < 0 || q < 0 || (l.UnitPrice > 0 && q > math.MaxInt64/l.UnitPrice) {
		return 0, fmt.Errorf("%w: subtotal overflows for product %s", apperr.ErrValidation, l.ProductID)
	}
	return l.UnitPrice * q, nil
}

// AddTotal adds sub to total, rejecting a sum that would overflow int64.
func AddTotal(total, sub int64) (int64, error) {
	if sub < 0 || total > math.MaxInt64-sub {
		return 0, fmt.Errorf("%w: order total overflows", apperr.ErrValidation)
	}
	return total + sub, nil
}

type Reader struct {
	Products ProductSource
}

func NewReader(src ProductSource) *Reader { return &Reader{Products: src} }

// Resolve prices one checkout line for storeID. Products of another store are
// reported as not found. The stock check here is advisory; the authoritative
// decrement happens inside the order transaction.
func (r *Reader) Resolve(ctx context.Context, storeID string, req LineRequest) (*Line, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0 for product %s", apperr.ErrValidation, req.ProductID)
	}
	if req.Quantity > MaxQuantity {
		return nil, fmt.Errorf("%w: quantity %d exceeds %d for product %s", apperr.ErrValidation, req.Quantity, MaxQuantity, req.ProductID)
	}
	p, err := r.Products.Product(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if p.StoreID != storeID {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, req.ProductID)
	}

	line := &Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.BasePrice,
		Quantity:    req.Quantity,
	}
	if req.VariantID == nil {
		if _, err := line.Subtotal(); err != nil {
			return nil, err
		}
		return line, nil
	}

	v := p.Variant(*req.VariantID)
	if v == nil {
		return nil, fmt.Errorf("%w: variant %s", apperr.ErrNotFound, *req.VariantID)
	}
	if v.Stock < req.Quantity {
		return nil, fmt.Errorf("%w: variant %s has %d, requested %d", apperr.ErrInsufficientStock, v.ID, v.Stock, req.Quantity)
	}
	desc := p.Describe(v)
	vid := v.ID
	line.VariantID = &vid
	line.VariantDescription = &desc
	line.UnitPrice = p.EffectivePrice(v)
	if _, err := line.Subtotal(); err != nil {
		return nil, err
	}
	return line, nil
}
