package catalog

import (
	"strings"
	"time"
)

type Product struct {
	ID          string
	StoreID     string
	Name        string
	Description string
	BasePrice   int64
	Images      []Image
	Options     []Option // definition order
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Image struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
}

type Option struct {
	ID     string
	Name   string
	Values []OptionValue
}

type OptionValue struct {
	ID       string `json:"id"`
	OptionID string `json:"option_id"`
	Value    string `json:"value"`
}

type Variant struct {
	ID             string
	SKU            *string
	PriceOverride  *int64
	Stock          int
	OptionValueIDs []string
}

// EffectivePrice is the variant override when set, the product base price otherwise.
func (p *Product) EffectivePrice(v *Variant) int64 {
	if v != nil && v.PriceOverride != nil {
		return *v.PriceOverride
	}
	return p.BasePrice
}

func (p *Product) Variant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// Describe renders "Size: M, Color: Hitam" following the product's option order,
// not the order the links were stored in.
func (p *Product) Describe(v *Variant) string {
	linked := make(map[string]struct{}, len(v.OptionValueIDs))
	for _, id := range v.OptionValueIDs {
		linked[id] = struct{}{}
	}
	parts := make([]string, 0, len(p.Options))
	for _, opt := range p.Options {
		for _, val := range opt.Values {
			if _, ok := linked[val.ID]; ok {
				parts = append(parts, opt.Name+": "+val.Value)
				break
			}
		}
	}
	return strings.Join(parts, ", ")
}
