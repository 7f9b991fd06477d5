package catalog

import "time"

type PublicProduct struct {
	ID          string          `json:"id"`
	StoreID     string          `json:"store_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BasePrice   int64           `json:"base_price"`
	Images      []Image         `json:"images"`
	Options     []PublicOption  `json:"options"`
	Variants    []PublicVariant `json:"variants"`
	CreatedAt   time.Time       `json:"created_at"`
}

type PublicOption struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Values []OptionValue `json:"values"`
}

type PublicVariant struct {
	ID          string        `json:"id"`
	SKU         *string       `json:"sku"`
	Stock       int           `json:"stock"`
	Price       int64         `json:"price"`
	Description string        `json:"description"`
	Options     []OptionValue `json:"options"`
}

func (p *Product) Public() PublicProduct {
	out := PublicProduct{
		ID:          p.ID,
		StoreID:     p.StoreID,
		Name:        p.Name,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		Images:      append([]Image{}, p.Images...),
		Options:     make([]PublicOption, 0, len(p.Options)),
		Variants:    make([]PublicVariant, 0, len(p.Variants)),
		CreatedAt:   p.CreatedAt,
	}
	values := map[string]OptionValue{}
	for _, o := range p.Options {
		out.Options = append(out.Options, PublicOption{ID: o.ID, Name: o.Name, Values: append([]OptionValue{}, o.Values...)})
		for _, v := range o.Values {
			values[v.ID] = v
		}
	}
	for i := range p.Variants {
		v := &p.Variants[i]
		pv := PublicVariant{
			ID:          v.ID,
			SKU:         v.SKU,
			Stock:       v.Stock,
			Price:       p.EffectivePrice(v),
			Description: p.Describe(v),
			Options:     make([]OptionValue, 0, len(v.OptionValueIDs)),
		}
		for _, id := range v.OptionValueIDs {
			if ov, ok := values[id]; ok {
				pv.Options = append(pv.Options, ov)
			}
		}
		out.Variants = append(out.Variants, pv)
	}
	return out
}
