package httpx

import (
	"github.com/ariefcatur/go-storefront/internal/orders"
)

type checkoutItemReq struct {
	ProductID string  `json:"product_id" validate:"required"`
	VariantID *string `json:"variant_id" validate:"omitempty,min=1"`
	Quantity  int     `json:"quantity" validate:"required,gt=0,max=100000"`
}

type checkoutReq struct {
	StoreID       string            `json:"store_id" validate:"required"`
	CustomerPhone string            `json:"customer_phone" validate:"required,min=6,max=20"`
	CustomerEmail *string           `json:"customer_email" validate:"omitempty,email"`
	Items         []checkoutItemReq `json:"items" validate:"required,min=1,dive"`
}

func (c checkoutReq) input() orders.CheckoutInput {
	in := orders.CheckoutInput{
		StoreID:       c.StoreID,
		CustomerPhone: c.CustomerPhone,
		CustomerEmail: c.CustomerEmail,
		Items:         make([]orders.CheckoutItem, 0, len(c.Items)),
	}
	for _, it := range c.Items {
		in.Items = append(in.Items, orders.CheckoutItem{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return in
}

type proofReq struct {
	PublicOrderID string `json:"public_order_id" validate:"required"`
	ImageURL      string `json:"image_url" validate:"required,url"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

type loginReq struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}
