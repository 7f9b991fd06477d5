package orders

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/stores"
)

type ItemView struct {
	ProductName        string  `json:"product_name"`
	VariantDescription *string `json:"variant_description"`
	Price              int64   `json:"price"`
	Quantity           int     `json:"quantity"`
}

type ProofView struct {
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is the outward shape of an order. It is rebuilt from the order on every read.
// Guests get Store, admins get ID and Customer.
type View struct {
	ID            string              `json:"id,omitempty"`
	PublicOrderID string              `json:"public_order_id"`
	Status        Status              `json:"status"`
	TotalAmount   int64               `json:"total_amount"`
	ExpiresAt     time.Time           `json:"expires_at"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []ItemView          `json:"items"`
	PaymentProof  *ProofView          `json:"payment_proof"`
	Store         *stores.PaymentInfo `json:"store,omitempty"`
	Customer      *Customer           `json:"customer,omitempty"`
}

// ProofReceipt is returned to the guest after a proof upload.
type ProofReceipt struct {
	PublicOrderID string     `json:"public_order_id"`
	Status        Status     `json:"status"`
	PaymentProof  *ProofView `json:"payment_proof"`
}

func baseView(o *Order) View {
	v := View{
		PublicOrderID: o.PublicOrderID,
		Status:        o.Status,
		TotalAmount:   o.TotalAmount,
		ExpiresAt:     o.ExpiresAt,
		CreatedAt:     o.CreatedAt,
		Items:         make([]ItemView, 0, len(o.Items)),
		PaymentProof:  proofView(o.Proof),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, ItemView{
			ProductName:        it.ProductName,
			VariantDescription: it.VariantDescription,
			Price:              it.Price,
			Quantity:           it.Quantity,
		})
	}
	return v
}

func proofView(p *PaymentProof) *ProofView {
	if p == nil {
		return nil
	}
	return &ProofView{ImageURL: p.ImageURL, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}

func GuestView(o *Order, store *stores.PaymentInfo) View {
	v := baseView(o)
	v.Store = store
	return v
}

func AdminView(o *Order) View {
	v := baseView(o)
	v.ID = o.ID
	v.Customer = o.Customer
	return v
}
