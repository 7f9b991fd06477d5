package orders

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
)

type Customer struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderItem is a snapshot taken at checkout; later catalog edits never touch it.
type OrderItem struct {
	ID                 string
	ProductName        string
	VariantDescription *string
	Price              int64
	Quantity           int
}

type PaymentProof struct {
	ID        string
	ImageURL  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID            string
	StoreID       string
	CustomerID    string
	PublicOrderID string
	Status        Status
	TotalAmount   int64
	ExpiresAt     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItem
	Proof         *PaymentProof
	Customer      *Customer
}

// Draft is everything CreateOrder persists in one transaction.
// Lines with a VariantID also decrement that variant's stock.
type Draft struct {
	ID            string
	StoreID       string
	CustomerID    string
	PublicOrderID string
	TotalAmount   int64
	ExpiresAt     time.Time
	CreatedAt     time.Time
	Lines         []catalog.Line
}

// Key selects one order: by public code (guests) or by id within a store (admins).
type Key struct {
	PublicOrderID string
	StoreID       string
	ID            string
}

func ByPublicCode(code string) Key { return Key{PublicOrderID: code} }
func ByID(storeID, id string) Key { return Key{StoreID: storeID, ID: id} }
func (k Key) Public() bool { return k.PublicOrderID != "" }

// Mutation is what a MutateFunc asks the repository to write back.
type Mutation struct {
	Status   Status
	ProofURL *string
}

// MutateFunc runs while the order row is locked. Returning an error aborts without writing.
type MutateFunc func(o *Order) (Mutation, error)
