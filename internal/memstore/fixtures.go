package memstore

import (
	"time"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/stores"
)

// Demo fixture ids.
const (
	StoreA = "store-a"
	StoreB = "store-b"

	ProductJacket  = "prod-jacket"
	VariantJacketL = "var-jacket-l"
	ProductTee     = "prod-tee"
	VariantTeeM    = "var-tee-m"
	ProductB       = "prod-b-cap"
)

func strp(s string) *string { return &s }

// Seeded returns a DB holding two stores. Store A sells a jacket (350000,
// stock 5) and a tee (120000, stock 10); store B sells a cap.
func Seeded() *DB {
	db := New()
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	db.PutStore(stores.Store{
		ID:                StoreA,
		Name:              "Toko Urban",
		WhatsappNumber:    strp("6281234567890"),
		BankName:          strp("BCA"),
		BankAccountName:   strp("PT Toko Urban"),
		BankAccountNumber: strp("1234567890"),
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	db.PutStore(stores.Store{ID: StoreB, Name: "Toko Lain", CreatedAt: now, UpdatedAt: now})

	db.PutProduct(catalog.Product{
		ID:        ProductJacket,
		StoreID:   StoreA,
		Name:      "Bomber Jacket",
		BasePrice: 350000,
		Options: []catalog.Option{
			{ID: "opt-size", Name: "Size", Values: []catalog.OptionValue{{ID: "val-l", OptionID: "opt-size", Value: "L"}}},
		},
		Variants:  []catalog.Variant{{ID: VariantJacketL, Stock: 5, OptionValueIDs: []string{"val-l"}}},
		CreatedAt: now,
		UpdatedAt: now,
	})
	db.PutProduct(catalog.Product{
		ID:        ProductTee,
		StoreID:   StoreA,
		Name:      "Kaos Polos",
		BasePrice: 120000,
		Options: []catalog.Option{
			{ID: "opt-tee-size", Name: "Size", Values: []catalog.OptionValue{{ID: "val-m", OptionID: "opt-tee-size", Value: "M"}}},
		},
		Variants:  []catalog.Variant{{ID: VariantTeeM, Stock: 10, OptionValueIDs: []string{"val-m"}}},
		CreatedAt: now.Add(time.Minute),
		UpdatedAt: now.Add(time.Minute),
	})
	db.PutProduct(catalog.Product{
		ID:        ProductB,
		StoreID:   StoreB,
		Name:      "Topi",
		BasePrice: 50000,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return db
}
