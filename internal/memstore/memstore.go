// Package memstore keeps every repository port in memory. It honours the
// same contracts as the postgres repositories (conditional stock decrement,
// row-locked mutations, tenant scoping) and backs the service and HTTP tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/stores"
)

type DB struct {
	mu sync.Mutex

	stores    map[string]*stores.Store
	products  map[string]*catalog.Product
	customers map[string]*orders.Customer
	phones    map[string]string
	orders    map[string]*orders.Order
	codes     map[string]string
	admins    map[string]*auth.Admin
	seq       []string
}

func New() *DB {
	return &DB{
		stores:    map[string]*stores.Store{},
		products:  map[string]*catalog.Product{},
		customers: map[string]*orders.Customer{},
		phones:    map[string]string{},
		orders:    map[string]*orders.Order{},
		codes:     map[string]string{},
		admins:    map[string]*auth.Admin{},
	}
}

// Seeding

func (db *DB) PutStore(s stores.Store) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.stores[s.ID] = &s
}

func (db *DB) PutProduct(p catalog.Product) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.products[p.ID] = cloneProduct(&p)
}

func (db *DB) PutAdmin(a auth.Admin) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.admins[a.ID] = &a
}

// Stock returns the current stock of a variant, or -1 when it does not exist.
func (db *DB) Stock(productID, variantID string) int {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.products[productID]
	if !ok {
		return -1
	}
	if v := p.Variant(variantID); v != nil {
		return v.Stock
	}
	return -1
}

func (db *DB) OrderCount() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.orders)
}

// stores.Repository

type Stores struct{ *DB }

func (r Stores) Get(_ context.Context, id string) (*stores.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	c := *s
	return &c, nil
}

func (r Stores) Update(_ context.Context, id string, p stores.Patch) (*stores.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stores[id]
	if !ok {
		return nil, fmt.Errorf("%w: store", apperr.ErrNotFound)
	}
	p.Apply(s)
	s.UpdatedAt = time.Now().UTC()
	c := *s
	return &c, nil
}

// catalog.Repository

type Catalog struct{ *DB }

func (r Catalog) Product(_ context.Context, id string) (*catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	return cloneProduct(p), nil
}

func (r Catalog) ListProducts(_ context.Context, storeID string) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []catalog.Product{}
	for _, p := range r.products {
		if storeID == "" || p.StoreID == storeID {
			out = append(out, *cloneProduct(p))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func cloneProduct(p *catalog.Product) *catalog.Product {
	c := *p
	c.Images = append([]catalog.Image(nil), p.Images...)
	c.Options = make([]catalog.Option, len(p.Options))
	for i, o := range p.Options {
		o.Values = append([]catalog.OptionValue(nil), o.Values...)
		c.Options[i] = o
	}
	c.Variants = make([]catalog.Variant, len(p.Variants))
	for i, v := range p.Variants {
		v.OptionValueIDs = append([]string(nil), v.OptionValueIDs...)
		c.Variants[i] = v
	}
	return &c
}

// auth.AdminRepository

type Admins struct{ *DB }

func (r Admins) FindByLogin(_ context.Context, login string) (*auth.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if (a.Phone != nil && *a.Phone == login) || (a.Email != nil && *a.Email == login) {
			c := *a
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: admin", apperr.ErrNotFound)
}
