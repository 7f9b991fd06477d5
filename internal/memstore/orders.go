package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/google/uuid"
)

// orders.CustomerRepository

type Customers struct{ *DB }

func (r Customers) FindByPhone(_ context.Context, phone string) (*orders.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.phones[phone]
	if !ok {
		return nil, fmt.Errorf("%w: customer", apperr.ErrNotFound)
	}
	c := *r.customers[id]
	return &c, nil
}

func (r Customers) Create(_ context.Context, c orders.Customer) (*orders.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.phones[c.Phone]; ok {
		existing := *r.customers[id]
		return &existing, nil
	}
	r.customers[c.ID] = &c
	r.phones[c.Phone] = c.ID
	out := c
	return &out, nil
}

func (r Customers) SetEmail(_ context.Context, id, email string) (*orders.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer", apperr.ErrNotFound)
	}
	if c.Email == nil {
		e := email
		c.Email = &e
	}
	out := *c
	return &out, nil
}

// orders.Repository

type Orders struct{ *DB }

func (r Orders) CreateOrder(_ context.Context, d orders.Draft) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.codes[d.PublicOrderID]; taken {
		return nil, orders.ErrDuplicateCode
	}

	want := map[string]int{}
	owner := map[string]string{}
	for _, l := range d.Lines {
		if l.VariantID == nil {
			continue
		}
		want[*l.VariantID] += l.Quantity
		owner[*l.VariantID] = l.ProductID
	}
	// check everything before touching anything
	for vid, qty := range want {
		p, ok := r.products[owner[vid]]
		if !ok {
			return nil, fmt.Errorf("%w: variant %s", apperr.ErrInsufficientStock, vid)
		}
		v := p.Variant(vid)
		if v == nil || v.Stock < qty {
			return nil, fmt.Errorf("%w: variant %s", apperr.ErrInsufficientStock, vid)
		}
	}
	for vid, qty := range want {
		r.products[owner[vid]].Variant(vid).Stock -= qty
	}

	o := &orders.Order{
		ID:            d.ID,
		StoreID:       d.StoreID,
		CustomerID:    d.CustomerID,
		PublicOrderID: d.PublicOrderID,
		Status:        orders.StatusPendingPayment,
		TotalAmount:   d.TotalAmount,
		ExpiresAt:     d.ExpiresAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.CreatedAt,
		Items:         make([]orders.OrderItem, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		o.Items = append(o.Items, orders.OrderItem{
			ID:                 uuid.NewString(),
			ProductName:        l.ProductName,
			VariantDescription: l.VariantDescription,
			Price:              l.UnitPrice,
			Quantity:           l.Quantity,
		})
	}
	r.orders[o.ID] = o
	r.codes[o.PublicOrderID] = o.ID
	r.seq = append(r.seq, o.ID)
	return r.clone(o), nil
}

func (r Orders) lookup(k orders.Key) (*orders.Order, error) {
	var o *orders.Order
	if k.Public() {
		if id, ok := r.codes[k.PublicOrderID]; ok {
			o = r.orders[id]
		}
	} else if cand, ok := r.orders[k.ID]; ok && cand.StoreID == k.StoreID {
		o = cand
	}
	if o == nil {
		return nil, fmt.Errorf("%w: order", apperr.ErrNotFound)
	}
	return o, nil
}

func (r Orders) Find(_ context.Context, k orders.Key) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.lookup(k)
	if err != nil {
		return nil, err
	}
	return r.clone(o), nil
}

func (r Orders) List(_ context.Context, storeID string, status *orders.Status) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []orders.Order{}
	for i := len(r.seq) - 1; i >= 0; i-- {
		o := r.orders[r.seq[i]]
		if o.StoreID != storeID || (status != nil && o.Status != *status) {
			continue
		}
		out = append(out, *r.clone(o))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r Orders) ListExpired(_ context.Context, now time.Time, limit int) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []orders.Order{}
	for _, id := range r.seq {
		o := r.orders[id]
		if o.Status == orders.StatusPendingPayment && o.ExpiresAt.Before(now) {
			out = append(out, *r.clone(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Mutate holds the store lock for the whole read-check-write, like a row lock.
func (r Orders) Mutate(_ context.Context, k orders.Key, fn orders.MutateFunc) (*orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, err := r.lookup(k)
	if err != nil {
		return nil, err
	}
	m, err := fn(r.clone(o))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	o.Status = m.Status
	o.UpdatedAt = now
	if m.ProofURL != nil {
		if o.Proof == nil {
			o.Proof = &orders.PaymentProof{ID: uuid.NewString(), CreatedAt: now}
		}
		o.Proof.ImageURL = *m.ProofURL
		o.Proof.UpdatedAt = now
	}
	return r.clone(o), nil
}

func (r Orders) clone(o *orders.Order) *orders.Order {
	c := *o
	c.Items = append([]orders.OrderItem(nil), o.Items...)
	if o.Proof != nil {
		p := *o.Proof
		c.Proof = &p
	}
	if cust, ok := r.customers[o.CustomerID]; ok {
		cc := *cust
		c.Customer = &cc
	}
	return &c
}
