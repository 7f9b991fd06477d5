package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/stores"
	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

// ErrDuplicateCode is returned by Repository.CreateOrder when the public code is taken.
var ErrDuplicateCode = errors.New("public order id already used")

// Repository persists orders. CreateOrder and Mutate must be atomic: stock
// decrements and the order insert commit together, and Mutate holds the order
// row for the whole read-check-write.
type Repository interface {
	CreateOrder(ctx context.Context, d Draft) (*Order, error)
	Find(ctx context.Context, k Key) (*Order, error)
	List(ctx context.Context, storeID string, status *Status) ([]Order, error)
	Mutate(ctx context.Context, k Key, fn MutateFunc) (*Order, error)
	ListExpired(ctx context.Context, now time.Time, limit int) ([]Order, error)
}

type CustomerRepository interface {
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	// Create returns the existing customer when the phone is already registered.
	Create(ctx context.Context, c Customer) (*Customer, error)
	// SetEmail fills the email only when it is still empty.
	SetEmail(ctx context.Context, id, email string) (*Customer, error)
}

type StoreFinder interface {
	Get(ctx context.Context, id string) (*stores.Store, error)
}

type LineResolver interface {
	Resolve(ctx context.Context, storeID string, req catalog.LineRequest) (*catalog.Line, error)
}

// Service is the order lifecycle engine. Authorization is applied before it is
// called; storeID arguments are trusted.
type Service struct {
	Orders    Repository
	Customers CustomerRepository
	Stores    StoreFinder
	Lines     LineResolver
	Events    EventSink
	Codes     *CodeGenerator
	TTL       time.Duration
	Now       func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTTL
}

func (s *Service) events() EventSink {
	if s.Events == nil {
		return nopSink{}
	}
	return s.Events
}

func (s *Service) codes() *CodeGenerator {
	if s.Codes == nil {
		return defaultCodes
	}
	return s.Codes
}

type CheckoutItem struct {
	ProductID string
	VariantID *string
	Quantity  int
}

type CheckoutInput struct {
	StoreID       string
	CustomerPhone string
	CustomerEmail *string
	Items         []CheckoutItem
}

const codeAttempts = 3

// CreateOrder prices every line, then decrements stock and inserts the order in
// one unit. Any failing line aborts the whole checkout.
func (s *Service) CreateOrder(ctx context.Context, in CheckoutInput) (View, error) {
	l := logging.FromContext(ctx).With("svc", "orders.create", "store_id", in.StoreID)

	if in.StoreID == "" || strings.TrimSpace(in.CustomerPhone) == "" || len(in.Items) == 0 {
		return View{}, fmt.Errorf("%w: store_id, customer_phone and items are required", apperr.ErrValidation)
	}

	store, err := s.Stores.Get(ctx, in.StoreID)
	if err != nil {
		return View{}, err
	}

	customer, err := s.customerFor(ctx, strings.TrimSpace(in.CustomerPhone), in.CustomerEmail)
	if err != nil {
		return View{}, err
	}

	lines := make([]catalog.Line, 0, len(in.Items))
	var total int64
	for _, it := range in.Items {
		line, err := s.Lines.Resolve(ctx, store.ID, catalog.LineRequest{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
		if err != nil {
			l.Warn("checkout_rejected", "product_id", it.ProductID, "error", err)
			return View{}, err
		}
		sub, err := line.Subtotal()
		if err == nil {
			total, err = catalog.AddTotal(total, sub)
		}
		if err != nil {
			l.Warn("checkout_rejected", "product_id", it.ProductID, "error", err)
			return View{}, err
		}
		lines = append(lines, *line)
	}

	now := s.now()
	draft := Draft{
		ID:          uuid.NewString(),
		StoreID:     store.ID,
		CustomerID:  customer.ID,
		TotalAmount: total,
		ExpiresAt:   now.Add(s.ttl()),
		CreatedAt:   now,
		Lines:       lines,
	}

	var o *Order
	for attempt := 0; attempt < codeAttempts; attempt++ {
		draft.PublicOrderID = s.codes().Next()
		o, err = s.Orders.CreateOrder(ctx, draft)
		if !errors.Is(err, ErrDuplicateCode) {
			break
		}
	}
	if err != nil {
		l.Warn("checkout_failed", "error", err)
		return View{}, err
	}
	o.Customer = customer

	l.Info("checkout_created", "order_id", o.ID, "public_order_id", o.PublicOrderID, "total_amount", o.TotalAmount)
	s.events().OrderCreated(ctx, o)
	return GuestView(o, store.PaymentInfo()), nil
}

// customerFor finds the customer by phone across all stores, creating it on
// first checkout. An email is only ever filled in, never replaced.
func (s *Service) customerFor(ctx context.Context, phone string, email *string) (*Customer, error) {
	if email != nil && strings.TrimSpace(*email) == "" {
		email = nil
	}
	c, err := s.Customers.FindByPhone(ctx, phone)
	if errors.Is(err, apperr.ErrNotFound) {
		return s.Customers.Create(ctx, Customer{
			ID:        uuid.NewString(),
			Phone:     phone,
			Email:     email,
			CreatedAt: s.now(),
		})
	}
	if err != nil {
		return nil, err
	}
	if email != nil && c.Email == nil {
		return s.Customers.SetEmail(ctx, c.ID, *email)
	}
	return c, nil
}

// SubmitPaymentProof attaches (or replaces) the proof image and moves the order
// to waiting_confirmation. Only allowed from pending_payment.
func (s *Service) SubmitPaymentProof(ctx context.Context, publicOrderID, imageURL string) (ProofReceipt, error) {
	if strings.TrimSpace(imageURL) == "" {
		return ProofReceipt{}, fmt.Errorf("%w: image_url is required", apperr.ErrValidation)
	}
	o, from, err := s.transition(ctx, ByPublicCode(publicOrderID), SubmitProof, &imageURL)
	if err != nil {
		return ProofReceipt{}, err
	}
	logging.FromContext(ctx).Info("payment_proof_submitted", "order_id", o.ID, "public_order_id", o.PublicOrderID, "from", from)
	return ProofReceipt{PublicOrderID: o.PublicOrderID, Status: o.Status, PaymentProof: proofView(o.Proof)}, nil
}

// ConfirmPayment is the guarded admin edge waiting_confirmation -> paid.
func (s *Service) ConfirmPayment(ctx context.Context, storeID, orderID string) (View, error) {
	o, _, err := s.transition(ctx, ByID(storeID, orderID), ConfirmPayment, nil)
	if err != nil {
		return View{}, err
	}
	logging.FromContext(ctx).Info("payment_confirmed", "order_id", o.ID, "store_id", storeID)
	return AdminView(o), nil
}

// UpdateStatus is the unguarded admin escape hatch for manual corrections.
func (s *Service) UpdateStatus(ctx context.Context, storeID, orderID string, to Status) (View, error) {
	o, from, err := s.transition(ctx, ByID(storeID, orderID), AdminOverride(to), nil)
	if err != nil {
		return View{}, err
	}
	logging.FromContext(ctx).Info("order_status_overridden", "order_id", o.ID, "store_id", storeID, "from", from, "to", o.Status)
	return AdminView(o), nil
}

// ExpireOrder moves an overdue pending_payment order to expired_unpaid. It is
// driven by the external sweeper, never by the engine itself.
func (s *Service) ExpireOrder(ctx context.Context, storeID, orderID string) error {
	now := s.now()
	var from Status
	o, err := s.Orders.Mutate(ctx, ByID(storeID, orderID), func(o *Order) (Mutation, error) {
		from = o.Status
		if o.ExpiresAt.After(now) {
			return Mutation{}, fmt.Errorf("%w: order %s expires at %s", apperr.ErrInvalidState, o.ID, o.ExpiresAt.Format(time.RFC3339))
		}
		to, err := Expire.Apply(o.Status)
		return Mutation{Status: to}, err
	})
	if err != nil {
		return err
	}
	s.events().StatusChanged(ctx, o, from, Expire)
	return nil
}

func (s *Service) transition(ctx context.Context, k Key, t Transition, proofURL *string) (*Order, Status, error) {
	var from Status
	o, err := s.Orders.Mutate(ctx, k, func(o *Order) (Mutation, error) {
		from = o.Status
		to, err := t.Apply(o.Status)
		if err != nil {
			return Mutation{}, err
		}
		return Mutation{Status: to, ProofURL: proofURL}, nil
	})
	if err != nil {
		return nil, "", err
	}
	s.events().StatusChanged(ctx, o, from, t)
	return o, from, nil
}

// GetByPublicCode is the guest read: no store scoping, store payment info attached.
func (s *Service) GetByPublicCode(ctx context.Context, publicOrderID string) (View, error) {
	o, err := s.Orders.Find(ctx, ByPublicCode(publicOrderID))
	if err != nil {
		return View{}, err
	}
	store, err := s.Stores.Get(ctx, o.StoreID)
	if err != nil {
		return View{}, err
	}
	return GuestView(o, store.PaymentInfo()), nil
}

func (s *Service) GetOrder(ctx context.Context, storeID, orderID string) (View, error) {
	o, err := s.Orders.Find(ctx, ByID(storeID, orderID))
	if err != nil {
		return View{}, err
	}
	return AdminView(o), nil
}

// ListOrders returns the store's orders newest first, optionally filtered by status.
func (s *Service) ListOrders(ctx context.Context, storeID string, status *Status) ([]View, error) {
	list, err := s.Orders.List(ctx, storeID, status)
	if err != nil {
		return nil, err
	}
	out := make([]View, 0, len(list))
	for i := range list {
		out = append(out, AdminView(&list[i]))
	}
	return out, nil
}
