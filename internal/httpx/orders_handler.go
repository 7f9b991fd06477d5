package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/ordercache"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
)

const idempotencyHeader = "Idempotency-Key"

func (s *Server) checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := strings.TrimSpace(r.Header.Get(idempotencyHeader))
	if key != "" && s.Cache != nil {
		if code, ok := s.Cache.Replay(ctx, key); ok {
			if v, err := s.guestView(ctx, code); err == nil {
				respond(w, http.StatusOK, "Order already created", v)
				return
			}
		}
	}

	var req checkoutReq
	if err := bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.Orders.CreateOrder(ctx, req.input())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if s.Cache != nil {
		if key != "" {
			s.Cache.Remember(ctx, key, v.PublicOrderID)
		}
		s.Cache.PutView(ctx, v, ordercache.FreshGeneration)
	}
	respond(w, http.StatusCreated, "Order created successfully", v)
}

// guestView serves the guest projection from cache, falling back to postgres.
func (s *Server) guestView(ctx context.Context, code string) (orders.View, error) {
	gen := ordercache.FreshGeneration
	if s.Cache != nil {
		if v, ok := s.Cache.View(ctx, code); ok {
			return v, nil
		}
		gen = s.Cache.Generation(ctx, code)
	}
	v, err := s.Orders.GetByPublicCode(ctx, code)
	if err != nil {
		return orders.View{}, err
	}
	if s.Cache != nil {
		s.Cache.PutView(ctx, v, gen)
	}
	return v, nil
}

func (s *Server) evict(ctx context.Context, code string) {
	if s.Cache == nil {
		return
	}
	_ = s.Cache.Evict(ctx, code)
}

func (s *Server) submitProof(w http.ResponseWriter, r *http.Request) {
	var req proofReq
	if err := bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.Orders.SubmitPaymentProof(r.Context(), req.PublicOrderID, req.ImageURL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.evict(r.Context(), rec.PublicOrderID)
	respond(w, http.StatusOK, "Payment proof uploaded successfully", rec)
}

func (s *Server) publicOrder(w http.ResponseWriter, r *http.Request) {
	v, err := s.guestView(r.Context(), chi.URLParam(r, "publicOrderId"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Order fetched successfully", v)
}

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	var status *orders.Status
	if q := r.URL.Query().Get("status"); q != "" {
		st, err := orders.ParseStatus(q)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		status = &st
	}
	list, err := s.Orders.ListOrders(r.Context(), principal(r).StoreID, status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Orders fetched successfully", list)
}

func (s *Server) adminGetOrder(w http.ResponseWriter, r *http.Request) {
	v, err := s.Orders.GetOrder(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Order fetched successfully", v)
}

func (s *Server) adminConfirm(w http.ResponseWriter, r *http.Request) {
	v, err := s.Orders.ConfirmPayment(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.evict(r.Context(), v.PublicOrderID)
	respond(w, http.StatusOK, "Payment confirmed successfully", v)
}

func (s *Server) adminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := orders.ParseStatus(req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.Orders.UpdateStatus(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), to)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.evict(r.Context(), v.PublicOrderID)
	respond(w, http.StatusOK, "Order status updated successfully", v)
}
