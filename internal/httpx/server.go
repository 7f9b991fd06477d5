package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/ordercache"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/stores"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Check reports the health of one dependency for /healthz.
type Check func(ctx context.Context) error

type Server struct {
	Orders   *orders.Service
	Catalog  catalog.Repository
	Products catalog.Editor
	Stores   stores.Repository
	Auth     *auth.Service
	Tokens   *auth.Tokens
	Cache    *ordercache.Cache // optional
	Checks   map[string]Check
	Log      *slog.Logger
	Dev      bool
}

func (s *Server) logger() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func NewRouter(s *Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(s.logger()), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", s.healthz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", s.checkout)
		r.Post("/payment-proof", s.submitProof)
		r.Get("/order/{publicOrderId}", s.publicOrder)
		r.Get("/products", s.listProducts)
		r.Get("/products/{id}", s.getProduct)
		r.Post("/auth/login", s.login)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.authenticate, requireRole(auth.RoleStaff))
			r.Get("/orders", s.adminListOrders)
			r.Get("/orders/{id}", s.adminGetOrder)
			r.Patch("/orders/{id}/confirm", s.adminConfirm)
			r.Patch("/orders/{id}/status", s.adminUpdateStatus)
			r.Get("/store", s.getStore)
			r.With(requireRole(auth.RoleManager)).Patch("/store", s.updateStore)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", s.adminListProducts)
				r.Get("/{id}", s.adminGetProduct)

				r.Group(func(r chi.Router) {
					r.Use(requireRole(auth.RoleManager))
					r.Post("/", s.createProduct)
					r.Patch("/{id}", s.updateProduct)
					r.Delete("/{id}", s.deleteProduct)
					r.Post("/{id}/images", s.addProductImage)
					r.Delete("/{id}/images/{imageId}", s.removeProductImage)
					r.Post("/{id}/options", s.addProductOption)
					r.Delete("/{id}/options/{optionId}", s.removeProductOption)
					r.Post("/{id}/variants", s.addProductVariant)
					r.Patch("/{id}/variants/{variantId}", s.updateProductVariant)
					r.Delete("/{id}/variants/{variantId}", s.removeProductVariant)
				})
			})
		})
	})
	return r
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	healthy := true
	for name, check := range s.Checks {
		if err := check(ctx); err != nil {
			healthy = false
			status[name] = "down"
			s.logger().Error("healthcheck_failed", "dependency", name, "error", err)
			continue
		}
		status[name] = "up"
	}
	if !healthy {
		respond(w, http.StatusServiceUnavailable, "unhealthy", status)
		return
	}
	respond(w, http.StatusOK, "ok", status)
}
