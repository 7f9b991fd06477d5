package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/go-chi/chi/v5"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Catalog.ListProducts(r.Context(), r.URL.Query().Get("store_id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]catalog.PublicProduct, 0, len(ps))
	for i := range ps {
		out = append(out, ps[i].Public())
	}
	respond(w, http.StatusOK, "Products fetched successfully", out)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.Catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Product fetched successfully", p.Public())
}
