package httpx

import (
	"fmt"
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/go-chi/chi/v5"
)

func (s *Server) adminListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Catalog.ListProducts(r.Context(), principal(r).StoreID)
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

func (s *Server) adminGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := s.Catalog.Product(r.Context(), id)
	if err == nil && p.StoreID != principal(r).StoreID {
		err = fmt.Errorf("%w: product %s", apperr.ErrNotFound, id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Product fetched successfully", p.Public())
}

// productEdited answers every product mutation with the product it left behind.
func (s *Server) productEdited(w http.ResponseWriter, r *http.Request, code int, msg string, p *catalog.Product, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("product_edited", "product_id", p.ID, "action", msg)
	respond(w, code, msg, p.Public())
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := bind(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Products.CreateProduct(r.Context(), principal(r).StoreID, in)
	s.productEdited(w, r, http.StatusCreated, "Product created successfully", p, err)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch catalog.ProductPatch
	if err := bind(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Products.UpdateProduct(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), patch)
	s.productEdited(w, r, http.StatusOK, "Product updated successfully", p, err)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Products.DeleteProduct(r.Context(), principal(r).StoreID, id); err != nil {
		s.fail(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("product_deleted", "product_id", id)
	respond(w, http.StatusOK, "Product deleted successfully", nil)
}

func (s *Server) addProductImage(w http.ResponseWriter, r *http.Request) {
	var in catalog.ImageInput
	if err := bind(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Products.AddImage(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), in)
	s.productEdited(w, r, http.StatusCreated, "Image added successfully", p, err)
}

func (s *Server) removeProductImage(w http.ResponseWriter, r *http.Request) {
	p, err := s.Products.RemoveImage(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), chi.URLParam(r, "imageId"))
	s.productEdited(w, r, http.StatusOK, "Image deleted successfully", p, err)
}

func (s *Server) addProductOption(w http.ResponseWriter, r *http.Request) {
	var in catalog.OptionInput
	if err := bind(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Products.AddOption(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), in)
	s.productEdited(w, r, http.StatusCreated, "Option added successfully", p, err)
}

func (s *Server) removeProductOption(w http.ResponseWriter, r *http.Request) {
	p, err := s.Products.RemoveOption(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), chi.URLParam(r, "optionId"))
	s.productEdited(w, r, http.StatusOK, "Option deleted successfully", p, err)
}

func (s *Server) addProductVariant(w http.ResponseWriter, r *http.Request) {
	var in catalog.VariantInput
	if err := bind(r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.Products.AddVariant(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), in)
	s.productEdited(w, r, http.StatusCreated, "Variant added successfully", p, err)
}

func (s *Server) updateProductVariant(w http.ResponseWriter, r *http.Request) {
	var patch catalog.VariantPatch
	if err := bind(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	if patch.ClearPriceOverride && patch.PriceOverride != nil {
		s.fail(w, r, fmt.Errorf("%w: price_override and clear_price_override are exclusive", apperr.ErrValidation))
		return
	}
	p, err := s.Products.UpdateVariant(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), chi.URLParam(r, "variantId"), patch)
	s.productEdited(w, r, http.StatusOK, "Variant updated successfully", p, err)
}

func (s *Server) removeProductVariant(w http.ResponseWriter, r *http.Request) {
	p, err := s.Products.RemoveVariant(r.Context(), principal(r).StoreID, chi.URLParam(r, "id"), chi.URLParam(r, "variantId"))
	s.productEdited(w, r, http.StatusOK, "Variant deleted successfully", p, err)
}
