package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-storefront/internal/logging"
	"github.com/ariefcatur/go-storefront/internal/stores"
)

func (s *Server) getStore(w http.ResponseWriter, r *http.Request) {
	st, err := s.Stores.Get(r.Context(), principal(r).StoreID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Store fetched successfully", st)
}

func (s *Server) updateStore(w http.ResponseWriter, r *http.Request) {
	var patch stores.Patch
	if err := bind(r, &patch); err != nil {
		s.fail(w, r, err)
		return
	}
	st, err := s.Stores.Update(r.Context(), principal(r).StoreID, patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	logging.FromContext(r.Context()).Info("store_updated", "store_id", st.ID)
	respond(w, http.StatusOK, "Store updated successfully", st)
}
