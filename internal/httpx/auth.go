package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/ariefcatur/go-storefront/internal/auth"
	"github.com/ariefcatur/go-storefront/internal/logging"
)

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.fail(w, r, fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized))
			return
		}
		p, err := s.Tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			s.fail(w, r, err)
			return
		}
		ctx := auth.WithPrincipal(r.Context(), p)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("admin_id", p.AdminID, "store_id", p.StoreID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requireRole(min auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				respond(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if err := p.RequireRole(min); err != nil {
				respond(w, http.StatusForbidden, err.Error(), nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := bind(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	sess, err := s.Auth.Login(r.Context(), req.Identifier, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, "Login successful", sess)
}
