package auth

import (
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

var rank = map[Role]int{
	RoleOwner:   3,
	RoleManager: 2,
	RoleStaff:   1,
}

func (r Role) Valid() bool {
	_, ok := rank[r]
	return ok
}

// AtLeast reports whether r ranks at or above min. Unknown roles never pass.
func (r Role) AtLeast(min Role) bool {
	have, ok := rank[r]
	return ok && have >= rank[min]
}

// Principal is the authenticated admin a request acts as.
type Principal struct {
	AdminID string
	StoreID string
	Role    Role
}

// RequireRole returns ErrForbidden unless p ranks at least min.
func (p Principal) RequireRole(min Role) error {
	if !p.Role.AtLeast(min) {
		return fmt.Errorf("%w: requires role %s", apperr.ErrForbidden, min)
	}
	return nil
}
