package orders

import (
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

type Status string

const (
	StatusPendingPayment      Status = "pending_payment"
	StatusWaitingConfirmation Status = "waiting_confirmation"
	StatusPaid                Status = "paid"
	StatusShipped             Status = "shipped"
	StatusDone                Status = "done"
	StatusCancelled           Status = "cancelled"
	StatusExpiredUnpaid       Status = "expired_unpaid"
)

var allStatuses = []Status{
	StatusPendingPayment, StatusWaitingConfirmation, StatusPaid, StatusShipped,
	StatusDone, StatusCancelled, StatusExpiredUnpaid,
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown order status %q", apperr.ErrValidation, s)
	}
	return st, nil
}

type TransitionKind string

const (
	TransitionSubmitProof    TransitionKind = "submit_proof"
	TransitionConfirmPayment TransitionKind = "confirm_payment"
	TransitionExpire         TransitionKind = "expire"
	// TransitionAdminOverride moves any status to any status. It is the only unguarded edge.
	TransitionAdminOverride TransitionKind = "admin_override"
)

type edge struct{ from, to Status }

var guarded = map[TransitionKind]edge{
	TransitionSubmitProof:    {StatusPendingPayment, StatusWaitingConfirmation},
	TransitionConfirmPayment: {StatusWaitingConfirmation, StatusPaid},
	TransitionExpire:         {StatusPendingPayment, StatusExpiredUnpaid},
}

// Transition is one edge request against the order state machine.
// Target is read only by TransitionAdminOverride.
type Transition struct {
	Kind   TransitionKind
	Target Status
}

var (
	SubmitProof    = Transition{Kind: TransitionSubmitProof}
	ConfirmPayment = Transition{Kind: TransitionConfirmPayment}
	Expire         = Transition{Kind: TransitionExpire}
)

func AdminOverride(to Status) Transition {
	return Transition{Kind: TransitionAdminOverride, Target: to}
}

func (t Transition) Guarded() bool { return t.Kind != TransitionAdminOverride }

// Apply returns the status an order in `from` moves to, or ErrInvalidState naming `from`.
func (t Transition) Apply(from Status) (Status, error) {
	if t.Kind == TransitionAdminOverride {
		if !t.Target.Valid() {
			return "", fmt.Errorf("%w: unknown order status %q", apperr.ErrValidation, t.Target)
		}
		return t.Target, nil
	}
	e, ok := guarded[t.Kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown transition %q", apperr.ErrValidation, t.Kind)
	}
	if from != e.from {
		return "", fmt.Errorf("%w: cannot %s order with status: %s", apperr.ErrInvalidState, t.Kind, from)
	}
	return e.to, nil
}
