package orders

import (
	"testing"

	"github.com/ariefcatur/go-storefront/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardedTransitions(t *testing.T) {
	cases := []struct {
		t    Transition
		from Status
		want Status
		err  error
	}{
		{SubmitProof, StatusPendingPayment, StatusWaitingConfirmation, nil},
		{SubmitProof, StatusWaitingConfirmation, "", apperr.ErrInvalidState},
		{SubmitProof, StatusExpiredUnpaid, "", apperr.ErrInvalidState},
		{SubmitProof, StatusPaid, "", apperr.ErrInvalidState},
		{ConfirmPayment, StatusWaitingConfirmation, StatusPaid, nil},
		{ConfirmPayment, StatusPendingPayment, "", apperr.ErrInvalidState},
		{ConfirmPayment, StatusPaid, "", apperr.ErrInvalidState},
		{Expire, StatusPendingPayment, StatusExpiredUnpaid, nil},
		{Expire, StatusWaitingConfirmation, "", apperr.ErrInvalidState},
	}
	for _, tc := range cases {
		t.Run(string(tc.t.Kind)+"/"+string(tc.from), func(t *testing.T) {
			got, err := tc.t.Apply(tc.from)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				assert.Contains(t, err.Error(), string(tc.from))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAdminOverride_IsUnguarded(t *testing.T) {
	assert.False(t, AdminOverride(StatusDone).Guarded())
	assert.True(t, SubmitProof.Guarded())

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			got, err := AdminOverride(to).Apply(from)
			require.NoError(t, err)
			assert.Equal(t, to, got)
		}
	}

	_, err := AdminOverride(Status("lost")).Apply(StatusPaid)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("shipped")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, s)

	_, err = ParseStatus("SHIPPED")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
