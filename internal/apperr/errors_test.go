package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: http.StatusOK},
		{name: "validation", err: fmt.Errorf("%w: items required", ErrValidation), want: http.StatusBadRequest},
		{name: "unauthorized", err: ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "forbidden", err: ErrForbidden, want: http.StatusForbidden},
		{name: "not found wrapped twice", err: fmt.Errorf("checkout: %w", fmt.Errorf("%w: product", ErrNotFound)), want: http.StatusNotFound},
		{name: "invalid state", err: fmt.Errorf("%w: current status paid", ErrInvalidState), want: http.StatusConflict},
		{name: "insufficient stock", err: ErrInsufficientStock, want: http.StatusConflict},
		{name: "unknown", err: errors.New("conn reset"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestIsClient(t *testing.T) {
	t.Parallel()

	assert.True(t, IsClient(ErrNotFound))
	assert.False(t, IsClient(errors.New("boom")))
	assert.False(t, IsClient(nil))
}
