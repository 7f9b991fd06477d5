package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_GuardsStockAndStatus(t *testing.T) {
	s := Schema()

	assert.Contains(t, s, "CHECK (stock >= 0)")
	assert.Contains(t, s, "public_order_id TEXT NOT NULL UNIQUE")
	assert.Contains(t, s, "order_id   UUID NOT NULL UNIQUE")
	for _, st := range []string{"pending_payment", "waiting_confirmation", "paid", "shipped", "done", "cancelled", "expired_unpaid"} {
		assert.Contains(t, s, "'"+st+"'")
	}
	assert.Equal(t, strings.Count(s, "CREATE TABLE"), strings.Count(s, "CREATE TABLE IF NOT EXISTS"))
}
