package redisx

import "time"

const (
	// Checkout idempotency: idem:checkout:{Idempotency-Key} -> public_order_id
	KeyIdemCheckout = "idem:checkout:%s"

	// Guest order view: order:view:{public_order_id} -> orders.View JSON
	KeyOrderView = "order:view:%s"

	// Eviction counter for a guest view: order:view:gen:{public_order_id} -> int
	KeyOrderViewGen = "order:view:gen:%s"

	// Dedup event processing: dedup:{consumer}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLIdempotency = 24 * time.Hour
	TTLOrderView   = 5 * time.Minute
	TTLViewGen     = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
