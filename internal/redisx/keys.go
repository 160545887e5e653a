package redisx

import "time"

const (
	// Cart per browser session: cart:{session_id} -> cart JSON
	KeyCart = "cart:%s"

	// Checkout idempotency: idem:checkout:{idempotency_key} -> order_id
	KeyIdemCheckout = "idem:checkout:%s"

	// Order status read cache: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{consumer}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Dashboard badge counter per status: dash:badge:{status}
	KeyDashBadge = "dash:badge:%s"

	// Recent activity feed for the dashboards (LPUSH + LTRIM)
	KeyDashRecent = "dash:orders:recent"
)

var (
	TTLCart        = 72 * time.Hour
	TTLIdempotency = 24 * time.Hour
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
