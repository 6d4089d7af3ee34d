package redisx

import "time"

const (
	// KeyAdminDashboard caches the serialized admin dashboard payload.
	KeyAdminDashboard = "orders:admin:dashboard"

	// TTLDashboard bounds staleness for writes that bypass the API; the
	// handlers drop the key eagerly on their own writes.
	TTLDashboard = 15 * time.Second
)
