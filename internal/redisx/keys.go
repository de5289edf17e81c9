package redisx

import "time"

const (
	// Collection store: {prefix}{collection} -> JSON array (products, packages, outboundOrders)
	KeyCollection = "%s%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Set product id yang stoknya minus
	KeyOversold = "inventory:oversold"
)

var TTLDedup = 48 * time.Hour
