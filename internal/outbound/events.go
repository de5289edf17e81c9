package outbound

import (
	"encoding/json"
	"time"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
)

const (
	EventOutboundCreated = "OutboundCreated"
	EventOutboundUpdated = "OutboundUpdated"
	EventOutboundDeleted = "OutboundDeleted"
	EventStockAdjusted   = "StockAdjusted"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "inventory-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type OutboundPayload struct {
	OrderID    string                  `json:"order_id"`
	Packages   []inventory.PackageLine `json:"packages,omitempty"`
	TotalPrice float64                 `json:"total_price"`
	Note       string                  `json:"note,omitempty"`
	CreatedAt  string                  `json:"created_at,omitempty"`
}

type StockAdjustedPayload struct {
	OrderID     string                      `json:"order_id"`
	Reason      string                      `json:"reason"` // CREATE | UPDATE
	Adjustments []inventory.StockAdjustment `json:"adjustments"`
}
