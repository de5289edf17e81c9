package ledger

import (
	"context"
	"encoding/json"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	kafkax "github.com/ariefcatur/go-outbound-inventory/internal/kafka"
	"github.com/ariefcatur/go-outbound-inventory/internal/outbound"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
)

// Tracker is implemented by redisx.Tracker.
type Tracker interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	MarkSeen(ctx context.Context, eventID string) error
	MarkOversold(ctx context.Context, productID string) (bool, error)
	ClearOversold(ctx context.Context, productID string) error
}

// Service consumes StockAdjusted events and keeps the oversold set current.
type Service struct {
	Tracker Tracker
	Log     zerolog.Logger
}

// HandleStockAdjusted: dipasang sebagai handler consumer.
func (s *Service) HandleStockAdjusted(ctx context.Context, m kafkago.Message) error {
	var env outbound.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != outbound.EventStockAdjusted {
		return nil
	}

	seen, err := s.Tracker.Seen(ctx, env.EventID)
	if err != nil {
		return err
	}
	if seen {
		return nil
	}

	p, err := kafkax.UnwrapPayload[outbound.StockAdjustedPayload](env.Payload)
	if err != nil {
		return err
	}
	for _, a := range p.Adjustments {
		if err := s.apply(ctx, p.OrderID, a); err != nil {
			return err
		}
	}
	// event baru ditandai setelah semua adjustment sukses, supaya redelivery tetap diproses
	return s.Tracker.MarkSeen(ctx, env.EventID)
}

func (s *Service) apply(ctx context.Context, orderID string, a inventory.StockAdjustment) error {
	if !a.Oversold() {
		return s.Tracker.ClearOversold(ctx, a.ProductID)
	}
	added, err := s.Tracker.MarkOversold(ctx, a.ProductID)
	if err != nil {
		return err
	}
	if added {
		s.Log.Warn().
			Str("product_id", a.ProductID).
			Str("order_id", orderID).
			Int("stock", a.Stock).
			Msg("product oversold")
	}
	return nil
}
