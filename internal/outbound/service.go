package outbound

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	kafkax "github.com/ariefcatur/go-outbound-inventory/internal/kafka"
	"github.com/ariefcatur/go-outbound-inventory/internal/logger"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type OrderInput struct {
	Packages []inventory.PackageLine `json:"packages"`
	Note     string                  `json:"note"`
}

// Service owns the outbound order lifecycle: price snapshot, stock
// reconciliation, persistence and event publishing. Publishers are optional.
type Service struct {
	Repo        inventory.Repository
	Orders      Publisher // publish outbound.orders
	Stock       Publisher // publish inventory.stock.adjusted
	ServiceName string
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) List(ctx context.Context) ([]inventory.OutboundOrder, error) {
	return s.Repo.OutboundOrders(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (inventory.OutboundOrder, error) {
	orders, err := s.Repo.OutboundOrders(ctx)
	if err != nil {
		return inventory.OutboundOrder{}, err
	}
	o, ok := inventory.FindOutboundOrder(orders, id)
	if !ok {
		return inventory.OutboundOrder{}, fmt.Errorf("outbound order %s: %w", id, inventory.ErrNotFound)
	}
	return o, nil
}

// Preview is the live total shown while an order form is being filled in.
func (s *Service) Preview(ctx context.Context, lines []inventory.PackageLine) (float64, error) {
	packages, products, err := s.catalog(ctx)
	if err != nil {
		return 0, err
	}
	return inventory.OrderTotal(lines, packages, products), nil
}

func (s *Service) Detail(ctx context.Context, id string) (inventory.OrderDetail, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return inventory.OrderDetail{}, err
	}
	packages, products, err := s.catalog(ctx)
	if err != nil {
		return inventory.OrderDetail{}, err
	}
	return inventory.BuildOrderDetail(o, packages, products), nil
}

func (s *Service) Create(ctx context.Context, in OrderInput) (inventory.OutboundOrder, error) {
	if err := inventory.ValidatePackageLines(in.Packages); err != nil {
		return inventory.OutboundOrder{}, err
	}
	total, err := s.Preview(ctx, in.Packages)
	if err != nil {
		return inventory.OutboundOrder{}, err
	}

	adj, err := inventory.ReconcileStock(ctx, s.Repo, in.Packages, nil)
	if err != nil {
		return inventory.OutboundOrder{}, fmt.Errorf("reconcile stock: %w", err)
	}

	o, err := s.Repo.AddOutboundOrder(ctx, inventory.OutboundOrder{
		Packages:   in.Packages,
		TotalPrice: total,
		Note:       in.Note,
	})
	if err != nil {
		return inventory.OutboundOrder{}, err
	}

	logger.Info(ctx).Str("order_id", o.ID).Float64("total_price", total).Int("adjusted", len(adj)).Msg("outbound order created")
	s.publishOrder(ctx, EventOutboundCreated, o)
	s.publishStock(ctx, o.ID, "CREATE", adj)
	return o, nil
}

// Update replaces the order's lines and note. The old lines' stock is put
// back before the new lines are consumed; id and createdAt are kept.
func (s *Service) Update(ctx context.Context, id string, in OrderInput) (inventory.OutboundOrder, error) {
	if err := inventory.ValidatePackageLines(in.Packages); err != nil {
		return inventory.OutboundOrder{}, err
	}
	prev, err := s.Get(ctx, id)
	if err != nil {
		return inventory.OutboundOrder{}, err
	}
	total, err := s.Preview(ctx, in.Packages)
	if err != nil {
		return inventory.OutboundOrder{}, err
	}

	adj, err := inventory.ReconcileStock(ctx, s.Repo, in.Packages, prev.Packages)
	if err != nil {
		return inventory.OutboundOrder{}, fmt.Errorf("reconcile stock: %w", err)
	}

	o := inventory.OutboundOrder{
		ID:         prev.ID,
		Packages:   in.Packages,
		TotalPrice: total,
		Note:       in.Note,
		CreatedAt:  prev.CreatedAt,
	}
	if err := s.Repo.UpdateOutboundOrder(ctx, o); err != nil {
		return inventory.OutboundOrder{}, err
	}

	logger.Info(ctx).Str("order_id", o.ID).Float64("total_price", total).Int("adjusted", len(adj)).Msg("outbound order updated")
	s.publishOrder(ctx, EventOutboundUpdated, o)
	s.publishStock(ctx, o.ID, "UPDATE", adj)
	return o, nil
}

// Delete removes the order record only; consumed stock is not given back.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.Repo.DeleteOutboundOrder(ctx, id); err != nil {
		return err
	}
	logger.Info(ctx).Str("order_id", id).Msg("outbound order deleted")
	s.publishOrder(ctx, EventOutboundDeleted, inventory.OutboundOrder{ID: id})
	return nil
}

func (s *Service) catalog(ctx context.Context) ([]inventory.Package, []inventory.Product, error) {
	packages, err := s.Repo.Packages(ctx)
	if err != nil {
		return nil, nil, err
	}
	products, err := s.Repo.Products(ctx)
	if err != nil {
		return nil, nil, err
	}
	return packages, products, nil
}

func (s *Service) envelope(ctx context.Context, eventType, orderID string, payload any) Envelope {
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
}

func (s *Service) publishOrder(ctx context.Context, eventType string, o inventory.OutboundOrder) {
	if s.Orders == nil {
		return
	}
	ev := s.envelope(ctx, eventType, o.ID, OutboundPayload{
		OrderID:    o.ID,
		Packages:   o.Packages,
		TotalPrice: o.TotalPrice,
		Note:       o.Note,
		CreatedAt:  o.CreatedAt,
	})
	s.Orders.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev), headers(eventType)...)
}

func (s *Service) publishStock(ctx context.Context, orderID, reason string, adj []inventory.StockAdjustment) {
	if s.Stock == nil || len(adj) == 0 {
		return
	}
	for _, a := range adj {
		ev := s.envelope(ctx, EventStockAdjusted, orderID, StockAdjustedPayload{
			OrderID:     orderID,
			Reason:      reason,
			Adjustments: []inventory.StockAdjustment{a},
		})
		s.Stock.Publish(StockKey(a.ProductID), kafkax.MustMarshal(ev), headers(EventStockAdjusted)...)
	}
}

func headers(eventType string) []kafkago.Header {
	return []kafkago.Header{
		{Key: "x-event-type", Value: []byte(eventType)},
		{Key: "x-event-version", Value: []byte("1")},
	}
}
