package ledger

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	kafkax "github.com/ariefcatur/go-outbound-inventory/internal/kafka"
	"github.com/ariefcatur/go-outbound-inventory/internal/outbound"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTracker struct {
	seen     map[string]bool
	oversold map[string]bool
	err      error
	markErrs []error // dikonsumsi satu per panggilan MarkOversold
}

func newMockTracker() *mockTracker {
	return &mockTracker{seen: map[string]bool{}, oversold: map[string]bool{}}
}

func (m *mockTracker) Seen(_ context.Context, id string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return m.seen[id], nil
}

func (m *mockTracker) MarkSeen(_ context.Context, id string) error {
	m.seen[id] = true
	return nil
}

func (m *mockTracker) MarkOversold(_ context.Context, id string) (bool, error) {
	if len(m.markErrs) > 0 {
		err := m.markErrs[0]
		m.markErrs = m.markErrs[1:]
		if err != nil {
			return false, err
		}
	}
	if m.oversold[id] {
		return false, nil
	}
	m.oversold[id] = true
	return true, nil
}

func (m *mockTracker) ClearOversold(_ context.Context, id string) error {
	delete(m.oversold, id)
	return nil
}

func message(eventID, eventType string, adj ...inventory.StockAdjustment) kafkago.Message {
	return messageFor(eventID, eventType, "CREATE", adj...)
}

func messageFor(eventID, eventType, reason string, adj ...inventory.StockAdjustment) kafkago.Message {
	ev := outbound.Envelope{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    kafkax.MustMarshal(outbound.StockAdjustedPayload{OrderID: "o-1", Reason: reason, Adjustments: adj}),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(ev)}
}

func TestHandleStockAdjusted(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	tr := newMockTracker()
	svc := &Service{Tracker: tr, Log: zerolog.New(&buf)}

	m := message("e-1", outbound.EventStockAdjusted,
		inventory.StockAdjustment{ProductID: "a", Delta: -6, Stock: -1},
		inventory.StockAdjustment{ProductID: "b", Delta: -1, Stock: 10},
	)
	require.NoError(t, svc.HandleStockAdjusted(ctx, m))
	assert.Equal(t, map[string]bool{"a": true}, tr.oversold)
	assert.Contains(t, buf.String(), "product oversold")

	t.Run("duplicate event is ignored", func(t *testing.T) {
		buf.Reset()
		delete(tr.oversold, "a")
		require.NoError(t, svc.HandleStockAdjusted(ctx, m))
		assert.Empty(t, tr.oversold)
		assert.Empty(t, buf.String())
	})

	t.Run("restock clears the flag", func(t *testing.T) {
		tr.oversold["a"] = true
		require.NoError(t, svc.HandleStockAdjusted(ctx, message("e-2", outbound.EventStockAdjusted,
			inventory.StockAdjustment{ProductID: "a", Delta: 4, Stock: 3})))
		assert.Empty(t, tr.oversold)
	})
}

func TestHandleIgnoresOtherEvents(t *testing.T) {
	tr := newMockTracker()
	svc := &Service{Tracker: tr, Log: zerolog.Nop()}
	require.NoError(t, svc.HandleStockAdjusted(context.Background(), message("e-1", outbound.EventOutboundCreated)))
	assert.Empty(t, tr.seen)
}

func TestHandleErrors(t *testing.T) {
	svc := &Service{Tracker: &mockTracker{err: errors.New("redis down")}, Log: zerolog.Nop()}
	assert.Error(t, svc.HandleStockAdjusted(context.Background(), kafkago.Message{Value: []byte("{")}))
	assert.EqualError(t, svc.HandleStockAdjusted(context.Background(), message("e-1", outbound.EventStockAdjusted)), "redis down")
}

func TestFailedEventIsRetried(t *testing.T) {
	ctx := context.Background()
	tr := newMockTracker()
	tr.markErrs = []error{errors.New("redis down")}
	svc := &Service{Tracker: tr, Log: zerolog.Nop()}

	m := message("e-1", outbound.EventStockAdjusted, inventory.StockAdjustment{ProductID: "a", Delta: -6, Stock: -1})

	assert.EqualError(t, svc.HandleStockAdjusted(ctx, m), "redis down")
	assert.False(t, tr.seen["e-1"])
	assert.Empty(t, tr.oversold)

	require.NoError(t, svc.HandleStockAdjusted(ctx, m))
	assert.True(t, tr.seen["e-1"])
	assert.Equal(t, map[string]bool{"a": true}, tr.oversold)
}

func TestCreateThenEditSameProduct(t *testing.T) {
	ctx := context.Background()
	tr := newMockTracker()
	svc := &Service{Tracker: tr, Log: zerolog.Nop()}

	created := messageFor("e-1", outbound.EventStockAdjusted, "CREATE", inventory.StockAdjustment{ProductID: "a", Delta: -6, Stock: -1})
	edited := messageFor("e-2", outbound.EventStockAdjusted, "UPDATE", inventory.StockAdjustment{ProductID: "a", Delta: 4, Stock: 3})

	require.NoError(t, svc.HandleStockAdjusted(ctx, created))
	assert.True(t, tr.oversold["a"])
	require.NoError(t, svc.HandleStockAdjusted(ctx, edited))
	assert.Empty(t, tr.oversold)
}
