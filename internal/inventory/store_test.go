package inventory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 10, 30, 0, 123_000_000, time.UTC)

func newTestStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemoryKV()
	n := 0
	s := NewStore(kv,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
	)
	require.NoError(t, s.Initialize(context.Background()))
	return s, kv
}

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingKV) Set(context.Context, string, string) error         { return f.err }

func TestInitialize(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyProducts, `[{"id":"keep","name":"A"}]`))

	s := NewStore(kv)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))

	raw, ok, _ := kv.Get(ctx, KeyProducts)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"keep","name":"A"}]`, raw)
	for _, k := range []string{KeyPackages, KeyOutboundOrders} {
		raw, ok, _ := kv.Get(ctx, k)
		assert.True(t, ok)
		assert.Equal(t, "[]", raw)
	}
}

func TestGetAllAbsentKey(t *testing.T) {
	s := NewStore(NewMemoryKV())
	ps, err := s.Products(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ps)
	assert.Empty(t, ps)
}

func TestGetAllMalformed(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyPackages, "{not json"))

	_, err := NewStore(kv).Packages(ctx)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestStorageErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	s := NewStore(failingKV{err: boom})
	_, err := s.AddProduct(context.Background(), Product{Name: "A"})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, s.Initialize(context.Background()), boom)
}

func TestProductCRUD(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	a, err := s.AddProduct(ctx, Product{Name: "A", Price: 10, Brand: "x", Stock: 5, Image: "a.png"})
	require.NoError(t, err)
	assert.Equal(t, "id-1", a.ID)
	b, err := s.AddProduct(ctx, Product{Name: "B", Price: 2})
	require.NoError(t, err)

	all, err := s.Products(ctx)
	require.NoError(t, err)
	require.Equal(t, []Product{a, b}, all)

	again, err := s.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, again)

	a.Stock = -3
	require.NoError(t, s.UpdateProduct(ctx, a))
	require.NoError(t, s.UpdateProduct(ctx, Product{ID: "ghost", Name: "G"}))
	all, _ = s.Products(ctx)
	assert.Equal(t, []Product{a, b}, all)

	require.NoError(t, s.DeleteProduct(ctx, "ghost"))
	require.NoError(t, s.DeleteProduct(ctx, a.ID))
	all, _ = s.Products(ctx)
	assert.Equal(t, []Product{b}, all)
}

func TestAddOutboundOrderStampsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	o, err := s.AddOutboundOrder(ctx, OutboundOrder{
		Packages:   []PackageLine{{PackageID: "p", Quantity: 2}},
		TotalPrice: 40,
		Note:       "rush",
		CreatedAt:  "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-1", o.ID)
	assert.Equal(t, "2024-03-09T10:30:00.123Z", o.CreatedAt)

	o.Note = "edited"
	require.NoError(t, s.UpdateOutboundOrder(ctx, o))
	all, err := s.OutboundOrders(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, o, all[0])

	require.NoError(t, s.DeleteOutboundOrder(ctx, o.ID))
	all, _ = s.OutboundOrders(ctx)
	assert.Empty(t, all)
}

func TestPackageCRUDKeepsDuplicateLines(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	p, err := s.AddPackage(ctx, Package{Name: "Box", Products: []ProductLine{
		{ProductID: "a", Quantity: 1},
		{ProductID: "a", Quantity: 2},
	}})
	require.NoError(t, err)

	all, err := s.Packages(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Products, 2)

	p.Name = "Big box"
	require.NoError(t, s.UpdatePackage(ctx, p))
	all, _ = s.Packages(ctx)
	assert.Equal(t, "Big box", all[0].Name)

	require.NoError(t, s.DeletePackage(ctx, p.ID))
	all, _ = s.Packages(ctx)
	assert.Empty(t, all)
}

func TestReplaceNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestStore(t)
	require.NoError(t, s.ReplaceOutboundOrders(ctx, nil))
	raw, _, _ := kv.Get(ctx, KeyOutboundOrders)
	assert.Equal(t, "[]", raw)
}
