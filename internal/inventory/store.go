package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Collection keys, sekaligus key di KV.
const (
	KeyProducts       = "products"
	KeyPackages       = "packages"
	KeyOutboundOrders = "outboundOrders"
)

// isoMillis is the timestamp layout used for createdAt and exportDate.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func FormatTime(t time.Time) string { return t.UTC().Format(isoMillis) }

// Repository is the CRUD surface over the three collections. Update and
// delete of an unknown id are silent no-ops.
type Repository interface {
	Products(ctx context.Context) ([]Product, error)
	AddProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error
	ReplaceProducts(ctx context.Context, ps []Product) error

	Packages(ctx context.Context) ([]Package, error)
	AddPackage(ctx context.Context, p Package) (Package, error)
	UpdatePackage(ctx context.Context, p Package) error
	DeletePackage(ctx context.Context, id string) error
	ReplacePackages(ctx context.Context, ps []Package) error

	OutboundOrders(ctx context.Context) ([]OutboundOrder, error)
	AddOutboundOrder(ctx context.Context, o OutboundOrder) (OutboundOrder, error)
	UpdateOutboundOrder(ctx context.Context, o OutboundOrder) error
	DeleteOutboundOrder(ctx context.Context, id string) error
	ReplaceOutboundOrders(ctx context.Context, os []OutboundOrder) error
}

var _ Repository = (*Store)(nil)

// Store implements Repository on top of a KV. Every mutation is a full
// read-modify-write of the collection's JSON array; there is no locking.
type Store struct {
	kv    KV
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

func WithIDGenerator(gen func() string) Option { return func(s *Store) { s.newID = gen } }

func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{kv: kv, now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize writes an empty array for every collection key that is absent.
// Existing data is never touched.
func (s *Store) Initialize(ctx context.Context) error {
	for _, key := range []string{KeyProducts, KeyPackages, KeyOutboundOrders} {
		_, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if err := s.kv.Set(ctx, key, "[]"); err != nil {
			return err
		}
	}
	return nil
}

// ---- generic helpers ----

func load[T any](ctx context.Context, kv KV, key string) ([]T, error) {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if !ok {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	if out == nil { // "null"
		out = []T{}
	}
	return out, nil
}

func save[T any](ctx context.Context, kv KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return kv.Set(ctx, key, string(b))
}

func appendTo[T any](ctx context.Context, kv KV, key string, rec T) error {
	items, err := load[T](ctx, kv, key)
	if err != nil {
		return err
	}
	return save(ctx, kv, key, append(items, rec))
}

func replaceByID[T any](ctx context.Context, kv KV, key string, rec T, id func(T) string) error {
	items, err := load[T](ctx, kv, key)
	if err != nil {
		return err
	}
	for i := range items {
		if id(items[i]) == id(rec) {
			items[i] = rec
		}
	}
	return save(ctx, kv, key, items)
}

func removeByID[T any](ctx context.Context, kv KV, key, target string, id func(T) string) error {
	items, err := load[T](ctx, kv, key)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if id(it) != target {
			kept = append(kept, it)
		}
	}
	return save(ctx, kv, key, kept)
}

func productID(p Product) string     { return p.ID }
func packageID(p Package) string     { return p.ID }
func orderID(o OutboundOrder) string { return o.ID }

// ---- products ----

func (s *Store) Products(ctx context.Context) ([]Product, error) {
	return load[Product](ctx, s.kv, KeyProducts)
}

func (s *Store) AddProduct(ctx context.Context, p Product) (Product, error) {
	p.ID = s.newID()
	if err := appendTo(ctx, s.kv, KeyProducts, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p Product) error {
	return replaceByID(ctx, s.kv, KeyProducts, p, productID)
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return removeByID(ctx, s.kv, KeyProducts, id, productID)
}

func (s *Store) ReplaceProducts(ctx context.Context, ps []Product) error {
	return save(ctx, s.kv, KeyProducts, ps)
}

// ---- packages ----

func (s *Store) Packages(ctx context.Context) ([]Package, error) {
	return load[Package](ctx, s.kv, KeyPackages)
}

func (s *Store) AddPackage(ctx context.Context, p Package) (Package, error) {
	p.ID = s.newID()
	if err := appendTo(ctx, s.kv, KeyPackages, p); err != nil {
		return Package{}, err
	}
	return p, nil
}

func (s *Store) UpdatePackage(ctx context.Context, p Package) error {
	return replaceByID(ctx, s.kv, KeyPackages, p, packageID)
}

func (s *Store) DeletePackage(ctx context.Context, id string) error {
	return removeByID(ctx, s.kv, KeyPackages, id, packageID)
}

func (s *Store) ReplacePackages(ctx context.Context, ps []Package) error {
	return save(ctx, s.kv, KeyPackages, ps)
}

// ---- outbound orders ----

func (s *Store) OutboundOrders(ctx context.Context) ([]OutboundOrder, error) {
	return load[OutboundOrder](ctx, s.kv, KeyOutboundOrders)
}

func (s *Store) AddOutboundOrder(ctx context.Context, o OutboundOrder) (OutboundOrder, error) {
	o.ID = s.newID()
	o.CreatedAt = FormatTime(s.now())
	if err := appendTo(ctx, s.kv, KeyOutboundOrders, o); err != nil {
		return OutboundOrder{}, err
	}
	return o, nil
}

func (s *Store) UpdateOutboundOrder(ctx context.Context, o OutboundOrder) error {
	return replaceByID(ctx, s.kv, KeyOutboundOrders, o, orderID)
}

func (s *Store) DeleteOutboundOrder(ctx context.Context, id string) error {
	return removeByID(ctx, s.kv, KeyOutboundOrders, id, orderID)
}

func (s *Store) ReplaceOutboundOrders(ctx context.Context, os []OutboundOrder) error {
	return save(ctx, s.kv, KeyOutboundOrders, os)
}

// ---- lookups ----

func FindProduct(products []Product, id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func FindPackage(packages []Package, id string) (Package, bool) {
	for _, p := range packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

func FindOutboundOrder(orders []OutboundOrder, id string) (OutboundOrder, bool) {
	for _, o := range orders {
		if o.ID == id {
			return o, true
		}
	}
	return OutboundOrder{}, false
}
