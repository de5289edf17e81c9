package redisx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-outbound-inventory/internal/inventory"
	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// KV stores each collection as a plain Redis string.
type KV struct {
	rdb    redis.Cmdable
	prefix string
}

var _ inventory.KV = (*KV)(nil)

func NewKV(rdb redis.Cmdable, prefix string) *KV {
	return &KV{rdb: rdb, prefix: prefix}
}

func (k *KV) key(name string) string { return fmt.Sprintf(KeyCollection, k.prefix, name) }

func (k *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := k.rdb.Get(ctx, k.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (k *KV) Set(ctx context.Context, key, value string) error {
	return k.rdb.Set(ctx, k.key(key), value, 0).Err()
}

// Tracker backs the stock ledger: event dedup and the oversold product set.
type Tracker struct {
	rdb     redis.Cmdable
	service string
}

func NewTracker(rdb redis.Cmdable, service string) *Tracker {
	return &Tracker{rdb: rdb, service: service}
}

func (t *Tracker) dedupKey(eventID string) string {
	return fmt.Sprintf(KeyDedup, t.service, eventID)
}

// Seen reports whether the event id was fully processed within TTLDedup.
func (t *Tracker) Seen(ctx context.Context, eventID string) (bool, error) {
	n, err := t.rdb.Exists(ctx, t.dedupKey(eventID)).Result()
	return n > 0, err
}

func (t *Tracker) MarkSeen(ctx context.Context, eventID string) error {
	return t.rdb.Set(ctx, t.dedupKey(eventID), "1", TTLDedup).Err()
}

// MarkOversold returns true when the product was not in the set yet.
func (t *Tracker) MarkOversold(ctx context.Context, productID string) (bool, error) {
	n, err := t.rdb.SAdd(ctx, KeyOversold, productID).Result()
	return n > 0, err
}

func (t *Tracker) ClearOversold(ctx context.Context, productID string) error {
	return t.rdb.SRem(ctx, KeyOversold, productID).Err()
}
