package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Butuh database sungguhan: TEST_POSTGRES_DSN=postgres://... go test ./internal/postgres
func newTestKV(t *testing.T) *KV {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	_, err = db.Exec(ctx, `DELETE FROM kv_store WHERE key LIKE 'test:%'`)
	require.NoError(t, err)
	return &KV{DB: db}
}

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)

	v, ok, err := kv.Get(ctx, "test:products")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)

	require.NoError(t, kv.Set(ctx, "test:products", "[]"))
	require.NoError(t, kv.Set(ctx, "test:products", `[{"id":"a"}]`))

	v, ok, err = kv.Get(ctx, "test:products")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)
}

func TestOpenBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "not a dsn ::")
	assert.ErrorContains(t, err, "parse dsn")
}
