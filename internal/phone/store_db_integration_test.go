//go:build integration
// +build integration

package phone_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"PhoneStore/internal/phone"
)

// openPostgres connects to DATABASE_URL inside a throwaway schema. The pool
// holds a single connection so search_path applies to every statement.
func openPostgres(t *testing.T) *phone.PostgresBackend {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	schema := fmt.Sprintf("phones_it_%d", time.Now().UnixNano())
	_, err = db.ExecContext(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, "SET search_path TO "+schema)
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		_ = db.Close()
	})

	b := phone.NewPostgresBackend(db)
	require.NoError(t, b.EnsureSchema(ctx))
	require.NoError(t, b.Ping(ctx))
	return b
}

func TestPostgresBackend_SaveRenumbersPositions(t *testing.T) {
	b := openPostgres(t)
	ctx := context.Background()

	recs, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, b.Save(ctx, []phone.Record{
		{ID: 10, Fields: phone.Fields{Brand: "Apple", Model: "iPhone 13", Price: "$799"}},
		{ID: 7, Fields: phone.Fields{}},
		{ID: 42, Fields: phone.Fields{Brand: "Samsung", Model: "Galaxy S21", Price: "$999"}},
	}))

	recs, err = b.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 2, recs[0].ID)
	assert.Equal(t, "Apple", recs[0].Brand)
	assert.True(t, recs[1].Blank())
	assert.Equal(t, 4, recs[2].ID)
	assert.Equal(t, "$999", recs[2].Price)
}

func TestPostgresBackend_SaveReplacesTable(t *testing.T) {
	b := openPostgres(t)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []phone.Record{
		{Fields: phone.Fields{Brand: "Apple"}},
		{Fields: phone.Fields{Brand: "Google"}},
	}))
	require.NoError(t, b.Save(ctx, []phone.Record{
		{Fields: phone.Fields{Brand: "Nokia"}},
	}))

	recs, err := b.Load(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, phone.Record{ID: 2, Fields: phone.Fields{Brand: "Nokia"}}, recs[0])
}

func TestPostgresBackend_StoreLifecycle(t *testing.T) {
	s := phone.NewStore(openPostgres(t), zap.NewNop(), nil)
	ctx := context.Background()

	for _, brand := range []string{"Apple", "Samsung", "Google"} {
		_, err := s.Create(ctx, phone.Fields{Brand: brand})
		require.NoError(t, err)
	}

	deleted, found, err := s.Delete(ctx, 2)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Apple", deleted.Brand)

	got, ok := s.Get(ctx, 2)
	require.True(t, ok)
	assert.Equal(t, "Samsung", got.Brand)

	price := "$599"
	updated, found, err := s.Update(ctx, 3, phone.Update{Price: &price})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Google", updated.Brand)
	assert.Equal(t, "$599", updated.Price)
}
