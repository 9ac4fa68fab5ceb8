package workspace

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPostgresStore_Integration(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	id := "test-" + uuid.NewString()
	store := NewPostgresStore(pool, id)
	require.NoError(t, store.EnsureSchema(ctx))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM workspace_snapshots WHERE id = $1`, id)
	})

	snap, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Cases)

	w := newTestWorkspace(t, store)
	_, err = w.CreateCase(ctx, Patient{Name: "Ana"})
	require.NoError(t, err)
	_, err = w.AppendResult(ctx, ToolResult{Tool: "child-pugh", Summary: "Class A"})
	require.NoError(t, err)

	reloaded := New(store, zap.NewNop())
	require.NoError(t, reloaded.Load(ctx))
	active, err := reloaded.Active()
	require.NoError(t, err)
	require.Len(t, active.Results, 1)
	assert.Equal(t, "Class A", active.Results[0].Summary)
}
