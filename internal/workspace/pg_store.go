package workspace

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxConn is the subset of *pgxpool.Pool used by PostgresStore.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

const (
	createSnapshotTable = `CREATE TABLE IF NOT EXISTS workspace_snapshots (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectSnapshot = `SELECT data FROM workspace_snapshots WHERE id = $1`
	upsertSnapshot = `INSERT INTO workspace_snapshots (id, data, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
)

// PostgresStore keeps the snapshot in one jsonb row keyed by workspace id.
type PostgresStore struct {
	db PgxConn
	id string
}

func NewPostgresStore(db PgxConn, id string) *PostgresStore {
	if id == "" {
		id = "default"
	}
	return &PostgresStore{db: db, id: id}
}

// EnsureSchema creates the snapshot table if it is missing.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createSnapshotTable); err != nil {
		return fmt.Errorf("create workspace_snapshots: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) (Snapshot, error) {
	var data []byte
	err := p.db.QueryRow(ctx, selectSnapshot, p.id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("select snapshot: %w", err)
	}
	s, err := decodeSnapshot(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func (p *PostgresStore) Save(ctx context.Context, s Snapshot) error {
	data, err := encodeSnapshot(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := p.db.Exec(ctx, upsertSnapshot, p.id, data); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
