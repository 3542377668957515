package warehouse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres appends rows to a table of (order_id text, payload jsonb).
type Postgres struct {
	db   execer
	pool *pgxpool.Pool
}

// NewPostgres connects a pool to databaseURL and pings it.
func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Postgres{db: pool, pool: pool}, nil
}

// EnsureTable creates table if it does not exist.
func (p *Postgres) EnsureTable(ctx context.Context, table string) error {
	_, err := p.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+quoteTable(table)+` (
		id BIGSERIAL PRIMARY KEY,
		order_id TEXT NOT NULL,
		payload JSONB NOT NULL,
		inserted_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}

// InsertRow stores row as JSONB keyed by its order_id.
func (p *Postgres) InsertRow(ctx context.Context, table string, row map[string]any) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	orderID, _ := row["order_id"].(string)

	_, err = p.db.Exec(ctx,
		`INSERT INTO `+quoteTable(table)+` (order_id, payload) VALUES ($1, $2)`,
		orderID, string(payload),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			return &InsertError{
				Table:  table,
				Errors: []string{fmt.Sprintf("%s (SQLSTATE %s)", pgErr.Message, pgErr.Code)},
			}
		}
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

// Close closes the pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// quoteTable sanitizes "schema.table" or "table" as a SQL identifier.
// checkPostgresTable accepts "table" or "schema.table".
func checkPostgresTable(table string) error {
	parts := strings.Split(table, ".")
	if len(parts) > 2 {
		return fmt.Errorf("postgres table %q: want table or schema.table", table)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("postgres table %q: empty identifier", table)
		}
	}
	return nil
}

func quoteTable(table string) string {
	return pgx.Identifier(strings.Split(table, ".")).Sanitize()
}
