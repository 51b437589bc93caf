package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is the slice of pgx the catalog needs, injectable for tests.
type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres reads the catalog from the services table, where the admin
// screens persist it.
type Postgres struct {
	db pgQuerier
}

// NewPostgres initializes a catalog backed by pgxpool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	return &Postgres{db: pool}
}

// NewPostgresWithDB allows injecting a mock database for testing.
func NewPostgresWithDB(db pgQuerier) *Postgres {
	return &Postgres{db: db}
}

// DefaultDuration implements Catalog.
func (p *Postgres) DefaultDuration(ctx context.Context, service string) (int, bool) {
	var mins int
	err := p.db.QueryRow(ctx,
		`SELECT duration_mins FROM services WHERE name = $1`, service,
	).Scan(&mins)
	if err != nil || mins <= 0 {
		return 0, false
	}
	return mins, true
}

// List implements Catalog.
func (p *Postgres) List(ctx context.Context) ([]Entry, error) {
	rows, err := p.db.Query(ctx,
		`SELECT name, duration_mins, price_cents, description FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.DurationMins, &e.PriceCents, &e.Description); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate services: %w", err)
	}
	return entries, nil
}
