package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresDirectory resolves client names from the clients table.
type PostgresDirectory struct {
	db pgRowQuerier
}

// NewPostgresDirectory initializes a directory backed by pgxpool.
func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	if pool == nil {
		panic("clients: pgx pool required")
	}
	return &PostgresDirectory{db: pool}
}

// NewPostgresDirectoryWithDB allows injecting a mock database for testing.
func NewPostgresDirectoryWithDB(db pgRowQuerier) *PostgresDirectory {
	return &PostgresDirectory{db: db}
}

// DisplayName implements Directory.
func (d *PostgresDirectory) DisplayName(ctx context.Context, clientID string) (string, error) {
	var name string
	err := d.db.QueryRow(ctx,
		`SELECT full_name FROM clients WHERE id = $1`, clientID,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("clients: select name: %w", err)
	}
	return name, nil
}
