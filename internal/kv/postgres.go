package kv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lotlinks/migrations"
)

// OpenPostgres creates and pings a pgx connection pool.
func OpenPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// RunMigrations applies all embedded SQL migrations for the share_kv
// schema.
func RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// PostgresStore is a Store backed by a single share_kv table, with the
// namespace as part of the primary key.
type PostgresStore struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgresStore creates a namespaced view over a shared pool.
func NewPostgresStore(pool *pgxpool.Pool, namespace string) *PostgresStore {
	return &PostgresStore{pool: pool, namespace: namespace}
}

// Get returns the value for key, or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM share_kv WHERE namespace = $1 AND key = $2`,
		s.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("postgres get", err)
	}
	return value, nil
}

// Set upserts value under key.
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO share_kv (namespace, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, s.namespace, key, value)
	if err != nil {
		return unavailable("postgres set", err)
	}
	return nil
}

// List returns all keys under prefix within the namespace.
func (s *PostgresStore) List(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key FROM share_kv WHERE namespace = $1 AND key LIKE $2 ORDER BY key`,
		s.namespace, escapeLike(prefix)+"%",
	)
	if err != nil {
		return nil, unavailable("postgres list", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, unavailable("postgres list scan", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("postgres list rows", err)
	}
	return keys, nil
}

// escapeLike escapes LIKE metacharacters so a prefix is matched
// literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
