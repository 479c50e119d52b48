package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"streamcatalog/proj/internal/storage"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ErrConflictCode = "23505"

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Storage struct {
	Conn *pgxpool.Pool
}

func New(ctx context.Context, storagePath string, maxConns int, maxConnIdleTime time.Duration) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(storagePath)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MaxConnIdleTime = maxConnIdleTime
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Storage{Conn: pool}, nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.Conn.Ping(ctx)
}

func (s *Storage) Close() {
	s.Conn.Close()
}

// Migrate applies the embedded migrations that are not recorded in
// schema_migrations yet, each one in its own transaction, in file name order.
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.Conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name text PRIMARY KEY,
		applied_at timestamptz NOT NULL DEFAULT now()
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return err
	}
	slices.Sort(names)
	for _, name := range names {
		if err := s.applyMigration(ctx, name); err != nil {
			return fmt.Errorf("migration %s: %w", name, err)
		}
	}
	return nil
}

func (s *Storage) applyMigration(ctx context.Context, name string) error {
	script, err := migrationsFS.ReadFile(name)
	if err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, s.Conn, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		_, err = tx.Exec(ctx, string(script))
		return err
	})
}

// MapError translates driver errors into storage sentinels.
func MapError(err error) error {
	var pgxErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &pgxErr) && pgxErr.Code == ErrConflictCode:
		return storage.ErrConflict
	case errors.Is(err, pgx.ErrNoRows):
		return storage.ErrNotFound
	}
	return err
}
