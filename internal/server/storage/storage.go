// Package storage selects and wires the persistence backend: flat JSON files
// by default, PostgreSQL when a DSN is configured.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"codexplain/internal/logging"
	"codexplain/internal/server/migrations"
	"codexplain/internal/server/repositories/history"
	"codexplain/internal/server/repositories/users"
)

// Repositories bundles the concrete stores handed to the services. Close is a
// no-op for the file backend.
type Repositories struct {
	Users   users.Repository
	History history.Repository

	db *sql.DB
}

func (r *Repositories) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// NewFile builds the flat-file backend. Files are created lazily on first
// write; absence reads as an empty collection.
func NewFile(usersPath, historyPath string, logger logging.Logger) *Repositories {
	return &Repositories{
		Users:   users.NewFileRepository(usersPath, logger),
		History: history.NewFileRepository(historyPath, logger),
	}
}

// NewPostgres opens the database, runs the embedded migrations, and builds
// the Postgres-backed repositories.
func NewPostgres(ctx context.Context, dsn string) (*Repositories, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return &Repositories{
		Users:   users.NewPostgresRepository(db),
		History: history.NewPostgresRepository(db),
		db:      db,
	}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}
