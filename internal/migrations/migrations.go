// Package migrations holds the database schema and applies it with goose.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

const (
	dir       = "sql"
	tableName = "schema_migrations"
)

// Commands accepted by Run.
var Commands = []string{"up", "down", "status", "version"}

// zapGooseLogger routes goose output through zap. Fatalf does not exit;
// the error comes back from Run instead.
type zapGooseLogger struct {
	log *zap.SugaredLogger
}

func (l zapGooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infof(format, v...)
}

func (l zapGooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorf(format, v...)
}

// Up applies all pending migrations.
func Up(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	return Run(ctx, pool, logger, "up")
}

// Run executes a goose command against the database behind pool.
func Run(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger, command string) error {
	if !slices.Contains(Commands, command) {
		return fmt.Errorf("unknown migration command %q (expected one of %v)", command, Commands)
	}

	goose.SetBaseFS(files)
	goose.SetTableName(tableName)
	goose.SetLogger(zapGooseLogger{log: logger.Named("migrations").Sugar()})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	var err error
	switch command {
	case "up":
		err = goose.UpContext(ctx, db, dir)
	case "down":
		err = goose.DownContext(ctx, db, dir)
	case "status":
		err = goose.StatusContext(ctx, db, dir)
	case "version":
		err = goose.VersionContext(ctx, db, dir)
	}
	if err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
