// Package gormdb implements the persistence ports on a relational database
// through gorm. Postgres and sqlite are supported; the target is picked from
// the connection URL.
package gormdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const defaultTimeout = 10 * time.Second

// Dialect identifies the relational engine behind a connection URL.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// Config captures the settings required to open the database.
type Config struct {
	URL     string
	Timeout time.Duration
}

// DialectOf reports which engine a connection URL targets. Anything that is
// not a postgres URL is treated as a sqlite path.
func DialectOf(url string) Dialect {
	if strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://") {
		return DialectPostgres
	}
	return DialectSQLite
}

// sqliteDSN normalises a sqlite target and makes sure foreign keys are
// enforced on every connection.
func sqliteDSN(url string) string {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if dsn == "" || dsn == ":memory:" {
		dsn = "file::memory:"
	}
	if strings.Contains(dsn, "_pragma=foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Open connects to the database, verifies connectivity with a ping and
// returns the gorm handle. Queries are logged through log.
func Open(ctx context.Context, cfg Config, log zerolog.Logger) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	dialect := DialectOf(cfg.URL)
	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(cfg.URL)
	default:
		dialector = sqlite.Open(sqliteDSN(cfg.URL))
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: NewLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%s handle: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// One connection keeps in-memory databases alive and serialises writers.
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s ping: %w", dialect, err)
	}

	if dialect == DialectSQLite {
		if err := db.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("sqlite pragma: %w", err)
		}
	}
	return db, nil
}

// Migrate creates or updates the users, messages and follows tables.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&userRow{}, &messageRow{}, &followRow{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// DropAll drops every table created by Migrate.
func DropAll(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Migrator().DropTable(&followRow{}, &messageRow{}, &userRow{}); err != nil {
		return fmt.Errorf("drop tables: %w", err)
	}
	return nil
}

// DeleteAll removes every row while keeping the schema.
func DeleteAll(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&followRow{}, &messageRow{}, &userRow{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("delete all: %w", err)
			}
		}
		return nil
	})
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
