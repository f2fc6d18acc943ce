package sqlstore

import (
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver       string
	Source       string
	MaxOpenConns int
	MaxIdleConns int
}

// Open connects gorm to sqlite or postgres. The postgres connection is
// opened through sqlx on the pgx stdlib driver and handed to gorm.
func Open(opts Options) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	switch opts.Driver {
	case DriverSQLite:
		db, err := gorm.Open(sqlite.Open(opts.Source), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite %s: %w", opts.Source, err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
		return db, nil

	case DriverPostgres:
		conn, err := sqlx.Connect("pgx", opts.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if opts.MaxOpenConns > 0 {
			conn.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MaxIdleConns > 0 {
			conn.SetMaxIdleConns(opts.MaxIdleConns)
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn.DB}), cfg)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to open gorm on postgres: %w", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported sql driver %q", opts.Driver)
	}
}

// GooseDialect maps a storage driver to the goose dialect name.
func GooseDialect(driver string) string {
	if driver == DriverSQLite {
		return "sqlite3"
	}
	return "postgres"
}
