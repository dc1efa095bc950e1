// pkg/db/db.go
// Membuka koneksi store produksi sesuai DB_DRIVER.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Options struct {
	Driver   string // sqlite | mysql
	DSN      string
	Path     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxOpen  int
	MaxIdle  int
}

// Open opens and pings the database.
func Open(ctx context.Context, o Options) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)
	switch o.Driver {
	case "mysql":
		conn, err = openMySQL(o)
	case "sqlite", "":
		conn, err = openSQLite(o)
	default:
		return nil, fmt.Errorf("unsupported driver %q", o.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Driver, err)
	}

	if o.MaxOpen > 0 {
		conn.SetMaxOpenConns(o.MaxOpen)
	}
	if o.MaxIdle > 0 {
		conn.SetMaxIdleConns(o.MaxIdle)
	}
	conn.SetConnMaxLifetime(30 * time.Minute)

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", o.Driver, err)
	}
	return conn, nil
}
