// internal/repositories/sqldb/schema.go
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect bedanya cuma di DDL; query lain pakai SQL yang sama untuk sqlite & mysql.
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

// productionColumns in insert order.
var productionColumns = []string{
	"well_id", "well_string", "process_platform", "prod_date", "hrs_flown",
	"oil_mt", "gas_kcm", "condensate_mt", "water_bb6",
	"density", "mass", "temp", "bsw", "batch_id",
}

const productionDDL = `
CREATE TABLE IF NOT EXISTS production (
	well_id          VARCHAR(64)  NOT NULL DEFAULT '',
	well_string      VARCHAR(64)  NOT NULL DEFAULT '',
	process_platform VARCHAR(128) NULL,
	prod_date        VARCHAR(10)  NULL,
	hrs_flown        DOUBLE       NOT NULL DEFAULT 0,
	oil_mt           DOUBLE       NOT NULL DEFAULT 0,
	gas_kcm          DOUBLE       NOT NULL DEFAULT 0,
	condensate_mt    DOUBLE       NOT NULL DEFAULT 0,
	water_bb6        DOUBLE       NOT NULL DEFAULT 0,
	density          DOUBLE       NULL,
	mass             DOUBLE       NULL,
	temp             DOUBLE       NULL,
	bsw              DOUBLE       NULL,
	batch_id         VARCHAR(36)  NOT NULL DEFAULT ''
)`

// Migrate creates the production table and its platform index.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := []string{productionDDL}
	switch d {
	case DialectMySQL:
		stmts[0] += " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
		// mysql tidak punya CREATE INDEX IF NOT EXISTS; index dibuat terpisah kalau belum ada
	case DialectSQLite, "":
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_production_platform ON production (process_platform)`,
			`CREATE INDEX IF NOT EXISTS idx_production_well ON production (well_id)`)
	default:
		return fmt.Errorf("migrate: unsupported dialect %q", d)
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if d == DialectMySQL {
		return ensureMySQLIndexes(ctx, db)
	}
	return nil
}

func ensureMySQLIndexes(ctx context.Context, db *sql.DB) error {
	idx := map[string]string{
		"idx_production_platform": "process_platform",
		"idx_production_well":     "well_id",
	}
	for name, col := range idx {
		var n int
		const q = `SELECT COUNT(*) FROM information_schema.statistics
			WHERE table_schema = DATABASE() AND table_name = 'production' AND index_name = ?`
		if err := db.QueryRowContext(ctx, q, name).Scan(&n); err != nil {
			return fmt.Errorf("migrate: check index %s: %w", name, err)
		}
		if n > 0 {
			continue
		}
		if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE INDEX %s ON production (%s)", name, col)); err != nil {
			return fmt.Errorf("migrate: create index %s: %w", name, err)
		}
	}
	return nil
}
