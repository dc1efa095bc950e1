// repositories/sqldb/ingest_repo.go
// Bulk insert hasil ingest workbook ke tabel production
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wellprod/internal/models"
)

const defaultBatchSize = 500

type IngestRepo struct {
	DB      *sql.DB
	Dialect Dialect
	Batch   int // rows per INSERT statement
}

// ReplaceAll empties the table and inserts recs in one transaction.
func (r *IngestRepo) ReplaceAll(ctx context.Context, recs []models.ProductionRecord) (int, error) {
	return r.write(ctx, recs, true)
}

// Append inserts recs in one transaction, keeping existing rows.
func (r *IngestRepo) Append(ctx context.Context, recs []models.ProductionRecord) (int, error) {
	return r.write(ctx, recs, false)
}

func (r *IngestRepo) write(ctx context.Context, recs []models.ProductionRecord, replace bool) (n int, err error) {
	if r == nil || r.DB == nil {
		return 0, errors.New("ingest repo: DB is nil")
	}
	if err := Migrate(ctx, r.DB, r.Dialect); err != nil {
		return 0, err
	}
	batch := r.Batch
	if batch <= 0 {
		batch = defaultBatchSize
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if replace {
		if _, err = tx.ExecContext(ctx, `DELETE FROM production`); err != nil {
			return 0, fmt.Errorf("clear production: %w", err)
		}
	}

	for start := 0; start < len(recs); start += batch {
		end := min(start+batch, len(recs))
		if err = insertBatch(ctx, tx, recs[start:end]); err != nil {
			return n, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		n += end - start
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

func insertBatch(ctx context.Context, tx *sql.Tx, recs []models.ProductionRecord) error {
	row := "(" + placeholders(len(productionColumns)) + ")"
	values := make([]string, len(recs))
	args := make([]any, 0, len(recs)*len(productionColumns))
	for i, rec := range recs {
		values[i] = row
		var prodDate any
		if rec.ProdDate != "" {
			prodDate = rec.ProdDate
		}
		var platform any
		if rec.ProcessPlatform != "" {
			platform = rec.ProcessPlatform
		}
		args = append(args,
			rec.WellID, rec.WellString, platform, prodDate, rec.HrsFlown,
			rec.OilMT, rec.GasKCM, rec.CondensateMT, rec.WaterBB6,
			rec.Density, rec.Mass, rec.Temp, rec.BSW, rec.BatchID)
	}
	q := "INSERT INTO production (" + strings.Join(productionColumns, ", ") + ") VALUES " + strings.Join(values, ", ")
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// ColumnInfo is one column of the production table.
type ColumnInfo struct {
	Name string
	Type string
}

// TableInfo describes the production table columns.
func (r *IngestRepo) TableInfo(ctx context.Context) ([]ColumnInfo, error) {
	var q string
	switch r.Dialect {
	case DialectMySQL:
		q = `SELECT column_name, column_type FROM information_schema.columns
			WHERE table_schema = DATABASE() AND table_name = 'production' ORDER BY ordinal_position`
	default:
		q = `SELECT name, type FROM pragma_table_info('production')`
	}
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()
	var out []ColumnInfo
	for rows.Next() {
		var c ColumnInfo
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Count returns the number of rows in production.
func (r *IngestRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM production`).Scan(&n)
	return n, err
}

// Sample returns the first n rows, for a quick look after ingest.
func (r *IngestRepo) Sample(ctx context.Context, n int) ([]models.ProductionRecord, error) {
	if n <= 0 {
		n = 5
	}
	pr := &ProductionRepo{DB: r.DB}
	return pr.query(ctx, selectProduction+" LIMIT ?", n)
}
