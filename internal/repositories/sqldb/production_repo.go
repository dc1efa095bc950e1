// repositories/sqldb/production_repo.go
// Repo untuk tabel production (agregasi per delivery network & data per sumur)
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wellprod/internal/models"
)

type ProductionRepo struct{ DB *sql.DB }

type WellFilter struct {
	WellID  string // LIKE match on well_id or well_string
	Network string // exact process_platform
	Limit   int
	Offset  int
}

const selectProduction = `
	SELECT well_id, well_string, COALESCE(process_platform, ''), COALESCE(prod_date, ''),
	       hrs_flown, oil_mt, gas_kcm, condensate_mt, water_bb6,
	       density, mass, temp, bsw, batch_id
	FROM production`

// NetworkSummary is the fixed aggregation per "Process Platform/CTF",
// ordered by gas desc.
func (r *ProductionRepo) NetworkSummary(ctx context.Context) ([]models.NetworkSummary, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	const q = `
		SELECT process_platform,
		       COALESCE(SUM(oil_mt), 0)        AS oil_total,
		       COALESCE(SUM(gas_kcm), 0)       AS gas_total,
		       COALESCE(SUM(condensate_mt), 0) AS condensate_total,
		       COALESCE(SUM(water_bb6), 0)     AS water_total,
		       COALESCE(SUM(CASE WHEN hrs_flown > 0 THEN 1 ELSE 0 END), 0) AS flowing,
		       COALESCE(SUM(CASE WHEN hrs_flown = 0 THEN 1 ELSE 0 END), 0) AS non_flowing
		FROM production
		WHERE process_platform IS NOT NULL AND process_platform <> ''
		GROUP BY process_platform
		ORDER BY gas_total DESC, process_platform ASC`

	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query network summary: %w", err)
	}
	defer rows.Close()

	var out []models.NetworkSummary
	for rows.Next() {
		var s models.NetworkSummary
		if err := rows.Scan(&s.Network, &s.OilMT, &s.GasKCM, &s.CondensateMT, &s.WaterBB6,
			&s.FlowingWells, &s.NonFlowingWells); err != nil {
			return nil, err
		}
		// total dihitung ulang dari flowing + non-flowing
		s.TotalWells = s.FlowingWells + s.NonFlowingWells
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListWells returns production rows for the filter (limit default 200, max 1000).
func (r *ProductionRepo) ListWells(ctx context.Context, f WellFilter) ([]models.ProductionRecord, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	if f.Limit <= 0 || f.Limit > 1000 {
		f.Limit = 200
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	sb := strings.Builder{}
	sb.WriteString(selectProduction)
	sb.WriteString(" WHERE 1=1")
	args := []any{}

	if w := strings.TrimSpace(f.WellID); w != "" {
		sb.WriteString(" AND (well_id LIKE ? OR well_string LIKE ?)")
		args = append(args, "%"+w+"%", "%"+w+"%")
	}
	if n := strings.TrimSpace(f.Network); n != "" {
		sb.WriteString(" AND process_platform = ?")
		args = append(args, n)
	}
	sb.WriteString(" ORDER BY process_platform, well_id LIMIT ? OFFSET ?")
	args = append(args, f.Limit, f.Offset)

	return r.query(ctx, sb.String(), args...)
}

// AllWells returns every production row in insertion order.
func (r *ProductionRepo) AllWells(ctx context.Context) ([]models.ProductionRecord, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	return r.query(ctx, selectProduction)
}

// MeasurementPoints returns the distinct non-empty platforms, sorted.
func (r *ProductionRepo) MeasurementPoints(ctx context.Context) ([]string, error) {
	if r == nil || r.DB == nil {
		return nil, errors.New("production repo: DB is nil")
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT process_platform FROM production
		WHERE process_platform IS NOT NULL AND process_platform <> ''
		ORDER BY process_platform`)
	if err != nil {
		return nil, fmt.Errorf("query measurement points: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Ping dipakai readiness probe.
func (r *ProductionRepo) Ping(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return errors.New("production repo: DB is nil")
	}
	return r.DB.PingContext(ctx)
}

func (r *ProductionRepo) query(ctx context.Context, q string, args ...any) ([]models.ProductionRecord, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query production: %w", err)
	}
	defer rows.Close()

	out := make([]models.ProductionRecord, 0, 256)
	for rows.Next() {
		var rec models.ProductionRecord
		if err := rows.Scan(&rec.WellID, &rec.WellString, &rec.ProcessPlatform, &rec.ProdDate,
			&rec.HrsFlown, &rec.OilMT, &rec.GasKCM, &rec.CondensateMT, &rec.WaterBB6,
			&rec.Density, &rec.Mass, &rec.Temp, &rec.BSW, &rec.BatchID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
