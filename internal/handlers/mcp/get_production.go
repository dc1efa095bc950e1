// internal/handlers/mcp/get_production.go
// MCP Tool: get_production - baris produksi per sumur
package mcp

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"wellprod/internal/models"
	"wellprod/internal/repositories/sqldb"
	"wellprod/internal/util"
)

type ProductionRow struct {
	WellID       string   `json:"well_id"`
	WellString   string   `json:"well_string,omitempty"`
	Network      string   `json:"network"`
	Date         string   `json:"date,omitempty"` // YYYY-MM-DD
	HrsFlown     float64  `json:"hrs_flown"`
	Flowing      bool     `json:"flowing"`
	OilMT        float64  `json:"oil_mt"`
	GasKCM       float64  `json:"gas_kcm"`
	CondensateMT float64  `json:"condensate_mt"`
	WaterBB6     float64  `json:"water_bb6"`
	Density      *float64 `json:"density,omitempty"`
	Mass         *float64 `json:"mass,omitempty"`
	Temp         *float64 `json:"temp,omitempty"`
	BSW          *float64 `json:"bsw,omitempty"`
}

func GetProductionHandler(w http.ResponseWriter, r *http.Request) {
	d := current()
	if d.wells == nil {
		util.WriteError(w, util.Unavailable("well repo not configured"))
		return
	}
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	// terima well_id dan well (alias)
	if p.WellID == "" {
		p.WellID = strings.TrimSpace(r.URL.Query().Get("well"))
	}

	ctx, cancel := context.WithTimeout(r.Context(), 6*time.Second)
	defer cancel()

	recs, err := d.wells.ListWells(ctx, sqldb.WellFilter{
		WellID:  p.WellID,
		Network: p.Network,
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		util.WriteError(w, util.Internal("db error: "+err.Error()))
		return
	}

	out := make([]ProductionRow, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toProductionRow(rec))
	}
	writeJSON(w, map[string]any{"count": len(out), "rows": out})
}

func toProductionRow(rec models.ProductionRecord) ProductionRow {
	return ProductionRow{
		WellID:       rec.WellKey(),
		WellString:   rec.WellString,
		Network:      rec.ProcessPlatform,
		Date:         rec.ProdDate,
		HrsFlown:     rec.HrsFlown,
		Flowing:      rec.HrsFlown > 0,
		OilMT:        rec.OilMT,
		GasKCM:       rec.GasKCM,
		CondensateMT: rec.CondensateMT,
		WaterBB6:     rec.WaterBB6,
		Density:      nullable(rec.Density),
		Mass:         nullable(rec.Mass),
		Temp:         nullable(rec.Temp),
		BSW:          nullable(rec.BSW),
	}
}

func nullable(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
