// internal/handlers/mcp/wells.go
// MCP Tools: get_well_heatmap, get_measurement_radar, get_well_map
package mcp

import (
	"context"
	"net/http"
	"time"

	"wellprod/internal/services"
	"wellprod/internal/util"
)

const (
	defaultMapWells = 20
	maxMapWells     = 500
	defaultRadarPts = 2
)

func GetWellHeatmapHandler(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	h, err := buildHeatmap(ctx, current(), p)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"wells":  h.Wells,
		"months": h.Months,
		"z":      h.Z,
		"cells":  h.Cells(),
	})
}

// buildHeatmap: opsional filter satu network.
func buildHeatmap(ctx context.Context, d deps, p toolParams) (services.Heatmap, error) {
	if d.wells == nil {
		return services.Heatmap{}, util.Unavailable("well repo not configured")
	}
	recs, err := d.wells.AllWells(ctx)
	if err != nil {
		return services.Heatmap{}, util.Internal("db error: " + err.Error())
	}
	if p.Network != "" {
		kept := recs[:0:0]
		for _, rec := range recs {
			if rec.ProcessPlatform == p.Network {
				kept = append(kept, rec)
			}
		}
		recs = kept
	}
	return services.WellHeatmap(recs, d.clock.Now(), d.seed), nil
}

// GetMeasurementRadarHandler: tanpa points -> 2 measurement point pertama.
func GetMeasurementRadarHandler(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	d := current()
	if d.wells == nil {
		util.WriteError(w, util.Unavailable("well repo not configured"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	all, err := d.wells.MeasurementPoints(ctx)
	if err != nil {
		util.WriteError(w, util.Internal("db error: "+err.Error()))
		return
	}
	points := p.Points
	if len(points) == 0 {
		points = services.DefaultSelection(all, defaultRadarPts)
	}
	if len(points) == 0 {
		util.WriteError(w, util.BadInput("select at least one measurement point"))
		return
	}
	known := map[string]bool{}
	for _, pt := range all {
		known[pt] = true
	}
	for _, pt := range points {
		if !known[pt] {
			util.WriteError(w, util.NotFound("unknown measurement point: "+pt))
			return
		}
	}

	recs, err := d.wells.AllWells(ctx)
	if err != nil {
		util.WriteError(w, util.Internal("db error: "+err.Error()))
		return
	}
	writeJSON(w, map[string]any{
		"available": all,
		"profiles":  services.RadarProfiles(recs, points, d.seed),
	})
}

// GetWellMapHandler: peta status sumur (mock, seeded).
func GetWellMapHandler(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	n := p.Wells
	if n <= 0 {
		n = defaultMapWells
	}
	if n > maxMapWells {
		util.WriteError(w, util.BadInput("wells must be <= 500"))
		return
	}
	m := services.MockWellMap(n, current().seed)
	writeJSON(w, map[string]any{
		"wells":  m.Wells,
		"dots":   m.Dots,
		"colors": services.StatusColors,
	})
}
