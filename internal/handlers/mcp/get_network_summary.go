// internal/handlers/mcp/get_network_summary.go
// MCP Tools: get_network_summary, get_network_volumes, get_well_status
package mcp

import (
	"context"
	"net/http"
	"time"

	"wellprod/internal/models"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

// loadSummaries ambil agregasi lalu filter ke networks (kalau ada).
func loadSummaries(ctx context.Context, d deps, networks []string) ([]models.NetworkSummary, error) {
	if d.summaries == nil {
		return nil, util.Unavailable("network summary repo not configured")
	}
	sums, err := d.summaries.NetworkSummary(ctx)
	if err != nil {
		return nil, util.Internal("db error: " + err.Error())
	}
	if len(networks) == 0 {
		return sums, nil
	}
	out := services.FilterSummaries(sums, networks)
	if len(out) != len(uniq(networks)) {
		return nil, util.NotFound("unknown delivery network in selection")
	}
	return out, nil
}

func uniq(xs []string) []string {
	seen := map[string]bool{}
	out := xs[:0:0]
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	return out
}

// GetNetworkSummaryHandler: agregasi per network + total status sumur.
func GetNetworkSummaryHandler(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sums, err := loadSummaries(ctx, current(), p.Networks)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"count":    len(sums),
		"networks": sums,
		"totals":   services.WellStatusTotals(sums),
	})
}

// GetNetworkVolumesHandler: "Standard Volume by Delivery Network".
// Dengan metric: urut desc per metric. Tanpa metric: format long (melt).
func GetNetworkVolumesHandler(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sums, err := loadSummaries(ctx, current(), p.Networks)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	if p.Metric == "" || p.Metric == "all" {
		writeJSON(w, map[string]any{
			"volume_type": "all",
			"rows":        services.MeltVolumes(sums, p.IncludeWater),
		})
		return
	}
	m, err := p.metric(models.MetricGas)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	sorted := services.SortByVolume(sums, m)
	rows := make([]map[string]any, 0, len(sorted))
	for _, s := range sorted {
		rows = append(rows, map[string]any{"network": s.Network, "volume": s.Volumes().Get(m)})
	}
	writeJSON(w, map[string]any{
		"volume_type": m.Label(),
		"metric":      m,
		"rows":        rows,
	})
}

// GetWellStatusHandler: "Well Status Analysis".
func GetWellStatusHandler(w http.ResponseWriter, r *http.Request) {
	p, err := readParams(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	sums, err := loadSummaries(ctx, current(), p.Networks)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"totals":      services.WellStatusTotals(sums),
		"percentages": services.StatusPercentages(sums),
	})
}
