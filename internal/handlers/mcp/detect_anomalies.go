// internal/handlers/mcp/detect_anomalies.go
// MCP Tool: detect_anomalies - anomali z-score + korelasi antar network pada deret sintetis
package mcp

import (
	"context"
	"net/http"
	"time"

	"wellprod/internal/models"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

// DetectAnomaliesHandler runs the scan for one metric (default gas). Without
// a network selection every network takes part, so correlations cover all pairs.
func DetectAnomaliesHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseSeriesRequest(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	m, _ := req.params.metric(models.MetricGas)

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	d := current()
	if d.gen == nil {
		util.WriteError(w, util.Unavailable("series generator not configured"))
		return
	}
	sums, err := loadSummaries(ctx, d, req.params.Networks)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	if len(sums) == 0 {
		util.WriteError(w, util.NotFound("no delivery networks in dataset"))
		return
	}
	s, err := d.gen.Generate(services.GroupsFromSummaries(sums), req.start, req.end)
	if err != nil {
		util.WriteError(w, util.BadInput(err.Error()))
		return
	}
	writeJSON(w, services.Analyze(s, m, req.params.MinZ))
}
