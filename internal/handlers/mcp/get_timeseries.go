// internal/handlers/mcp/get_timeseries.go
// MCP Tools: get_timeseries & export_timeseries (deret bulanan sintetis per network)
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"wellprod/internal/export"
	"wellprod/internal/models"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

const defaultSeriesNetworks = 3

type seriesRequest struct {
	params     toolParams
	start, end *time.Time
}

func parseSeriesRequest(r *http.Request) (seriesRequest, error) {
	p, err := readParams(r)
	if err != nil {
		return seriesRequest{}, err
	}
	start, end, err := p.dateRange()
	if err != nil {
		return seriesRequest{}, err
	}
	if _, err := p.metric(models.MetricGas); err != nil {
		return seriesRequest{}, err
	}
	return seriesRequest{params: p, start: start, end: end}, nil
}

// buildSeries: networks kosong -> 3 network pertama (urutan gas desc).
func buildSeries(ctx context.Context, d deps, req seriesRequest) (services.Series, error) {
	if d.gen == nil {
		return services.Series{}, util.Unavailable("series generator not configured")
	}
	sums, err := loadSummaries(ctx, d, req.params.Networks)
	if err != nil {
		return services.Series{}, err
	}
	if len(req.params.Networks) == 0 {
		names := make([]string, len(sums))
		for i, s := range sums {
			names[i] = s.Network
		}
		sums = services.FilterSummaries(sums, services.DefaultSelection(names, defaultSeriesNetworks))
	}
	if len(sums) == 0 {
		return services.Series{}, util.NotFound("no delivery networks in dataset")
	}

	s, err := d.gen.Generate(services.GroupsFromSummaries(sums), req.start, req.end)
	if errors.Is(err, services.ErrInvalidInput) {
		return services.Series{}, util.BadInput(err.Error())
	}
	return s, err
}

type seriesPoint struct {
	Month    string  `json:"month"`
	MonthNum int     `json:"month_num"`
	Date     string  `json:"date"`
	Network  string  `json:"network"`
	Value    float64 `json:"value"`
}

// GetTimeseriesHandler returns the full nested series, or one long column
// per network when a metric is given.
func GetTimeseriesHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseSeriesRequest(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := buildSeries(ctx, current(), req)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	if req.params.Metric == "" {
		writeJSON(w, map[string]any{
			"groups":  s.Groups,
			"count":   len(s.Records),
			"records": s.Records,
		})
		return
	}
	m, _ := req.params.metric(models.MetricGas)
	points := make([]seriesPoint, 0, len(s.Records)*len(s.Groups))
	for _, rec := range s.Records {
		for _, g := range s.Groups {
			points = append(points, seriesPoint{
				Month:    rec.Month,
				MonthNum: rec.MonthNum,
				Date:     rec.Date.Format("2006-01-02"),
				Network:  g,
				Value:    rec.Values[g][m],
			})
		}
	}
	writeJSON(w, map[string]any{
		"groups": s.Groups,
		"metric": m,
		"label":  m.Label(),
		"count":  len(points),
		"points": points,
	})
}

// ExportTimeseriesHandler streams the series as a CSV/XLSX download.
func ExportTimeseriesHandler(w http.ResponseWriter, r *http.Request) {
	req, err := parseSeriesRequest(r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	format, err := export.ParseFormat(req.params.Format)
	if err != nil {
		util.WriteError(w, util.BadInput(err.Error()))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	s, err := buildSeries(ctx, current(), req)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(s, req.start, req.end, format)+`"`)
	if err := export.Write(w, s, format); err != nil {
		// header sudah terkirim, cukup dicatat
		log.Error().Err(err).Str("format", string(format)).Msg("export timeseries")
	}
}
