// internal/handlers/mcp/charts.go
// GET /api/charts/{kind}: render PNG dari data yang sama dengan tool JSON.
package mcp

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"wellprod/internal/charts"
	"wellprod/internal/models"
	"wellprod/internal/util"
)

func ChartHandler(w http.ResponseWriter, r *http.Request) {
	kind, err := charts.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		util.WriteError(w, util.NotFound(err.Error()))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := BuildChart(ctx, kind, r)
	if err != nil {
		if errors.Is(err, charts.ErrNoData) {
			err = util.NotFound(err.Error())
		}
		util.WriteError(w, err)
		return
	}

	width := sizeParam(r, "width", charts.DefaultWidth)
	height := sizeParam(r, "height", charts.DefaultHeight)

	// render ke buffer dulu supaya error masih bisa dikirim sebagai JSON
	var buf bytes.Buffer
	if err := charts.WritePNG(&buf, p, width, height); err != nil {
		util.WriteError(w, util.Internal(err.Error()))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// BuildChart resolves the chart data with the same params as the JSON tools.
func BuildChart(ctx context.Context, kind charts.Kind, r *http.Request) (*plot.Plot, error) {
	d := current()
	switch kind {
	case charts.KindVolumes, charts.KindWellStatus:
		p, err := readParams(r)
		if err != nil {
			return nil, err
		}
		sums, err := loadSummaries(ctx, d, p.Networks)
		if err != nil {
			return nil, err
		}
		if kind == charts.KindWellStatus {
			return charts.WellStatusBars(sums)
		}
		m, err := p.metric(models.MetricGas)
		if err != nil {
			return nil, err
		}
		return charts.VolumeBars(sums, m)

	case charts.KindTimeseries:
		req, err := parseSeriesRequest(r)
		if err != nil {
			return nil, err
		}
		s, err := buildSeries(ctx, d, req)
		if err != nil {
			return nil, err
		}
		m, _ := req.params.metric(models.MetricGas)
		return charts.SeriesLines(s, m)

	case charts.KindHeatmap:
		p, err := readParams(r)
		if err != nil {
			return nil, err
		}
		h, err := buildHeatmap(ctx, d, p)
		if err != nil {
			return nil, err
		}
		return charts.WellHeatmap(h)
	}
	return nil, util.NotFound("unknown chart " + string(kind))
}

// sizeParam reads a size in inches (?width=12), bounded to 2..30.
func sizeParam(r *http.Request, key string, def vg.Length) vg.Length {
	v, err := strconv.ParseFloat(r.URL.Query().Get(key), 64)
	if err != nil || v < 2 || v > 30 {
		return def
	}
	return vg.Length(v) * vg.Inch
}
