package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellprod/internal/models"
	"wellprod/internal/repositories/sqldb"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

var testNow = time.Date(2026, time.October, 19, 14, 30, 0, 0, time.UTC)

type fakeSummary struct {
	sums []models.NetworkSummary
	err  error
}

func (f fakeSummary) NetworkSummary(context.Context) ([]models.NetworkSummary, error) {
	return f.sums, f.err
}

type fakeWells struct{ recs []models.ProductionRecord }

func (f fakeWells) ListWells(_ context.Context, flt sqldb.WellFilter) ([]models.ProductionRecord, error) {
	var out []models.ProductionRecord
	for _, r := range f.recs {
		if flt.Network != "" && r.ProcessPlatform != flt.Network {
			continue
		}
		if flt.WellID != "" && !strings.Contains(r.WellID, flt.WellID) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f fakeWells) AllWells(context.Context) ([]models.ProductionRecord, error) { return f.recs, nil }

func (f fakeWells) MeasurementPoints(context.Context) ([]string, error) {
	return []string{"CTF-A", "CTF-B", "CTF-C"}, nil
}

func setup(t *testing.T) {
	t.Helper()
	SetSummaryRepo(fakeSummary{sums: []models.NetworkSummary{
		{Network: "CTF-B", GasKCM: 500, OilMT: 1, CondensateMT: 0, WaterBB6: 10, FlowingWells: 1, NonFlowingWells: 3, TotalWells: 4},
		{Network: "CTF-A", GasKCM: 150, OilMT: 30, CondensateMT: 3, WaterBB6: 10, FlowingWells: 2, NonFlowingWells: 1, TotalWells: 3},
		{Network: "CTF-C", GasKCM: 10, OilMT: 900, CondensateMT: 0, WaterBB6: 0, FlowingWells: 0, NonFlowingWells: 0, TotalWells: 0},
		{Network: "CTF-D", GasKCM: 5, OilMT: 5, CondensateMT: 5, WaterBB6: 5, FlowingWells: 1, NonFlowingWells: 0, TotalWells: 1},
	}})
	SetWellRepo(fakeWells{recs: []models.ProductionRecord{
		{WellID: "W-1", ProcessPlatform: "CTF-A", HrsFlown: 24, OilMT: 100},
		{WellID: "W-2", ProcessPlatform: "CTF-B", HrsFlown: 0, OilMT: 50},
	}})
	clk := util.FixedClock{T: testNow}
	SetSeriesGenerator(services.NewSeriesGenerator(services.WithSeed(7), services.WithClock(clk)))
	SetClock(clk)
	SetSimSeed(services.DefaultSimSeed)
	t.Cleanup(func() {
		SetSummaryRepo(nil)
		SetWellRepo(nil)
		SetSeriesGenerator(nil)
	})
}

func do(t *testing.T, h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNetworkSummary(t *testing.T) {
	setup(t)
	rec := do(t, GetNetworkSummaryHandler, http.MethodGet, "/api/networks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.EqualValues(t, 4, out["count"])
	totals := out["totals"].(map[string]any)
	assert.EqualValues(t, 4, totals["flowing_wells"])
	assert.EqualValues(t, 8, totals["total_wells"])

	rec = do(t, GetNetworkSummaryHandler, http.MethodGet, "/api/networks?networks=CTF-A,CTF-X", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNetworkSummaryUnavailable(t *testing.T) {
	SetSummaryRepo(nil)
	rec := do(t, GetNetworkSummaryHandler, http.MethodGet, "/api/networks", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unavailable", decode(t, rec)["error"])
}

func TestNetworkSummaryStoreError(t *testing.T) {
	SetSummaryRepo(fakeSummary{err: errors.New("boom")})
	t.Cleanup(func() { SetSummaryRepo(nil) })
	rec := do(t, GetNetworkSummaryHandler, http.MethodGet, "/api/networks", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNetworkVolumes(t *testing.T) {
	setup(t)
	rec := do(t, GetNetworkVolumesHandler, http.MethodGet, "/api/networks/volumes?metric=oil", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode(t, rec)["rows"].([]any)
	require.Len(t, rows, 4)
	assert.Equal(t, "CTF-C", rows[0].(map[string]any)["network"])

	rec = do(t, GetNetworkVolumesHandler, http.MethodGet, "/api/networks/volumes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["rows"], 12)

	rec = do(t, GetNetworkVolumesHandler, http.MethodGet, "/api/networks/volumes?include_water=true", nil)
	assert.Len(t, decode(t, rec)["rows"], 16)

	rec = do(t, GetNetworkVolumesHandler, http.MethodGet, "/api/networks/volumes?metric=helium", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWellStatus(t *testing.T) {
	setup(t)
	rec := do(t, GetWellStatusHandler, http.MethodGet, "/api/wells/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pct := decode(t, rec)["percentages"].([]any)
	require.Len(t, pct, 4)
	first := pct[0].(map[string]any)
	assert.Equal(t, "CTF-D", first["network"])
	assert.EqualValues(t, 100, first["flowing_pct"])
}

func TestTimeseries(t *testing.T) {
	setup(t)
	rec := do(t, GetTimeseriesHandler, http.MethodGet, "/api/timeseries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, []any{"CTF-B", "CTF-A", "CTF-C"}, out["groups"])
	assert.EqualValues(t, 25, out["count"])

	rec = do(t, GetTimeseriesHandler, http.MethodPost, "/api/timeseries", map[string]any{
		"networks": []string{"CTF-A"}, "metric": "gas", "start": "2026-08-01", "end": "2026-10-31",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode(t, rec)
	points := out["points"].([]any)
	require.Len(t, points, 3)
	p0 := points[0].(map[string]any)
	assert.Equal(t, "Aug 2026", p0["month"])
	assert.Equal(t, "2026-08-01", p0["date"])
	v := p0["value"].(float64)
	assert.GreaterOrEqual(t, v, 150*0.8*0.85)
	assert.LessOrEqual(t, v, 150*1.2*1.15)
}

func TestTimeseriesBadInput(t *testing.T) {
	setup(t)
	cases := []string{
		"/api/timeseries?start=2026-05-01&end=2026-04-01",
		"/api/timeseries?start=yesterday",
		"/api/timeseries?metric=helium",
	}
	for _, target := range cases {
		rec := do(t, GetTimeseriesHandler, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}

	rec := do(t, GetTimeseriesHandler, http.MethodPost, "/api/timeseries", "not-an-object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeseriesRangeUsesCalendarDates(t *testing.T) {
	setup(t)
	// sebagai instant end lebih awal dari start, tapi tanggal kalendernya tidak
	rec := do(t, GetTimeseriesHandler, http.MethodPost, "/api/timeseries", map[string]any{
		"networks": []string{"CTF-A"}, "metric": "gas",
		"start": "2026-08-01T23:00:00-05:00", "end": "2026-10-01T01:00:00+09:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	points := decode(t, rec)["points"].([]any)
	require.Len(t, points, 3)
	assert.Equal(t, "2026-08-01", points[0].(map[string]any)["date"])
	assert.Equal(t, "2026-10-01", points[2].(map[string]any)["date"])

	rec = do(t, GetTimeseriesHandler, http.MethodPost, "/api/timeseries", map[string]any{
		"start": "2026-08-02T01:00:00+09:00", "end": "2026-08-01T23:00:00-05:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeseriesNoGenerator(t *testing.T) {
	setup(t)
	SetSeriesGenerator(nil)
	rec := do(t, GetTimeseriesHandler, http.MethodGet, "/api/timeseries", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExportTimeseries(t *testing.T) {
	setup(t)
	rec := do(t, ExportTimeseriesHandler, http.MethodGet, "/api/timeseries/export?networks=CTF-A&start=2026-01-01&end=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "production_data_20260101_20260331.csv")
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "month,month_num,date,CTF-A_gas,CTF-A_oil,CTF-A_condensate,CTF-A_water", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Jan 2026,15,2026-01-01,"))

	rec = do(t, ExportTimeseriesHandler, http.MethodGet, "/api/timeseries/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = do(t, ExportTimeseriesHandler, http.MethodGet, "/api/timeseries/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectAnomalies(t *testing.T) {
	setup(t)
	rec := do(t, DetectAnomaliesHandler, http.MethodPost, "/api/timeseries/anomalies", map[string]any{"metric": "oil", "min_z": 1.5})
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "oil", out["metric"])
	assert.EqualValues(t, 1.5, out["min_zscore"])
	// 4 network -> 6 pasangan, dibatasi 5
	assert.Len(t, out["top_correlations"], 5)
}

func TestWellHeatmapHandler(t *testing.T) {
	setup(t)
	rec := do(t, GetWellHeatmapHandler, http.MethodGet, "/api/wells/heatmap", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, []any{"W-1", "W-2"}, out["wells"])
	assert.Len(t, out["months"], 12)
	assert.Len(t, out["cells"], 24)

	rec = do(t, GetWellHeatmapHandler, http.MethodGet, "/api/wells/heatmap?network=CTF-B", nil)
	assert.Equal(t, []any{"W-2"}, decode(t, rec)["wells"])
}

func TestRadarHandler(t *testing.T) {
	setup(t)
	rec := do(t, GetMeasurementRadarHandler, http.MethodGet, "/api/radar", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profiles := decode(t, rec)["profiles"].([]any)
	require.Len(t, profiles, 2)
	assert.Equal(t, "CTF-A", profiles[0].(map[string]any)["point"])

	rec = do(t, GetMeasurementRadarHandler, http.MethodGet, "/api/radar?points=CTF-Z", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWellMapHandler(t *testing.T) {
	setup(t)
	rec := do(t, GetWellMapHandler, http.MethodGet, "/api/wells/map", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["wells"], 20)

	a := do(t, GetWellMapHandler, http.MethodGet, "/api/wells/map?wells=5", nil)
	b := do(t, GetWellMapHandler, http.MethodGet, "/api/wells/map?wells=5", nil)
	assert.Equal(t, a.Body.String(), b.Body.String())

	rec = do(t, GetWellMapHandler, http.MethodGet, "/api/wells/map?wells=100000", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductionHandler(t *testing.T) {
	setup(t)
	rec := do(t, GetProductionHandler, http.MethodGet, "/api/production?network=CTF-A", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.EqualValues(t, 1, out["count"])
	row := out["rows"].([]any)[0].(map[string]any)
	assert.Equal(t, "W-1", row["well_id"])
	assert.Equal(t, true, row["flowing"])
	assert.NotContains(t, row, "density")

	rec = do(t, GetProductionHandler, http.MethodGet, "/api/production?well=W-2", nil)
	assert.EqualValues(t, 1, decode(t, rec)["count"])
}

func TestChartHandler(t *testing.T) {
	setup(t)
	r := mux.NewRouter()
	r.HandleFunc("/api/charts/{kind}", ChartHandler)

	for _, kind := range []string{"volumes", "timeseries", "heatmap", "well-status"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts/"+kind, nil))
		require.Equal(t, http.StatusOK, rec.Code, kind)
		assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")), kind)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/charts/pie", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReposStatus(t *testing.T) {
	setup(t)
	assert.Equal(t, map[string]bool{"network_summary": true, "wells": true, "series": true}, ReposStatus())
}
