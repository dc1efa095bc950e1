// internal/app/routes_test.go

package app_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apppkg "wellprod/internal/app"
	"wellprod/internal/config"
	"wellprod/internal/mcp"
	"wellprod/internal/models"
	"wellprod/internal/repositories/sqldb"
)

const apiKey = "test-key"

func newApp(t *testing.T) http.Handler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{AppName: "wellprod-test", AppPort: "0"}
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = filepath.Join(t.TempDir(), "prod.db")
	cfg.Series.SpanMonths = 6
	cfg.Series.Seed = 11
	cfg.Sim.Seed = 42
	cfg.Admin.APIKey = apiKey
	cfg.Admin.User = "admin"
	cfg.Admin.PassHash = string(hash)
	cfg.Admin.JWTSecret = "jwt-secret"
	cfg.Admin.UploadDir = t.TempDir()

	ctx := context.Background()
	a, err := apppkg.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	seed(t, a.DB)
	return a.Handler()
}

func seed(t *testing.T, conn *sql.DB) {
	t.Helper()
	recs := []models.ProductionRecord{
		{WellID: "W-1", ProcessPlatform: "CTF-A", ProdDate: "2026-09-01", HrsFlown: 24, OilMT: 10, GasKCM: 100, CondensateMT: 1, WaterBB6: 5},
		{WellID: "W-2", ProcessPlatform: "CTF-A", ProdDate: "2026-09-01", HrsFlown: 0, OilMT: 0, GasKCM: 0},
		{WellID: "W-3", ProcessPlatform: "CTF-B", ProdDate: "2026-09-01", HrsFlown: 12, OilMT: 4, GasKCM: 300, CondensateMT: 2, WaterBB6: 1},
	}
	_, err := (&sqldb.IngestRepo{DB: conn, Dialect: sqldb.DialectSQLite}).ReplaceAll(context.Background(), recs)
	require.NoError(t, err)
}

func serve(h http.Handler, method, target string, body []byte, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutesHealthy(t *testing.T) {
	h := newApp(t)
	for _, p := range []string{"/healthz", "/readyz", "/metrics", "/debug/repos"} {
		rec := serve(h, http.MethodGet, p, nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"), p)
	}
}

func TestAPIRequiresKey(t *testing.T) {
	h := newApp(t)
	rec := serve(h, http.MethodGet, "/api/networks", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodGet, "/api/networks", nil, map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "CTF-B")
	assert.Contains(t, rec.Body.String(), "CTF-A")
}

func TestAdminRoutesProtected(t *testing.T) {
	h := newApp(t)
	rec := serve(h, http.MethodGet, "/admin/uploads", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodGet, "/admin/uploads", nil, map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h, http.MethodPost, "/login", []byte(`{"username":"admin","password":"pw"}`), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = serve(h, http.MethodGet, "/admin/uploads", nil, map[string]string{"Authorization": "Bearer " + login.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"uploads"`)
}

func TestEveryCatalogToolRegistered(t *testing.T) {
	h := newApp(t)
	assert.NoError(t, mcp.VerifyCatalog())

	rec := serve(h, http.MethodGet, "/mcp/tools", nil, map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Tools []mcp.ToolDef `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Len(t, out.Tools, 10)
}

func TestMCPRouteExecutesRegisteredTool(t *testing.T) {
	h := newApp(t)
	rec := serve(h, http.MethodPost, "/mcp/route", []byte(`{"tool":"get_well_status"}`), map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "get_well_status", rec.Header().Get("X-MCP-Tool"))
	assert.Contains(t, rec.Body.String(), "flowing")

	rec = serve(h, http.MethodPost, "/mcp/route", []byte(`{"params":{"question":"monthly trend please","metric":"oil"}}`), map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "get_timeseries", rec.Header().Get("X-MCP-Tool"))
	assert.Equal(t, mcp.DecisionKeyword, rec.Header().Get("X-MCP-Decision"))
}

func TestChartRoute(t *testing.T) {
	h := newApp(t)
	rec := serve(h, http.MethodGet, "/api/charts/volumes?metric=gas", nil, map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestCORSPreflight(t *testing.T) {
	h := newApp(t)
	rec := serve(h, http.MethodOptions, "/api/networks", nil, map[string]string{
		"Origin":                        "http://dashboard.test",
		"Access-Control-Request-Method": http.MethodGet,
	})
	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	h := newApp(t)
	rec := serve(h, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/metrics", nil, nil)
	assert.Contains(t, rec.Body.String(), `http_requests_total{class="4xx"} 1`)
}
