// internal/app/routes.go
package app

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	hh "wellprod/internal/handlers/http"
	mcphandlers "wellprod/internal/handlers/mcp"
	"wellprod/internal/mcp"
	"wellprod/internal/middleware"
)

const apiTimeout = 30 * time.Second

type RouteOptions struct {
	APIKey    string // kosong = /api tanpa auth
	JWTSecret string
}

// toolRoutes: satu handler, dua pintu (MCP tool & /api path).
var toolRoutes = []struct {
	tool string
	path string
	h    http.HandlerFunc
}{
	{"get_network_summary", "/networks", mcphandlers.GetNetworkSummaryHandler},
	{"get_network_volumes", "/networks/volumes", mcphandlers.GetNetworkVolumesHandler},
	{"get_well_status", "/wells/status", mcphandlers.GetWellStatusHandler},
	{"get_timeseries", "/timeseries", mcphandlers.GetTimeseriesHandler},
	{"export_timeseries", "/timeseries/export", mcphandlers.ExportTimeseriesHandler},
	{"detect_anomalies", "/timeseries/anomalies", mcphandlers.DetectAnomaliesHandler},
	{"get_well_heatmap", "/wells/heatmap", mcphandlers.GetWellHeatmapHandler},
	{"get_measurement_radar", "/radar", mcphandlers.GetMeasurementRadarHandler},
	{"get_well_map", "/wells/map", mcphandlers.GetWellMapHandler},
	{"get_production", "/production", mcphandlers.GetProductionHandler},
}

// RegisterRoutes menambahkan route infra, /api, /mcp dan /admin.
func RegisterRoutes(r *mux.Router, o RouteOptions) {
	// --- no prefix ---
	r.HandleFunc("/healthz", hh.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/readyz", hh.ReadyHandler).Methods(http.MethodGet)
	r.HandleFunc("/metrics", hh.MetricsHandler).Methods(http.MethodGet)
	r.HandleFunc("/debug/repos", hh.ReposStatusHandler).Methods(http.MethodGet)
	r.HandleFunc("/login", hh.LoginHandler).Methods(http.MethodPost, http.MethodOptions)

	// --- /api (dashboard) ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(o.APIKey), chimw.Timeout(apiTimeout))
	for _, t := range toolRoutes {
		api.HandleFunc(t.path, t.h).Methods(http.MethodGet, http.MethodPost)
	}
	api.HandleFunc("/charts/{kind}", mcphandlers.ChartHandler).Methods(http.MethodGet, http.MethodPost)
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(hh.PreflightHandler)

	// --- MCP ---
	m := r.PathPrefix("/mcp").Subrouter()
	m.Use(middleware.Auth(o.APIKey))
	m.HandleFunc("/route", mcp.RouterHandler).Methods(http.MethodPost)
	m.HandleFunc("/tools", mcp.ToolsHandler).Methods(http.MethodGet)

	// --- Admin (JWT) ---
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminJWTAuth(o.JWTSecret))
	admin.HandleFunc("/uploads", hh.AdminListUploads).Methods(http.MethodGet)
	admin.HandleFunc("/uploads", hh.AdminUploadWorkbook).Methods(http.MethodPost)
}

// registerMCPTools mendaftarkan semua tool ke registry MCP.
func registerMCPTools() {
	for _, t := range toolRoutes {
		mcp.RegisterFunc(t.tool, t.h)
	}
}
