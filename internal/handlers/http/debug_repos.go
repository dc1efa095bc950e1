// internal/handlers/http/debug_repos.go
package http

import (
	"encoding/json"
	"net/http"

	mcphandlers "wellprod/internal/handlers/mcp"
	"wellprod/internal/mcp"
)

// ReposStatusHandler: dependency mana yang sudah di-inject + tool yang terdaftar.
func ReposStatusHandler(w http.ResponseWriter, r *http.Request) {
	depsMu.RLock()
	resp := map[string]any{
		"repos":    mcphandlers.ReposStatus(),
		"pinger":   pinger != nil,
		"ingest":   ingestor != nil,
		"tools":    mcp.List(),
		"catalog":  mcp.VerifyCatalog() == nil,
		"app_name": appName,
	}
	depsMu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
