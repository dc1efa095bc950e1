// internal/handlers/http/health_handler.go
// Handler health (liveness) & readiness

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	mcphandlers "wellprod/internal/handlers/mcp"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	depsMu.RLock()
	name := appName
	depsMu.RUnlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "app": name})
}

// ReadyHandler: 503 kalau DB belum bisa di-ping.
func ReadyHandler(w http.ResponseWriter, r *http.Request) {
	depsMu.RLock()
	p := pinger
	depsMu.RUnlock()

	resp := map[string]any{"repos": mcphandlers.ReposStatus()}
	status := http.StatusOK
	switch {
	case p == nil:
		status = http.StatusServiceUnavailable
		resp["db"] = "not configured"
	default:
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			resp["db"] = err.Error()
		} else {
			resp["db"] = "ok"
		}
	}
	resp["ready"] = status == http.StatusOK

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
