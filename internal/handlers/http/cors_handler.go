// internal/handlers/http/cors_handler.go
package http

import "net/http"

// PreflightHandler: OPTIONS di /api yang bukan preflight CORS (tanpa
// Access-Control-Request-Method) dijawab 204, bukan 405.
func PreflightHandler(w http.ResponseWriter, r *http.Request) {
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		w.Header().Set("Allow", "GET, POST, OPTIONS")
	}
	w.WriteHeader(http.StatusNoContent)
}
