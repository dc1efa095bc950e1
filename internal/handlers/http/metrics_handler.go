// internal/handlers/http/metrics_handler.go
// Handler untuk metrics Prometheus format sederhana

package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

func MetricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP app_up 1 if the app is up\n# TYPE app_up gauge\napp_up 1\n")

	depsMu.RLock()
	c := reqCount
	depsMu.RUnlock()
	if c != nil {
		s := c.Snapshot()
		fmt.Fprintf(w, "# HELP http_requests_total Requests served\n# TYPE http_requests_total counter\n")
		fmt.Fprintf(w, "http_requests_total{class=\"all\"} %d\n", s.Total)
		fmt.Fprintf(w, "http_requests_total{class=\"4xx\"} %d\n", s.ClientError)
		fmt.Fprintf(w, "http_requests_total{class=\"5xx\"} %d\n", s.ServerError)
	}

	// host metrics; dilewati kalau platform tidak didukung
	if pct, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(pct) > 0 {
		fmt.Fprintf(w, "# HELP host_cpu_percent Host CPU usage\n# TYPE host_cpu_percent gauge\nhost_cpu_percent %.2f\n", pct[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fmt.Fprintf(w, "# HELP host_memory_used_percent Host memory usage\n# TYPE host_memory_used_percent gauge\nhost_memory_used_percent %.2f\n", vm.UsedPercent)
	}
}
