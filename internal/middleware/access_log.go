// internal/middleware/access_log.go
package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Counter dibaca oleh /metrics.
type Counter struct {
	total       atomic.Uint64
	clientError atomic.Uint64
	serverError atomic.Uint64
}

type CounterSnapshot struct {
	Total       uint64
	ClientError uint64
	ServerError uint64
}

func (c *Counter) observe(status int) {
	c.total.Add(1)
	switch {
	case status >= 500:
		c.serverError.Add(1)
	case status >= 400:
		c.clientError.Add(1)
	}
}

func (c *Counter) Snapshot() CounterSnapshot {
	return CounterSnapshot{
		Total:       c.total.Load(),
		ClientError: c.clientError.Load(),
		ServerError: c.serverError.Load(),
	}
}

// AccessLog mencatat satu baris per request dan menghitung status.
func AccessLog(log zerolog.Logger, c *Counter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if c != nil {
				c.observe(status)
			}

			ev := log.Info()
			if status >= 500 {
				ev = log.Error()
			} else if status >= 400 {
				ev = log.Warn()
			}
			ev.Str("request_id", r.Header.Get(RequestIDHeader)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
