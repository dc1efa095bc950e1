// internal/handlers/http/deps.go
package http

import (
	"context"
	"sync"

	"wellprod/internal/middleware"
	"wellprod/internal/models"
)

// Pinger dipakai /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// IngestStore menulis hasil upload ke tabel production.
type IngestStore interface {
	ReplaceAll(ctx context.Context, recs []models.ProductionRecord) (int, error)
	Append(ctx context.Context, recs []models.ProductionRecord) (int, error)
}

// Invalidator dipanggil setelah ingest supaya cache summary segar.
type Invalidator interface {
	Invalidate()
}

type AdminConfig struct {
	User      string
	PassHash  string // bcrypt
	JWTSecret string
	UploadDir string
}

var (
	depsMu   sync.RWMutex
	pinger   Pinger
	ingestor IngestStore
	invalid  Invalidator
	adminCfg = AdminConfig{UploadDir: "uploads"}
	reqCount *middleware.Counter
	appName  = "wellprod"
)

func SetPinger(p Pinger) {
	depsMu.Lock()
	defer depsMu.Unlock()
	pinger = p
}

func SetIngestStore(s IngestStore, inv Invalidator) {
	depsMu.Lock()
	defer depsMu.Unlock()
	ingestor = s
	invalid = inv
}

func SetAdminConfig(c AdminConfig) {
	depsMu.Lock()
	defer depsMu.Unlock()
	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	adminCfg = c
}

func SetRequestCounter(c *middleware.Counter) {
	depsMu.Lock()
	defer depsMu.Unlock()
	reqCount = c
}

func SetAppName(name string) {
	depsMu.Lock()
	defer depsMu.Unlock()
	appName = name
}
