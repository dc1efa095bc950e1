// internal/handlers/mcp/deps.go
package mcp

import (
	"context"
	"sync"

	"wellprod/internal/models"
	"wellprod/internal/repositories/sqldb"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

// SummaryStore memberi agregasi per delivery network.
type SummaryStore interface {
	NetworkSummary(ctx context.Context) ([]models.NetworkSummary, error)
}

// WellStore memberi data per sumur.
type WellStore interface {
	ListWells(ctx context.Context, f sqldb.WellFilter) ([]models.ProductionRecord, error)
	AllWells(ctx context.Context) ([]models.ProductionRecord, error)
	MeasurementPoints(ctx context.Context) ([]string, error)
}

// ===== DI, diset dari app =====
var (
	depsMu      sync.RWMutex
	summaryRepo SummaryStore
	wellRepo    WellStore
	generator   *services.SeriesGenerator
	clock       util.Clock = util.RealClock{}
	simSeed     int64      = services.DefaultSimSeed
)

// Flag readiness per domain; diset dari Set*(..) masing-masing.
var (
	readySummary bool
	readyWells   bool
	readySeries  bool
)

func SetSummaryRepo(r SummaryStore) {
	depsMu.Lock()
	defer depsMu.Unlock()
	summaryRepo = r
	readySummary = r != nil
}

func SetWellRepo(r WellStore) {
	depsMu.Lock()
	defer depsMu.Unlock()
	wellRepo = r
	readyWells = r != nil
}

func SetSeriesGenerator(g *services.SeriesGenerator) {
	depsMu.Lock()
	defer depsMu.Unlock()
	generator = g
	readySeries = g != nil
}

// SetClock dipakai simulasi heatmap (tanggal month-end).
func SetClock(c util.Clock) {
	depsMu.Lock()
	defer depsMu.Unlock()
	if c == nil {
		c = util.RealClock{}
	}
	clock = c
}

func SetSimSeed(seed int64) {
	depsMu.Lock()
	defer depsMu.Unlock()
	simSeed = seed
}

type deps struct {
	summaries SummaryStore
	wells     WellStore
	gen       *services.SeriesGenerator
	clock     util.Clock
	seed      int64
}

func current() deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps{summaries: summaryRepo, wells: wellRepo, gen: generator, clock: clock, seed: simSeed}
}

// ReposStatus mengembalikan status siap/tidaknya setiap dependency.
func ReposStatus() map[string]bool {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return map[string]bool{
		"network_summary": readySummary,
		"wells":           readyWells,
		"series":          readySeries,
	}
}
