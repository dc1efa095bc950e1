// internal/app/app.go
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"wellprod/internal/config"
	hh "wellprod/internal/handlers/http"
	mcphandlers "wellprod/internal/handlers/mcp"
	"wellprod/internal/mcp"
	"wellprod/internal/mcp/llm"
	"wellprod/internal/middleware"
	"wellprod/internal/repositories/sqldb"
	"wellprod/internal/services"
	"wellprod/internal/util"
	"wellprod/pkg/db"
)

// App menampung router utama beserta dependency yang sudah di-inject.
type App struct {
	Router    *mux.Router
	Config    *config.Config
	DB        *sql.DB
	Summaries *sqldb.CachedSummary
	Generator *services.SeriesGenerator
	Counter   *middleware.Counter

	log zerolog.Logger
}

// Open membuka DB sesuai config lalu merakit App.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	conn, err := db.Open(ctx, DBOptions(cfg))
	if err != nil {
		return nil, err
	}
	a, err := New(ctx, cfg, conn, log)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return a, nil
}

func DBOptions(cfg *config.Config) db.Options {
	return db.Options{
		Driver:   cfg.DB.Driver,
		DSN:      cfg.DB.DSN,
		Path:     cfg.DB.Path,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Name:     cfg.DB.Name,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		MaxOpen:  cfg.DB.MaxOpen,
		MaxIdle:  cfg.DB.MaxIdle,
	}
}

// NewGenerator: generator deret sintetis dari SERIES_*.
func NewGenerator(cfg *config.Config, opts ...services.SeriesOption) *services.SeriesGenerator {
	base := []services.SeriesOption{
		services.WithSeed(cfg.Series.Seed),
		services.WithSpanMonths(cfg.Series.SpanMonths),
		services.WithStep(services.ParseStepMode(cfg.Series.Step)),
	}
	return services.NewSeriesGenerator(append(base, opts...)...)
}

// New migrasi schema, inject repo ke handler, lalu registrasi routes & tools.
func New(ctx context.Context, cfg *config.Config, conn *sql.DB, log zerolog.Logger) (*App, error) {
	dialect := sqldb.Dialect(cfg.DB.Driver)
	if err := sqldb.Migrate(ctx, conn, dialect); err != nil {
		return nil, err
	}

	prod := &sqldb.ProductionRepo{DB: conn}
	cached := sqldb.NewCachedSummary(prod, cfg.DB.CacheTTL)
	gen := NewGenerator(cfg)

	// === Inject repos ke handler MCP ===
	mcphandlers.SetSummaryRepo(cached)
	mcphandlers.SetWellRepo(prod)
	mcphandlers.SetSeriesGenerator(gen)
	mcphandlers.SetClock(util.RealClock{})
	mcphandlers.SetSimSeed(cfg.Sim.Seed)

	counter := &middleware.Counter{}
	hh.SetAppName(cfg.AppName)
	hh.SetPinger(prod)
	hh.SetIngestStore(&sqldb.IngestRepo{DB: conn, Dialect: dialect}, cached)
	hh.SetRequestCounter(counter)
	hh.SetAdminConfig(hh.AdminConfig{
		User:      cfg.Admin.User,
		PassHash:  cfg.Admin.PassHash,
		JWTSecret: cfg.Admin.JWTSecret,
		UploadDir: cfg.Admin.UploadDir,
	})

	if cfg.LLM.APIKey != "" {
		c, err := llm.New(llm.Config{APIKey: cfg.LLM.APIKey, BaseURL: cfg.LLM.BaseURL, Model: cfg.LLM.Model})
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
		mcp.SetChooser(c)
		log.Info().Str("model", c.Model()).Msg("llm tool chooser enabled")
	} else {
		mcp.SetChooser(nil)
	}

	r := mux.NewRouter()
	RegisterRoutes(r, RouteOptions{
		APIKey:    cfg.Admin.APIKey,
		JWTSecret: cfg.Admin.JWTSecret,
	})
	registerMCPTools()
	if err := mcp.VerifyCatalog(); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.DB.Driver).Dur("cache_ttl", cfg.DB.CacheTTL).
		Int("tools", len(mcp.List())).Msg("app initialised")

	return &App{
		Router:    r,
		Config:    cfg,
		DB:        conn,
		Summaries: cached,
		Generator: gen,
		Counter:   counter,
		log:       log,
	}, nil
}

// Handler membungkus router dengan middleware global (berlaku juga untuk 404/405).
func (a *App) Handler() http.Handler {
	var h http.Handler = a.Router
	h = middleware.AccessLog(a.log, a.Counter)(h)
	h = middleware.RequestID(h)
	h = middleware.CORS(a.Config.CORSOrigins)(h)
	h = chimw.RealIP(h)
	h = chimw.Recoverer(h)
	return h
}

// Server: timeout mengikuti cmd/api lama.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:         ":" + a.Config.AppPort,
		Handler:      a.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
