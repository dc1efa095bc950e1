// cmd/worker/main.go
// Worker: snapshot chart & CSV terjadwal (cron) ke EXPORT_DIR.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"wellprod/internal/app"
	"wellprod/internal/config"
	"wellprod/internal/repositories/sqldb"
	"wellprod/internal/scheduler"
	"wellprod/pkg/db"
	"wellprod/pkg/logger"
)

func main() {
	cfg := config.Load()
	l := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(l)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	conn, err := db.Open(ctx, app.DBOptions(cfg))
	if err == nil {
		err = sqldb.Migrate(ctx, conn, sqldb.Dialect(cfg.DB.Driver))
	}
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("open db")
	}
	defer conn.Close()

	job := scheduler.NewSnapshotJob(scheduler.SnapshotConfig{
		Log:       l,
		Summaries: sqldb.NewCachedSummary(&sqldb.ProductionRepo{DB: conn}, cfg.DB.CacheTTL),
		Generator: app.NewGenerator(cfg),
		Dir: cfg.Worker.ExportDir,
	})

	s := scheduler.New(l)
	if err := s.AddJob(cfg.Worker.Schedule, job); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Worker.Schedule).Msg("register snapshot job")
	}
	s.Start()
	log.Info().Str("export_dir", cfg.Worker.ExportDir).Msg("worker started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	s.Stop()
}
