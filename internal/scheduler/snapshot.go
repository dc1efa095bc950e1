// Job snapshot: render chart PNG + CSV deret sintetis ke EXPORT_DIR.
package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/plot"

	"wellprod/internal/charts"
	"wellprod/internal/export"
	"wellprod/internal/models"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

// SummarySource is the network summary store (usually the cached repo).
type SummarySource interface {
	NetworkSummary(ctx context.Context) ([]models.NetworkSummary, error)
}

type SnapshotConfig struct {
	Log       zerolog.Logger
	Summaries SummarySource
	Generator *services.SeriesGenerator
	Clock     util.Clock
	Dir       string
	Metric    models.Metric // default gas
	Networks  int           // series networks, default 3
	Timeout   time.Duration
}

type SnapshotJob struct {
	cfg SnapshotConfig
	log zerolog.Logger
}

func NewSnapshotJob(cfg SnapshotConfig) *SnapshotJob {
	if cfg.Clock == nil {
		cfg.Clock = util.RealClock{}
	}
	if cfg.Metric == "" {
		cfg.Metric = models.MetricGas
	}
	if cfg.Networks <= 0 {
		cfg.Networks = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.Dir == "" {
		cfg.Dir = "exports"
	}
	return &SnapshotJob{cfg: cfg, log: cfg.Log.With().Str("job", "snapshot").Logger()}
}

func (j *SnapshotJob) Name() string { return "snapshot" }

func (j *SnapshotJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.cfg.Timeout)
	defer cancel()
	dir, err := j.Render(ctx)
	if err != nil {
		return err
	}
	j.log.Info().Str("dir", dir).Msg("snapshot written")
	return nil
}

// Render writes one timestamped snapshot directory and returns its path.
func (j *SnapshotJob) Render(ctx context.Context) (string, error) {
	if j.cfg.Summaries == nil || j.cfg.Generator == nil {
		return "", fmt.Errorf("snapshot: summaries and generator are required")
	}
	sums, err := j.cfg.Summaries.NetworkSummary(ctx)
	if err != nil {
		return "", fmt.Errorf("load summary: %w", err)
	}
	if len(sums) == 0 {
		return "", fmt.Errorf("snapshot: %w", charts.ErrNoData)
	}

	names := make([]string, len(sums))
	for i, s := range sums {
		names[i] = s.Network
	}
	picked := services.FilterSummaries(sums, services.DefaultSelection(names, j.cfg.Networks))
	series, err := j.cfg.Generator.Generate(services.GroupsFromSummaries(picked), nil, nil)
	if err != nil {
		return "", fmt.Errorf("generate series: %w", err)
	}

	dir := filepath.Join(j.cfg.Dir, j.cfg.Clock.Now().Format("20060102-150405"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	m := j.cfg.Metric
	plots := []struct {
		file  string
		build func() (*plot.Plot, error)
	}{
		{"volumes_" + string(m) + ".png", func() (*plot.Plot, error) { return charts.VolumeBars(sums, m) }},
		{"well_status.png", func() (*plot.Plot, error) { return charts.WellStatusBars(sums) }},
		{"timeseries_" + string(m) + ".png", func() (*plot.Plot, error) { return charts.SeriesLines(series, m) }},
	}
	for _, p := range plots {
		pl, err := p.build()
		if err != nil {
			return dir, fmt.Errorf("%s: %w", p.file, err)
		}
		var buf bytes.Buffer
		if err := charts.WritePNG(&buf, pl, charts.DefaultWidth, charts.DefaultHeight); err != nil {
			return dir, fmt.Errorf("%s: %w", p.file, err)
		}
		if err := os.WriteFile(filepath.Join(dir, p.file), buf.Bytes(), 0o644); err != nil {
			return dir, err
		}
	}

	var csv bytes.Buffer
	if err := export.WriteCSV(&csv, series); err != nil {
		return dir, fmt.Errorf("series csv: %w", err)
	}
	name := export.FileName(series, nil, nil, export.FormatCSV)
	if err := os.WriteFile(filepath.Join(dir, name), csv.Bytes(), 0o644); err != nil {
		return dir, err
	}
	return dir, nil
}
