package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellprod/internal/models"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

type countJob struct {
	n   int
	err error
}

func (j *countJob) Run() error   { j.n++; return j.err }
func (j *countJob) Name() string { return "count" }

type staticSummary struct {
	sums []models.NetworkSummary
	err  error
}

func (s staticSummary) NetworkSummary(context.Context) ([]models.NetworkSummary, error) {
	return s.sums, s.err
}

func TestAddJobAndRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	j := &countJob{}
	require.NoError(t, s.AddJob("0 0 1 * * *", j))
	assert.Equal(t, 1, s.Entries())
	assert.Error(t, s.AddJob("not a schedule", j))

	require.NoError(t, s.RunNow(j))
	assert.Equal(t, 1, j.n)

	s.Start()
	s.Stop()
}

func TestSnapshotRender(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	clock := util.FixedClock{T: now}
	gen := services.NewSeriesGenerator(services.WithSeed(3), services.WithClock(clock), services.WithSpanMonths(6))
	sums := []models.NetworkSummary{
		{Network: "CTF-B", GasKCM: 500, OilMT: 40, CondensateMT: 5, WaterBB6: 9, TotalWells: 4, FlowingWells: 3, NonFlowingWells: 1},
		{Network: "CTF-A", GasKCM: 300, OilMT: 60, CondensateMT: 2, WaterBB6: 1, TotalWells: 2, FlowingWells: 1, NonFlowingWells: 1},
	}
	root := t.TempDir()
	job := NewSnapshotJob(SnapshotConfig{
		Log:       zerolog.Nop(),
		Summaries: staticSummary{sums: sums},
		Generator: gen,
		Clock:     clock,
		Dir:       root,
	})
	assert.Equal(t, "snapshot", job.Name())

	dir, err := job.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "20261019-083000"), dir)

	for _, f := range []string{"volumes_gas.png", "well_status.png", "timeseries_gas.png"} {
		b, err := os.ReadFile(filepath.Join(dir, f))
		require.NoError(t, err, f)
		assert.True(t, strings.HasPrefix(string(b), "\x89PNG"), f)
	}

	csvs, err := filepath.Glob(filepath.Join(dir, "production_data_*.csv"))
	require.NoError(t, err)
	require.Len(t, csvs, 1)
	b, err := os.ReadFile(csvs[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "month,month_num,date,CTF-B_gas"))
}

func TestSnapshotErrors(t *testing.T) {
	gen := services.NewSeriesGenerator(services.WithSeed(1))

	job := NewSnapshotJob(SnapshotConfig{Log: zerolog.Nop(), Generator: gen, Dir: t.TempDir()})
	assert.Error(t, job.Run())

	job = NewSnapshotJob(SnapshotConfig{Log: zerolog.Nop(), Summaries: staticSummary{}, Generator: gen, Dir: t.TempDir()})
	assert.Error(t, job.Run())

	job = NewSnapshotJob(SnapshotConfig{Log: zerolog.Nop(), Summaries: staticSummary{err: errors.New("db down")}, Generator: gen, Dir: t.TempDir()})
	assert.ErrorContains(t, job.Run(), "db down")
}
