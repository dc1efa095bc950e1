package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellprod/internal/models"
)

func sampleSummaries() []models.NetworkSummary {
	return []models.NetworkSummary{
		{Network: "CTF-A", GasKCM: 900, OilMT: 10, CondensateMT: 5, WaterBB6: 10000, FlowingWells: 3, NonFlowingWells: 1, TotalWells: 4},
		{Network: "CTF-B", GasKCM: 500, OilMT: 700, CondensateMT: 0, WaterBB6: 20, FlowingWells: 1, NonFlowingWells: 2, TotalWells: 3},
		{Network: "CTF-C", GasKCM: 100, OilMT: 5, CondensateMT: 1, WaterBB6: 0, FlowingWells: 0, NonFlowingWells: 0, TotalWells: 0},
	}
}

func TestSortByVolume(t *testing.T) {
	out := SortByVolume(sampleSummaries(), models.MetricOil)
	assert.Equal(t, "CTF-B", out[0].Network)
	assert.Equal(t, "CTF-C", out[2].Network)
	// input tidak berubah
	assert.Equal(t, "CTF-A", sampleSummaries()[0].Network)
}

func TestMeltVolumes(t *testing.T) {
	rows := MeltVolumes(sampleSummaries(), false)
	require.Len(t, rows, 9)
	assert.Equal(t, VolumeRow{Network: "CTF-A", VolumeType: "Gas (KCM)", Volume: 900}, rows[0])
	for _, r := range rows {
		assert.NotEqual(t, "Water (BB6)", r.VolumeType)
	}
	assert.Len(t, MeltVolumes(sampleSummaries(), true), 12)
}

func TestWellStatusTotals(t *testing.T) {
	assert.Equal(t, StatusTotals{Flowing: 4, NonFlowing: 3, Total: 7}, WellStatusTotals(sampleSummaries()))
}

func TestStatusPercentages(t *testing.T) {
	shares := StatusPercentages(sampleSummaries())
	require.Len(t, shares, 3)
	assert.Equal(t, "CTF-A", shares[0].Network)
	assert.Equal(t, 75.0, shares[0].FlowingPercent)
	assert.Equal(t, 25.0, shares[0].NonFlowingPercent)
	assert.Equal(t, 33.3, shares[1].FlowingPercent)
	assert.Equal(t, 66.7, shares[1].NonFlowingPercent)
	assert.Equal(t, 0.0, shares[2].FlowingPercent)
	for _, s := range shares[:2] {
		assert.InDelta(t, 100, s.FlowingPercent+s.NonFlowingPercent, 0.11)
	}
}

func TestRankByTotalVolumeAndSelection(t *testing.T) {
	ranked := RankByTotalVolume(sampleSummaries())
	assert.Equal(t, []string{"CTF-B", "CTF-A", "CTF-C"}, ranked)
	assert.Equal(t, []string{"CTF-B", "CTF-A"}, DefaultSelection(ranked, 2))
	assert.Len(t, DefaultSelection(ranked, 4), 3)
}

func TestFilterSummaries(t *testing.T) {
	out := FilterSummaries(sampleSummaries(), []string{"CTF-C", "CTF-A"})
	require.Len(t, out, 2)
	assert.Equal(t, "CTF-A", out[0].Network)
	assert.Len(t, FilterSummaries(sampleSummaries(), nil), 3)
}
