// internal/services/network.go
// Analitik per delivery network: urutan volume, status sumur, format "long".

package services

import (
	"math"
	"sort"

	"wellprod/internal/models"
)

// VolumeRow is one (network, volume type) cell of the melted table.
type VolumeRow struct {
	Network    string  `json:"network"`
	VolumeType string  `json:"volume_type"`
	Volume     float64 `json:"volume"`
}

// StatusTotals sums well counts over all networks.
type StatusTotals struct {
	Flowing    int `json:"flowing_wells"`
	NonFlowing int `json:"non_flowing_wells"`
	Total      int `json:"total_wells"`
}

// StatusShare is the flowing / non-flowing split of one network in percent.
type StatusShare struct {
	Network           string  `json:"network"`
	FlowingWells      int     `json:"flowing_wells"`
	NonFlowingWells   int     `json:"non_flowing_wells"`
	TotalWells        int     `json:"total_wells"`
	FlowingPercent    float64 `json:"flowing_pct"`
	NonFlowingPercent float64 `json:"non_flowing_pct"`
}

// SortByVolume returns a copy ordered by the metric, largest first.
func SortByVolume(sums []models.NetworkSummary, m models.Metric) []models.NetworkSummary {
	out := append([]models.NetworkSummary(nil), sums...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Volumes().Get(m) > out[j].Volumes().Get(m)
	})
	return out
}

// MeltVolumes flattens the summaries into one row per network and volume type.
// Water is left out unless includeWater is set, its scale dwarfs the others.
func MeltVolumes(sums []models.NetworkSummary, includeWater bool) []VolumeRow {
	out := make([]VolumeRow, 0, len(sums)*len(models.Metrics))
	for _, m := range models.Metrics {
		if m == models.MetricWater && !includeWater {
			continue
		}
		for _, s := range sums {
			out = append(out, VolumeRow{Network: s.Network, VolumeType: m.Label(), Volume: s.Volumes().Get(m)})
		}
	}
	return out
}

// WellStatusTotals sums flowing, non-flowing and total wells.
func WellStatusTotals(sums []models.NetworkSummary) StatusTotals {
	var t StatusTotals
	for _, s := range sums {
		t.Flowing += s.FlowingWells
		t.NonFlowing += s.NonFlowingWells
		t.Total += s.TotalWells
	}
	return t
}

// StatusPercentages computes per network shares rounded to one decimal,
// sorted by flowing share desc. A network with no wells reports 0/0.
func StatusPercentages(sums []models.NetworkSummary) []StatusShare {
	out := make([]StatusShare, 0, len(sums))
	for _, s := range sums {
		sh := StatusShare{
			Network:         s.Network,
			FlowingWells:    s.FlowingWells,
			NonFlowingWells: s.NonFlowingWells,
			TotalWells:      s.TotalWells,
		}
		if s.TotalWells > 0 {
			sh.FlowingPercent = round1(float64(s.FlowingWells) / float64(s.TotalWells) * 100)
			sh.NonFlowingPercent = round1(float64(s.NonFlowingWells) / float64(s.TotalWells) * 100)
		}
		out = append(out, sh)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FlowingPercent > out[j].FlowingPercent })
	return out
}

// RankByTotalVolume orders network names by gas+oil+condensate, largest first.
func RankByTotalVolume(sums []models.NetworkSummary) []string {
	sorted := append([]models.NetworkSummary(nil), sums...)
	total := func(s models.NetworkSummary) float64 { return s.GasKCM + s.OilMT + s.CondensateMT }
	sort.SliceStable(sorted, func(i, j int) bool { return total(sorted[i]) > total(sorted[j]) })
	out := make([]string, len(sorted))
	for i, s := range sorted {
		out[i] = s.Network
	}
	return out
}

// DefaultSelection returns the first n names.
func DefaultSelection(names []string, n int) []string {
	if n > len(names) {
		n = len(names)
	}
	return append([]string(nil), names[:n]...)
}

// FilterSummaries keeps the summaries whose network is in names, in summary order.
// An empty names list keeps everything.
func FilterSummaries(sums []models.NetworkSummary, names []string) []models.NetworkSummary {
	if len(names) == 0 {
		return sums
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := make([]models.NetworkSummary, 0, len(names))
	for _, s := range sums {
		if _, ok := want[s.Network]; ok {
			out = append(out, s)
		}
	}
	return out
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
