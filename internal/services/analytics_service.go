// internal/services/analytics_service.go
// Layanan analitik: deteksi anomali z-score & korelasi antar network pada deret sintetis

package services

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"wellprod/internal/models"
)

const (
	DefaultMinZScore = 2.5
	topCorrelations  = 5
)

type Anomaly struct {
	Network string        `json:"network"`
	Metric  models.Metric `json:"metric"`
	Month   string        `json:"month"`
	Value   float64       `json:"value"`
	ZScore  float64       `json:"z_score"`
}

type CorrPair struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
	N int     `json:"n"`
}

type AnalyticsReport struct {
	Metric          models.Metric `json:"metric"`
	MinZScore       float64       `json:"min_zscore"`
	Anomalies       []Anomaly     `json:"anomalies"`
	TopCorrelations []CorrPair    `json:"top_correlations"`
}

// ZScoreAnomalies flags points with |z| >= minZ using the sample stddev.
// Columns with fewer than 3 points or no spread are skipped.
func ZScoreAnomalies(s Series, network string, m models.Metric, minZ float64) []Anomaly {
	vals := s.Values(network, m)
	if len(vals) < 3 {
		return nil
	}
	mean, std := stat.MeanStdDev(vals, nil)
	if std == 0 || math.IsNaN(std) {
		return nil
	}
	var out []Anomaly
	for i, v := range vals {
		z := (v - mean) / std
		if math.Abs(z) >= minZ {
			out = append(out, Anomaly{
				Network: network,
				Metric:  m,
				Month:   s.Records[i].Month,
				Value:   v,
				ZScore:  z,
			})
		}
	}
	return out
}

// PearsonCorrelation korelasi dua kolom sejajar (index bulan yang sama).
func PearsonCorrelation(a, b []float64) (float64, error) {
	n := min(len(a), len(b))
	if n < 2 {
		return 0, errors.New("insufficient points for correlation")
	}
	r := stat.Correlation(a[:n], b[:n], nil)
	if math.IsNaN(r) {
		return 0, nil
	}
	return r, nil
}

// Analyze runs the anomaly scan for every network and the pairwise
// correlation of the metric, keeping the top pairs by |r|.
func Analyze(s Series, m models.Metric, minZ float64) AnalyticsReport {
	if minZ <= 0 {
		minZ = DefaultMinZScore
	}
	rep := AnalyticsReport{Metric: m, MinZScore: minZ, Anomalies: []Anomaly{}, TopCorrelations: []CorrPair{}}
	for _, g := range s.Groups {
		rep.Anomalies = append(rep.Anomalies, ZScoreAnomalies(s, g, m, minZ)...)
	}

	var corrs []CorrPair
	for i := 0; i < len(s.Groups); i++ {
		for j := i + 1; j < len(s.Groups); j++ {
			xs, ys := s.Values(s.Groups[i], m), s.Values(s.Groups[j], m)
			if len(xs) < 3 {
				continue
			}
			r, err := PearsonCorrelation(xs, ys)
			if err != nil {
				continue
			}
			corrs = append(corrs, CorrPair{A: s.Groups[i], B: s.Groups[j], R: r, N: len(xs)})
		}
	}
	sort.SliceStable(corrs, func(i, j int) bool { return math.Abs(corrs[i].R) > math.Abs(corrs[j].R) })
	if len(corrs) > topCorrelations {
		corrs = corrs[:topCorrelations]
	}
	rep.TopCorrelations = append(rep.TopCorrelations, corrs...)
	return rep
}
