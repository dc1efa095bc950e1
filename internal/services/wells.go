// internal/services/wells.go
// Simulasi per sumur: heatmap bulanan, radar measurement point, peta status.
// Semua pakai rng ber-seed sendiri supaya payload sama untuk input yang sama.

package services

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"wellprod/internal/models"
)

const DefaultSimSeed = 42

// ---------- Heatmap ----------

type HeatmapCell struct {
	Well   string  `json:"well"`
	Month  string  `json:"production_date"` // YYYY-MM
	Volume float64 `json:"volume"`
}

// Heatmap is a well x month grid, Z[row][col] follows Wells x Months.
type Heatmap struct {
	Wells  []string    `json:"wells"`
	Months []string    `json:"months"`
	Z      [][]float64 `json:"z"`
}

// Cells flattens the grid back to long format.
func (h Heatmap) Cells() []HeatmapCell {
	out := make([]HeatmapCell, 0, len(h.Wells)*len(h.Months))
	for r, w := range h.Wells {
		for c, m := range h.Months {
			out = append(out, HeatmapCell{Well: w, Month: m, Volume: h.Z[r][c]})
		}
	}
	return out
}

// MonthEnds returns the last n month-end dates up to now, oldest first.
func MonthEnds(now time.Time, n int) []time.Time {
	// month end terakhir yang <= now
	last := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location())
	if last.After(now) {
		last = time.Date(now.Year(), now.Month(), 0, 0, 0, 0, 0, now.Location())
	}
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		k := n - 1 - i
		out[i] = time.Date(last.Year(), last.Month()-time.Month(k)+1, 0, 0, 0, 0, 0, last.Location())
	}
	return out
}

// WellHeatmap simulates 12 months of allocated oil per well around the
// well's mean, volume = max(0, base·(0.7 + 0.6·U)).
func WellHeatmap(records []models.ProductionRecord, now time.Time, seed int64) Heatmap {
	order, byWell := groupOilByWell(records)

	months := MonthEnds(now, 12)
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Format("2006-01")
	}

	rng := rand.New(rand.NewSource(seed))
	h := Heatmap{Wells: order, Months: labels, Z: make([][]float64, len(order))}
	for r, w := range order {
		base := stat.Mean(byWell[w], nil)
		row := make([]float64, len(months))
		for c := range months {
			row[c] = math.Max(0, base*(0.7+0.6*rng.Float64()))
		}
		h.Z[r] = row
	}
	return h
}

func groupOilByWell(records []models.ProductionRecord) ([]string, map[string][]float64) {
	var order []string
	byWell := map[string][]float64{}
	for _, rec := range records {
		w := rec.WellKey()
		if w == "" {
			continue
		}
		if _, ok := byWell[w]; !ok {
			order = append(order, w)
		}
		byWell[w] = append(byWell[w], rec.OilMT)
	}
	return order, byWell
}

// ---------- Radar ----------

type radarMetric struct {
	label    string
	min, max float64
	value    func(models.ProductionRecord) (float64, bool)
}

var radarMetrics = []radarMetric{
	{"Standard Volume", 100, 1000, func(r models.ProductionRecord) (float64, bool) { return r.OilMT, true }},
	{"Density", 0.7, 1.1, func(r models.ProductionRecord) (float64, bool) { return r.Density.Float64, r.Density.Valid }},
	{"Mass", 100, 1000, func(r models.ProductionRecord) (float64, bool) { return r.Mass.Float64, r.Mass.Valid }},
	{"Temp", 20, 80, func(r models.ProductionRecord) (float64, bool) { return r.Temp.Float64, r.Temp.Valid }},
	{"BSW", 0, 10, func(r models.ProductionRecord) (float64, bool) { return r.BSW.Float64, r.BSW.Valid }},
}

// RadarProfile is one closed polygon; R and Theta repeat the first entry at the end.
type RadarProfile struct {
	Point     string    `json:"point"`
	R         []float64 `json:"r"`
	Theta     []string  `json:"theta"`
	Simulated []bool    `json:"simulated"`
}

// RadarProfiles profiles each measurement point over the radar metrics. A
// metric with no data anywhere in records is simulated for every point.
func RadarProfiles(records []models.ProductionRecord, points []string, seed int64) []RadarProfile {
	available := make([]bool, len(radarMetrics))
	byPoint := map[string][]models.ProductionRecord{}
	for _, rec := range records {
		byPoint[rec.ProcessPlatform] = append(byPoint[rec.ProcessPlatform], rec)
		for i, m := range radarMetrics {
			if _, ok := m.value(rec); ok {
				available[i] = true
			}
		}
	}

	labels := make([]string, 0, len(radarMetrics)+1)
	for _, m := range radarMetrics {
		labels = append(labels, m.label)
	}
	labels = append(labels, radarMetrics[0].label)

	rng := rand.New(rand.NewSource(seed))
	out := make([]RadarProfile, 0, len(points))
	for _, p := range points {
		prof := RadarProfile{Point: p, Theta: labels}
		for i, m := range radarMetrics {
			var v float64
			if available[i] {
				v = pointMean(byPoint[p], m)
			} else {
				v = m.min + rng.Float64()*(m.max-m.min)
			}
			prof.R = append(prof.R, v)
			prof.Simulated = append(prof.Simulated, !available[i])
		}
		prof.R = append(prof.R, prof.R[0])
		prof.Simulated = append(prof.Simulated, prof.Simulated[0])
		out = append(out, prof)
	}
	return out
}

func pointMean(recs []models.ProductionRecord, m radarMetric) float64 {
	vals := make([]float64, 0, len(recs))
	for _, r := range recs {
		if v, ok := m.value(r); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}

// ---------- Well status map ----------

const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusShutIn   = "Shut-in"
)

// StatusColors maps a well status to its marker colour.
var StatusColors = map[string]string{
	StatusActive:   "green",
	StatusInactive: "red",
	StatusShutIn:   "orange",
}

type MapWell struct {
	WellID    string  `json:"well_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Status    string  `json:"status"`
	Volume    int     `json:"volume"`
}

type MapDot struct {
	MapWell
	Color string `json:"color"`
}

type WellMap struct {
	Wells []MapWell `json:"wells"`
	Dots  []MapDot  `json:"dots"`
}

// MockWellMap places n mock wells in the offshore box lat 18.5–19.5,
// lon 71–73. Each well is drawn as Volume dots stacked northwards.
func MockWellMap(n int, seed int64) WellMap {
	rng := rand.New(rand.NewSource(seed))
	wells := make([]MapWell, n)
	for i := range wells {
		wells[i].WellID = fmt.Sprintf("WELL-%03d", i+1)
	}
	// urutan draw: semua lat, semua lon, status, volume
	for i := range wells {
		wells[i].Latitude = 18.5 + rng.Float64()
	}
	for i := range wells {
		wells[i].Longitude = 71.0 + rng.Float64()*2
	}
	for i := range wells {
		wells[i].Status = pickStatus(rng.Float64())
	}
	for i := range wells {
		wells[i].Volume = 1 + rng.Intn(10)
	}

	var dots []MapDot
	for _, w := range wells {
		for i := 0; i < w.Volume; i++ {
			d := MapDot{MapWell: w, Color: StatusColors[w.Status]}
			d.Latitude = w.Latitude + float64(i)*0.03
			dots = append(dots, d)
		}
	}
	return WellMap{Wells: wells, Dots: dots}
}

func pickStatus(u float64) string {
	switch {
	case u < 0.6:
		return StatusActive
	case u < 0.9:
		return StatusInactive
	default:
		return StatusShutIn
	}
}
