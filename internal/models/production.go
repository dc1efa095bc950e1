// Package models holds the production dataset types shared by the store,
// the analytics services and the HTTP layer.
package models

import (
	"database/sql"
	"fmt"
	"strings"
)

// Metric is one of the four allocated production volumes.
type Metric string

const (
	MetricGas        Metric = "gas"
	MetricOil        Metric = "oil"
	MetricCondensate Metric = "condensate"
	MetricWater      Metric = "water"
)

// Metrics lists every metric in export/column order.
var Metrics = []Metric{MetricGas, MetricOil, MetricCondensate, MetricWater}

// Label is the display label with unit, as used in the dashboard tables.
func (m Metric) Label() string {
	switch m {
	case MetricGas:
		return "Gas (KCM)"
	case MetricOil:
		return "Oil (MT)"
	case MetricCondensate:
		return "Condensate (MT)"
	case MetricWater:
		return "Water (BB6)"
	}
	return string(m)
}

// ParseMetric accepts the short key ("gas") or the display label ("Gas (KCM)").
func ParseMetric(s string) (Metric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, m := range Metrics {
		if s == string(m) || s == strings.ToLower(m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", s)
}

// Volumes holds one value per metric.
type Volumes struct {
	Gas        float64 `json:"gas"`
	Oil        float64 `json:"oil"`
	Condensate float64 `json:"condensate"`
	Water      float64 `json:"water"`
}

// Get returns the value for m (0 for an unknown metric).
func (v Volumes) Get(m Metric) float64 {
	switch m {
	case MetricGas:
		return v.Gas
	case MetricOil:
		return v.Oil
	case MetricCondensate:
		return v.Condensate
	case MetricWater:
		return v.Water
	}
	return 0
}

// ProductionRecord is one row of the production table.
type ProductionRecord struct {
	WellID          string
	WellString      string
	ProcessPlatform string
	ProdDate        string // YYYY-MM-DD, boleh kosong
	HrsFlown        float64
	OilMT           float64
	GasKCM          float64
	CondensateMT    float64
	WaterBB6        float64
	Density         sql.NullFloat64
	Mass            sql.NullFloat64
	Temp            sql.NullFloat64
	BSW             sql.NullFloat64
	BatchID         string
}

// WellKey returns the well identifier, falling back to the well string.
func (r ProductionRecord) WellKey() string {
	if r.WellID != "" {
		return r.WellID
	}
	return r.WellString
}

// NetworkSummary is the per delivery network aggregate.
type NetworkSummary struct {
	Network         string  `json:"network"`
	OilMT           float64 `json:"oil_mt"`
	GasKCM          float64 `json:"gas_kcm"`
	CondensateMT    float64 `json:"condensate_mt"`
	WaterBB6        float64 `json:"water_bb6"`
	FlowingWells    int     `json:"flowing_wells"`
	NonFlowingWells int     `json:"non_flowing_wells"`
	TotalWells      int     `json:"total_wells"`
}

// Volumes returns the four summed volumes keyed by metric.
func (s NetworkSummary) Volumes() Volumes {
	return Volumes{Gas: s.GasKCM, Oil: s.OilMT, Condensate: s.CondensateMT, Water: s.WaterBB6}
}
