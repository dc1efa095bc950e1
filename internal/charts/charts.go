// Package charts renders dashboard charts to PNG with gonum/plot.
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"wellprod/internal/models"
	"wellprod/internal/services"
)

// Kind identifies one renderable chart.
type Kind string

const (
	KindVolumes    Kind = "volumes"
	KindTimeseries Kind = "timeseries"
	KindHeatmap    Kind = "heatmap"
	KindWellStatus Kind = "well-status"
)

var Kinds = []Kind{KindVolumes, KindTimeseries, KindHeatmap, KindWellStatus}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown chart %q", s)
}

var ErrNoData = errors.New("nothing to plot")

const (
	DefaultWidth  = 10 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

var (
	flowingColor    = color.RGBA{R: 46, G: 139, B: 87, A: 255}
	nonFlowingColor = color.RGBA{R: 205, G: 92, B: 92, A: 255}
)

// VolumeBars is the "Standard Volume by Delivery Network" bar chart.
func VolumeBars(sums []models.NetworkSummary, m models.Metric) (*plot.Plot, error) {
	if len(sums) == 0 {
		return nil, ErrNoData
	}
	sorted := services.SortByVolume(sums, m)
	values := make(plotter.Values, len(sorted))
	names := make([]string, len(sorted))
	for i, s := range sorted {
		values[i] = s.Volumes().Get(m)
		names[i] = s.Network
	}

	p := plot.New()
	p.Title.Text = m.Label() + " by Delivery Network"
	p.Y.Label.Text = m.Label()

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	p.Add(bars, plotter.NewGrid())
	p.NominalX(names...)
	return p, nil
}

// SeriesLines draws one line per network for metric m over the series months.
func SeriesLines(s services.Series, m models.Metric) (*plot.Plot, error) {
	if len(s.Records) == 0 || len(s.Groups) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = m.Label() + " over Time"
	p.Y.Label.Text = m.Label()
	p.X.Tick.Marker = plot.TimeTicks{Format: "Jan 2006"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, g := range s.Groups {
		vals := s.Values(g, m)
		pts := make(plotter.XYs, len(vals))
		for j, v := range vals {
			pts[j].X = float64(s.Records[j].Date.Unix())
			pts[j].Y = v
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		points.Color = plotutil.Color(i)
		points.Shape = plotutil.Shape(i)
		p.Add(line, points)
		p.Legend.Add(g, line, points)
	}
	return p, nil
}

// heatGrid adapts services.Heatmap to plotter.GridXYZ; columns are months,
// rows are wells.
type heatGrid struct{ h services.Heatmap }

func (g heatGrid) Dims() (c, r int)   { return len(g.h.Months), len(g.h.Wells) }
func (g heatGrid) Z(c, r int) float64 { return g.h.Z[r][c] }
func (g heatGrid) X(c int) float64    { return float64(c) }
func (g heatGrid) Y(r int) float64    { return float64(r) }

// WellHeatmap is the well x month production heatmap.
func WellHeatmap(h services.Heatmap) (*plot.Plot, error) {
	if len(h.Wells) == 0 || len(h.Months) == 0 {
		return nil, ErrNoData
	}
	hm := plotter.NewHeatMap(heatGrid{h}, palette.Heat(32, 1))
	if hm.Max <= hm.Min {
		// grid rata (mis. semua nol): palette scaling butuh rentang > 0
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.Title.Text = "Well Production Heatmap"
	p.Add(hm)
	p.NominalX(h.Months...)
	p.NominalY(h.Wells...)
	return p, nil
}

// WellStatusBars stacks flowing on top of non-flowing wells per network.
func WellStatusBars(sums []models.NetworkSummary) (*plot.Plot, error) {
	if len(sums) == 0 {
		return nil, ErrNoData
	}
	flowing := make(plotter.Values, len(sums))
	nonFlowing := make(plotter.Values, len(sums))
	names := make([]string, len(sums))
	for i, s := range sums {
		flowing[i] = float64(s.FlowingWells)
		nonFlowing[i] = float64(s.NonFlowingWells)
		names[i] = s.Network
	}

	p := plot.New()
	p.Title.Text = "Well Status by Delivery Network"
	p.Y.Label.Text = "Wells"

	base, err := plotter.NewBarChart(nonFlowing, vg.Points(20))
	if err != nil {
		return nil, err
	}
	base.Color = nonFlowingColor
	base.LineStyle.Width = vg.Length(0)

	top, err := plotter.NewBarChart(flowing, vg.Points(20))
	if err != nil {
		return nil, err
	}
	top.Color = flowingColor
	top.LineStyle.Width = vg.Length(0)
	top.StackOn(base)

	p.Add(base, top, plotter.NewGrid())
	p.Legend.Add("Flowing", top)
	p.Legend.Add("Non-Flowing", base)
	p.Legend.Top = true
	p.NominalX(names...)
	return p, nil
}

// WritePNG renders p as PNG into w.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
