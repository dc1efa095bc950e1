// internal/services/series.go
// Generator deret waktu sintetis per delivery network (simulasi, bukan forecast).

package services

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"wellprod/internal/models"
	"wellprod/internal/util"
)

// ErrInvalidInput is returned for empty groups, bad baselines or an inverted range.
var ErrInvalidInput = errors.New("invalid input")

// StepMode controls how the generator advances from one month to the next.
type StepMode string

const (
	// StepCalendar uses true calendar months; every record date is the 1st.
	StepCalendar StepMode = "calendar"
	// StepThirtyDays adds 30 days per step, so dates drift off the 1st.
	StepThirtyDays StepMode = "30d"
)

// ParseStepMode maps a config value to a StepMode (default calendar).
func ParseStepMode(s string) StepMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "30d", "30days", "days30", "approx":
		return StepThirtyDays
	default:
		return StepCalendar
	}
}

const (
	DefaultSpanMonths = 24
	seasonalAmplitude = 0.15
	variationMin      = 0.8
	variationWidth    = 0.4
)

// Group is one delivery network with its baseline volumes.
type Group struct {
	Name     string
	Baseline models.Volumes
}

// GroupsFromMap builds groups sorted by name.
func GroupsFromMap(m map[string]models.Volumes) []Group {
	out := make([]Group, 0, len(m))
	for name, b := range m {
		out = append(out, Group{Name: name, Baseline: b})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// GroupsFromSummaries keeps the summaries' order (gas desc from the store).
func GroupsFromSummaries(sums []models.NetworkSummary) []Group {
	out := make([]Group, 0, len(sums))
	for _, s := range sums {
		out = append(out, Group{Name: s.Network, Baseline: s.Volumes()})
	}
	return out
}

// MonthRecord is one simulated month.
type MonthRecord struct {
	Month    string                               `json:"month"`
	MonthNum int                                  `json:"month_num"`
	Date     time.Time                            `json:"date"`
	Values   map[string]map[models.Metric]float64 `json:"values"`
}

// Series is the ordered output of Generate.
type Series struct {
	Groups  []string      `json:"groups"`
	Records []MonthRecord `json:"records"`
}

// Values extracts one column (group, metric) in record order.
func (s Series) Values(group string, m models.Metric) []float64 {
	out := make([]float64, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r.Values[group][m])
	}
	return out
}

// SeasonalFactor is 1 + 0.15·sin(2π·i/12), periodic in i with period 12.
func SeasonalFactor(i int) float64 {
	return 1 + math.Sin(float64(i)/12*2*math.Pi)*seasonalAmplitude
}

// SeriesGenerator produces simulated monthly volumes around group baselines.
// The rng is shared between calls and guarded by mu.
type SeriesGenerator struct {
	mu    sync.Mutex
	rng   *rand.Rand
	clock util.Clock
	step  StepMode
	span  int
}

type SeriesOption func(*SeriesGenerator)

// WithRand injects the random source.
func WithRand(r *rand.Rand) SeriesOption { return func(g *SeriesGenerator) { g.rng = r } }

// WithSeed seeds a private random source; 0 keeps a time based seed.
func WithSeed(seed int64) SeriesOption {
	return func(g *SeriesGenerator) {
		if seed != 0 {
			g.rng = rand.New(rand.NewSource(seed))
		}
	}
}

func WithClock(c util.Clock) SeriesOption { return func(g *SeriesGenerator) { g.clock = c } }
func WithStep(m StepMode) SeriesOption    { return func(g *SeriesGenerator) { g.step = m } }

// WithSpanMonths sets how many months before now the series starts.
func WithSpanMonths(n int) SeriesOption {
	return func(g *SeriesGenerator) {
		if n > 0 {
			g.span = n
		}
	}
}

func NewSeriesGenerator(opts ...SeriesOption) *SeriesGenerator {
	g := &SeriesGenerator{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		clock: util.RealClock{},
		step:  StepCalendar,
		span:  DefaultSpanMonths,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate builds the series. start/end are optional and inclusive; each
// bound is applied on its own when present.
func (g *SeriesGenerator) Generate(groups []Group, start, end *time.Time) (Series, error) {
	if err := validateGroups(groups); err != nil {
		return Series{}, err
	}
	if start != nil && end != nil && CalendarDay(*end) < CalendarDay(*start) {
		return Series{}, fmt.Errorf("%w: end %s precedes start %s", ErrInvalidInput,
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	now := g.clock.Now()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -g.span, 0)

	names := make([]string, len(groups))
	for i, gr := range groups {
		names[i] = gr.Name
	}
	out := Series{Groups: names, Records: make([]MonthRecord, 0, g.span+1)}

	g.mu.Lock()
	defer g.mu.Unlock()

	current := first
	for i := 0; !current.After(now); i++ {
		rec := MonthRecord{
			Month:    current.Format("Jan 2006"),
			MonthNum: i,
			Date:     dateOnly(current),
			Values:   make(map[string]map[models.Metric]float64, len(groups)),
		}
		seasonal := SeasonalFactor(i)
		for _, gr := range groups {
			variation := variationMin + g.rng.Float64()*variationWidth
			vals := make(map[models.Metric]float64, len(models.Metrics))
			for _, m := range models.Metrics {
				vals[m] = round2(gr.Baseline.Get(m) * variation * seasonal)
			}
			rec.Values[gr.Name] = vals
		}
		if inRange(rec.Date, start, end) {
			out.Records = append(out.Records, rec)
		}

		switch g.step {
		case StepThirtyDays:
			current = current.AddDate(0, 0, 30)
		default:
			// dihitung dari first supaya tidak drift
			current = first.AddDate(0, i+1, 0)
		}
	}
	return out, nil
}

func validateGroups(groups []Group) error {
	if len(groups) == 0 {
		return fmt.Errorf("%w: groups is empty", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(groups))
	for _, gr := range groups {
		if strings.TrimSpace(gr.Name) == "" {
			return fmt.Errorf("%w: group name is empty", ErrInvalidInput)
		}
		if _, dup := seen[gr.Name]; dup {
			return fmt.Errorf("%w: duplicate group %q", ErrInvalidInput, gr.Name)
		}
		seen[gr.Name] = struct{}{}
		for _, m := range models.Metrics {
			v := gr.Baseline.Get(m)
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: group %q has invalid %s baseline %v", ErrInvalidInput, gr.Name, m, v)
			}
		}
	}
	return nil
}

// inRange membandingkan tanggal kalender (Y/M/D) saja; zona waktu bound dan
// clock boleh berbeda.
func inRange(d time.Time, start, end *time.Time) bool {
	day := CalendarDay(d)
	if start != nil && day < CalendarDay(*start) {
		return false
	}
	if end != nil && day > CalendarDay(*end) {
		return false
	}
	return true
}

// CalendarDay encodes t's date in its own location as yyyymmdd.
func CalendarDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
