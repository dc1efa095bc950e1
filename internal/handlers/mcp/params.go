// internal/handlers/mcp/params.go
// Parameter tool: body JSON (POST dari /mcp/route) atau querystring (GET).
package mcp

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"wellprod/internal/models"
	"wellprod/internal/services"
	"wellprod/internal/util"
)

type toolParams struct {
	Networks     []string `json:"networks,omitempty"`
	Network      string   `json:"network,omitempty"`
	Metric       string   `json:"metric,omitempty"`
	Start        string   `json:"start,omitempty"` // YYYY-MM-DD | RFC3339
	End          string   `json:"end,omitempty"`
	Format       string   `json:"format,omitempty"`
	MinZ         float64  `json:"min_z,omitempty"`
	Points       []string `json:"points,omitempty"`
	WellID       string   `json:"well_id,omitempty"`
	Wells        int      `json:"wells,omitempty"`
	Limit        int      `json:"limit,omitempty"`
	Offset       int      `json:"offset,omitempty"`
	IncludeWater bool     `json:"include_water,omitempty"`
	Question     string   `json:"question,omitempty"`
}

func readParams(r *http.Request) (toolParams, error) {
	var p toolParams
	if r.Body != nil && (r.Method == http.MethodPost || r.Method == http.MethodPut) {
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return p, util.BadInput("invalid json body")
		}
	}

	// fallback querystring
	q := r.URL.Query()
	if len(p.Networks) == 0 {
		p.Networks = listParam(q, "networks")
	}
	if len(p.Points) == 0 {
		p.Points = listParam(q, "points")
	}
	str := func(dst *string, key string) {
		if *dst == "" {
			*dst = strings.TrimSpace(q.Get(key))
		}
	}
	str(&p.Network, "network")
	str(&p.Metric, "metric")
	str(&p.Start, "start")
	str(&p.End, "end")
	str(&p.Format, "format")
	str(&p.WellID, "well_id")
	str(&p.Question, "question")

	num := func(dst *int, key string) {
		if *dst == 0 {
			if n, err := strconv.Atoi(q.Get(key)); err == nil {
				*dst = n
			}
		}
	}
	num(&p.Wells, "wells")
	num(&p.Limit, "limit")
	num(&p.Offset, "offset")
	if p.MinZ == 0 {
		if f, err := strconv.ParseFloat(q.Get("min_z"), 64); err == nil {
			p.MinZ = f
		}
	}
	if !p.IncludeWater {
		p.IncludeWater, _ = strconv.ParseBool(q.Get("include_water"))
	}
	return p, nil
}

// listParam accepts ?k=a,b and ?k=a&k=b.
func listParam(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// dateRange parses start/end; end before start is rejected.
func (p toolParams) dateRange() (start, end *time.Time, err error) {
	if start, err = parseDate(p.Start); err != nil {
		return nil, nil, util.BadInput("invalid start: " + p.Start)
	}
	if end, err = parseDate(p.End); err != nil {
		return nil, nil, util.BadInput("invalid end: " + p.End)
	}
	if start != nil && end != nil && services.CalendarDay(*end) < services.CalendarDay(*start) {
		return nil, nil, util.BadInput("invalid start/end (end must not be before start)")
	}
	return start, end, nil
}

// metric returns the parsed metric or def when empty.
func (p toolParams) metric(def models.Metric) (models.Metric, error) {
	if strings.TrimSpace(p.Metric) == "" {
		return def, nil
	}
	m, err := models.ParseMetric(p.Metric)
	if err != nil {
		return "", util.BadInput(err.Error())
	}
	return m, nil
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			// jam dan offset dibuang, yang dipakai tanggal seperti yang ditulis
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d, nil
		}
	}
	return nil, errors.New("invalid date")
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
